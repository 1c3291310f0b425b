// Package model holds the shared data model of the operation-execution
// engine: operation and field specifications, service registry entries,
// execution results, and the uniform failure taxonomy.
package model

// FieldKind is the closed set of wire types a request field can carry.
type FieldKind int

const (
	KindBool FieldKind = iota
	KindUint
	KindInt
	KindString
)

// MarshalJSON encodes the kind as its definition-source spelling.
func (k FieldKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// String returns the definition-source spelling of the kind.
func (k FieldKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindUint:
		return "uint"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	}
	return "unknown"
}

// FieldSpec describes a single request field of an operation. Field order is
// significant: the declared order becomes wire order in the built payload.
type FieldSpec struct {
	Name     string    `json:"name"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	WireName string    `json:"wire_name"`
}

// OperationSpec describes one remotely invokable operation. Specs are created
// once per catalog build and immutable thereafter.
type OperationSpec struct {
	Name    string      `json:"name"`
	Action  string      `json:"action"`
	Service string      `json:"service"`
	Fields  []FieldSpec `json:"fields"`

	// SourceFile records the definition file the spec was scanned from.
	SourceFile string `json:"source_file,omitempty"`
}

// ServiceInfo describes the network identity of a UPnP service: its control
// endpoint path (no leading slash) and its namespace URI.
type ServiceInfo struct {
	Endpoint   string `json:"endpoint"    yaml:"endpoint"`
	ServiceURI string `json:"service_uri" yaml:"service_uri"`
}

// ParameterMap carries caller-supplied parameter values keyed by field name.
// Values may be strings, integers, or booleans; keys not present in the
// operation spec are ignored.
type ParameterMap map[string]any

// PayloadEntry is one ordered (wire name, wire value) pair of a built payload.
type PayloadEntry struct {
	WireName string
	Value    string
}

// ExecutionResult is the success outcome of a single execution. Failures are
// reported as a *CallError instead.
type ExecutionResult struct {
	Operation string            `json:"operation"`
	Action    string            `json:"action"`
	Service   string            `json:"service"`
	Fields    map[string]string `json:"fields"`

	// ResponseFound distinguishes a response element with no fields from a
	// body where no response element was located at all. Both are successful
	// outcomes, but callers may want to observe the difference.
	ResponseFound bool `json:"response_found"`
}
