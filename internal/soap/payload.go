// Package soap builds SOAP request payloads and envelopes and parses
// success and fault responses with namespace-tolerant element matching.
package soap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pitabwire/sonoctl/model"
)

// instanceIDName is the one field with a documented default: 0 when the
// caller does not supply it.
const instanceIDName = "instance_id"

// BuildPayload resolves each field of spec to a wire value, in declared
// order. Optional fields without a supplied value are omitted entirely;
// missing required fields and failed coercions abort the build.
func BuildPayload(spec model.OperationSpec, params model.ParameterMap) ([]model.PayloadEntry, error) {
	entries := make([]model.PayloadEntry, 0, len(spec.Fields))

	for _, field := range spec.Fields {
		value, supplied := params[field.Name]
		switch {
		case supplied:
			// fall through to coercion
		case field.Name == instanceIDName:
			value = 0
		case !field.Required:
			continue
		default:
			return nil, model.NewMissingParameterError(field.Name)
		}

		wire, err := coerce(field, value)
		if err != nil {
			return nil, err
		}
		entries = append(entries, model.PayloadEntry{WireName: field.WireName, Value: wire})
	}

	return entries, nil
}

// coerce converts a loosely-typed parameter value to its wire string by
// exhaustive match over the field kind.
func coerce(field model.FieldSpec, value any) (string, error) {
	switch field.Kind {
	case model.KindBool:
		if isTrueLike(value) {
			return "1", nil
		}
		return "0", nil
	case model.KindUint:
		n, err := toInt64(value)
		if err != nil || n < 0 {
			return "", model.NewInvalidTypeError(field.Name, value)
		}
		return strconv.FormatInt(n, 10), nil
	case model.KindInt:
		n, err := toInt64(value)
		if err != nil {
			return "", model.NewInvalidTypeError(field.Name, value)
		}
		return strconv.FormatInt(n, 10), nil
	case model.KindString:
		return escapeXML(stringify(value)), nil
	}
	return "", model.NewInvalidTypeError(field.Name, value)
}

// isTrueLike reports whether a value encodes boolean true: true itself,
// numeric 1, or "true"/"yes"/"1" case-insensitively. Everything else is
// false; boolean coercion never fails.
func isTrueLike(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v == 1
	case int64:
		return v == 1
	case float64:
		return v == 1
	case string:
		switch strings.ToLower(v) {
		case "true", "yes", "1":
			return true
		}
	}
	return false
}

// toInt64 parses a parameter value as a base-10 integer.
func toInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return int64(v), nil
	case float64:
		n := int64(v)
		if float64(n) != v {
			return 0, fmt.Errorf("not an integer: %v", v)
		}
		return n, nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	}
	return 0, fmt.Errorf("unsupported value type %T", value)
}

func stringify(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// escapeXML escapes the five reserved markup characters.
func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
