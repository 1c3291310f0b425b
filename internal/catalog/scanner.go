// Package catalog builds the immutable operation catalog from declarative
// definition sources and provides a fast-lookup registry keyed by
// normalized operation name.
package catalog

import (
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/pitabwire/sonoctl/model"
)

// instanceIDField is prepended to every scanned spec. The wire protocol
// requires it first, regardless of whether the source declared it.
var instanceIDField = model.FieldSpec{
	Name:     "instance_id",
	Kind:     model.KindUint,
	Required: true,
	WireName: "InstanceID",
}

// Scanner extracts operation declarations from definition-source text.
//
// The grammar is:
//
//	operation Name {
//	    action: "ActionName"
//	    service: ServiceName
//	    request: {
//	        field_name: type,
//	        other_field: optional<type>,
//	    }
//	}
//
// A declaration the scanner cannot parse is skipped with a warning and
// scanning continues over the remaining source.
type Scanner struct {
	log *zap.Logger
}

// NewScanner creates a Scanner. A nil logger disables logging.
func NewScanner(logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{log: logger}
}

// Scan returns every well-formed operation declaration in src, in source
// order. sourceFile is recorded on each spec for diagnostics.
func (s *Scanner) Scan(src, sourceFile string) []model.OperationSpec {
	var specs []model.OperationSpec

	pos := 0
	for {
		idx := indexKeyword(src, pos, "operation")
		if idx < 0 {
			break
		}

		cur := newCursor(src[idx+len("operation"):])
		cur.skipSpace()
		name := cur.ident()
		cur.skipSpace()

		if name == "" || !cur.consume('{') {
			// Not a declaration; resume after the keyword.
			pos = idx + len("operation")
			continue
		}

		body, ok := cur.balancedBlock()
		if !ok {
			// Unterminated block: skip this declaration and resume at the
			// next keyword so later declarations still scan.
			s.log.Warn("unterminated operation block",
				zap.String("operation", name),
				zap.String("file", sourceFile))
			pos = idx + len("operation")
			continue
		}
		pos = idx + len("operation") + cur.offset()

		spec, err := parseDeclaration(name, body)
		if err != nil {
			s.log.Warn("skipping malformed operation declaration",
				zap.String("operation", name),
				zap.String("file", sourceFile),
				zap.Error(err))
			continue
		}
		spec.SourceFile = sourceFile
		specs = append(specs, spec)
	}

	return specs
}

// parseDeclaration parses the interior of an operation block into a spec.
// The synthetic instance_id field is always first.
func parseDeclaration(name, body string) (model.OperationSpec, error) {
	spec := model.OperationSpec{
		Name:   name,
		Fields: []model.FieldSpec{instanceIDField},
	}

	cur := newCursor(body)
	for {
		cur.skipSpace()
		if cur.done() {
			break
		}
		key := cur.ident()
		cur.skipSpace()
		if key == "" || !cur.consume(':') {
			return model.OperationSpec{}, fmt.Errorf("expected directive near %q", cur.rest(20))
		}
		cur.skipSpace()

		switch key {
		case "action":
			v, ok := cur.quoted()
			if !ok {
				return model.OperationSpec{}, fmt.Errorf("action: expected quoted string")
			}
			spec.Action = v
		case "service":
			v := cur.ident()
			if v == "" {
				return model.OperationSpec{}, fmt.Errorf("service: expected identifier")
			}
			spec.Service = v
		case "request":
			if !cur.consume('{') {
				return model.OperationSpec{}, fmt.Errorf("request: expected field block")
			}
			block, ok := cur.balancedBlock()
			if !ok {
				return model.OperationSpec{}, fmt.Errorf("request: unterminated field block")
			}
			fields, err := parseFields(block)
			if err != nil {
				return model.OperationSpec{}, err
			}
			spec.Fields = append(spec.Fields, fields...)
		default:
			return model.OperationSpec{}, fmt.Errorf("unknown directive %q", key)
		}

		cur.skipSpace()
		cur.consume(',')
	}

	if spec.Action == "" {
		return model.OperationSpec{}, fmt.Errorf("missing action")
	}
	if spec.Service == "" {
		return model.OperationSpec{}, fmt.Errorf("missing service")
	}
	return spec, nil
}

// parseFields parses a request field block in declaration order.
func parseFields(block string) ([]model.FieldSpec, error) {
	var fields []model.FieldSpec

	cur := newCursor(block)
	for {
		cur.skipSpace()
		if cur.done() {
			break
		}
		name := cur.ident()
		cur.skipSpace()
		if name == "" || !cur.consume(':') {
			return nil, fmt.Errorf("expected field declaration near %q", cur.rest(20))
		}
		cur.skipSpace()
		typeTok := cur.typeToken()
		if typeTok == "" {
			return nil, fmt.Errorf("field %q: missing type", name)
		}

		kind, required, err := parseFieldType(typeTok)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		fields = append(fields, model.FieldSpec{
			Name:     name,
			Kind:     kind,
			Required: required,
			WireName: wireName(name),
		})

		cur.skipSpace()
		cur.consume(',')
	}

	return fields, nil
}

// parseFieldType resolves a type token to a field kind. An optional<T>
// wrapper marks the field as not required.
func parseFieldType(tok string) (model.FieldKind, bool, error) {
	required := true
	if strings.HasPrefix(tok, "optional<") && strings.HasSuffix(tok, ">") {
		required = false
		tok = tok[len("optional<") : len(tok)-1]
	}

	switch tok {
	case "bool":
		return model.KindBool, required, nil
	case "u8", "u16", "u32":
		return model.KindUint, required, nil
	case "i8", "i16", "i32":
		return model.KindInt, required, nil
	case "string":
		return model.KindString, required, nil
	}
	return 0, false, fmt.Errorf("unknown type %q", tok)
}

// indexKeyword finds the next occurrence of word at or after pos that stands
// alone (not part of a larger identifier).
func indexKeyword(src string, pos int, word string) int {
	for {
		i := strings.Index(src[pos:], word)
		if i < 0 {
			return -1
		}
		i += pos
		before := i == 0 || !isIdentRune(rune(src[i-1]))
		afterIdx := i + len(word)
		after := afterIdx >= len(src) || !isIdentRune(rune(src[afterIdx]))
		if before && after {
			return i
		}
		pos = i + len(word)
	}
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// cursor is a minimal forward-only scanner over declaration text.
type cursor struct {
	src string
	pos int
}

func newCursor(src string) *cursor {
	return &cursor{src: src}
}

func (c *cursor) done() bool  { return c.pos >= len(c.src) }
func (c *cursor) offset() int { return c.pos }
func (c *cursor) peek() byte  { return c.src[c.pos] }

// rest returns up to n characters of remaining input, for error messages.
func (c *cursor) rest(n int) string {
	r := c.src[c.pos:]
	if len(r) > n {
		r = r[:n]
	}
	return r
}

// skipSpace advances over whitespace and line comments (// and #).
func (c *cursor) skipSpace() {
	for !c.done() {
		ch := c.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			c.pos++
		case ch == '#':
			c.skipLine()
		case ch == '/' && c.pos+1 < len(c.src) && c.src[c.pos+1] == '/':
			c.skipLine()
		default:
			return
		}
	}
}

func (c *cursor) skipLine() {
	for !c.done() && c.peek() != '\n' {
		c.pos++
	}
}

// consume advances past ch if it is next, reporting whether it did.
func (c *cursor) consume(ch byte) bool {
	if !c.done() && c.peek() == ch {
		c.pos++
		return true
	}
	return false
}

// ident reads an identifier ([A-Za-z0-9_]+).
func (c *cursor) ident() string {
	start := c.pos
	for !c.done() && isIdentRune(rune(c.peek())) {
		c.pos++
	}
	return c.src[start:c.pos]
}

// typeToken reads a type name, including an optional<...> wrapper.
func (c *cursor) typeToken() string {
	start := c.pos
	for !c.done() {
		ch := c.peek()
		if isIdentRune(rune(ch)) || ch == '<' || ch == '>' {
			c.pos++
			continue
		}
		break
	}
	return c.src[start:c.pos]
}

// quoted reads a double-quoted string, returning its contents.
func (c *cursor) quoted() (string, bool) {
	if c.done() || c.peek() != '"' {
		return "", false
	}
	c.pos++
	start := c.pos
	for !c.done() {
		if c.peek() == '"' {
			v := c.src[start:c.pos]
			c.pos++
			return v, true
		}
		c.pos++
	}
	return "", false
}

// balancedBlock reads up to the brace matching an already-consumed opening
// brace, honoring nested blocks and quoted strings. It returns the interior
// text and reports whether a matching close brace was found.
func (c *cursor) balancedBlock() (string, bool) {
	start := c.pos
	depth := 1
	for !c.done() {
		switch c.peek() {
		case '{':
			depth++
			c.pos++
		case '}':
			depth--
			c.pos++
			if depth == 0 {
				return c.src[start : c.pos-1], true
			}
		case '"':
			if _, ok := c.quoted(); !ok {
				return "", false
			}
		default:
			c.pos++
		}
	}
	return "", false
}
