package soap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// Element is a generic parsed XML element. Names carry the local part only:
// the wire format embeds an arbitrary or absent namespace on each element,
// and matching must not depend on it.
type Element struct {
	Name     string
	Text     string
	Children []*Element
}

// ParseDocument parses body into an element tree rooted at the document
// element.
func ParseDocument(body []byte) (*Element, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))

	var root *Element
	var stack []*Element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing document: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name.Local}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("multiple document elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unbalanced end element %q", t.Name.Local)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("empty document")
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("unterminated element %q", stack[len(stack)-1].Name)
	}
	return root, nil
}

// Find returns the first element in the tree (including el itself) whose
// local name matches, in depth-first document order.
func (el *Element) Find(localName string) *Element {
	if el == nil {
		return nil
	}
	if el.Name == localName {
		return el
	}
	for _, child := range el.Children {
		if found := child.Find(localName); found != nil {
			return found
		}
	}
	return nil
}

// FindText returns the text of the first element with the given local name,
// or "" when absent.
func (el *Element) FindText(localName string) string {
	if found := el.Find(localName); found != nil {
		return found.Text
	}
	return ""
}

// Child returns the first immediate child with the given local name.
func (el *Element) Child(localName string) *Element {
	if el == nil {
		return nil
	}
	for _, child := range el.Children {
		if child.Name == localName {
			return child
		}
	}
	return nil
}
