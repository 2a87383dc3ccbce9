package extract

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/polygon-cli/internal/fetcher"
	"github.com/sells-group/polygon-cli/internal/polygon"
)

// Element is a node of a parsed XML document. Names are local names, so
// namespaced documents match the same tags as plain ones.
type Element struct {
	Name  string
	nodes []xmlNode
}

// xmlNode is either a child element or a run of character data.
type xmlNode struct {
	elem *Element
	text string
}

// Children returns the direct child elements in document order.
func (e *Element) Children() []*Element {
	var out []*Element
	for _, n := range e.nodes {
		if n.elem != nil {
			out = append(out, n.elem)
		}
	}
	return out
}

// Descendants returns every element below e named tag, in document order.
func (e *Element) Descendants(tag string) []*Element {
	var out []*Element
	e.walk(func(el *Element) bool {
		if el.Name == tag {
			out = append(out, el)
		}
		return true
	})
	return out
}

// FirstDescendant returns the first element below e named tag, or nil.
func (e *Element) FirstDescendant(tag string) *Element {
	var found *Element
	e.walk(func(el *Element) bool {
		if el.Name == tag {
			found = el
			return false
		}
		return true
	})
	return found
}

// Text returns the concatenated character data of e and its descendants.
func (e *Element) Text() string {
	var sb strings.Builder
	e.writeText(&sb)
	return sb.String()
}

func (e *Element) writeText(sb *strings.Builder) {
	for _, n := range e.nodes {
		if n.elem != nil {
			n.elem.writeText(sb)
			continue
		}
		sb.WriteString(n.text)
	}
}

// walk visits descendants of e in pre-order until fn returns false.
func (e *Element) walk(fn func(*Element) bool) bool {
	for _, n := range e.nodes {
		if n.elem == nil {
			continue
		}
		if !fn(n.elem) || !n.elem.walk(fn) {
			return false
		}
	}
	return true
}

// ParseElementTree reads an XML document into an element tree. The returned
// element is a synthetic document node whose only child is the root element.
// Input with no root element or with a syntax error fails with
// polygon.ErrFormat.
func ParseElementTree(r io.Reader) (*Element, error) {
	decoder := fetcher.NewXMLDecoder(r)

	doc := &Element{}
	stack := []*Element{doc}
	sawRoot := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(polygon.ErrFormat, "xml: %v", err)
		}

		top := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name.Local}
			top.nodes = append(top.nodes, xmlNode{elem: el})
			stack = append(stack, el)
			sawRoot = true
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 1 {
				top.nodes = append(top.nodes, xmlNode{text: string(t)})
			}
		}
	}

	if !sawRoot {
		return nil, eris.Wrap(polygon.ErrFormat, "xml: no root element")
	}
	return doc, nil
}
