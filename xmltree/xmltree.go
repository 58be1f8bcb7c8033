// Package xmltree loads XML report files into a generic element tree that
// the format-specific extractors walk.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Node is a single XML element: its name, attribute bag, direct character
// data and ordered child elements.
type Node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Content string     `xml:",chardata"`
	Nodes   []Node     `xml:",any"`
}

// ParseError reports content that is not well-formed XML.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "failed to parse XML: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load reads the file at path and parses it into a tree.
func Load(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// Parse parses data into a tree rooted at the document element. The whole
// input must be a single well-formed document: text or elements outside the
// root are rejected.
func Parse(data []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	start, err := rootElement(dec)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	var root Node
	if err := dec.DecodeElement(&root, start); err != nil {
		return nil, &ParseError{Err: err}
	}
	if err := checkTrailing(dec); err != nil {
		return nil, &ParseError{Err: err}
	}
	return &root, nil
}

// rootElement advances dec to the document element. Only the prolog
// (declaration, comments, doctype, whitespace) may precede it.
func rootElement(dec *xml.Decoder) (*xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, errors.New("no root element")
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return &t, nil
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return nil, errors.New("text before root element")
			}
		}
	}
}

func checkTrailing(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return fmt.Errorf("unexpected element <%s> after root element", t.Name.Local)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return errors.New("text after root element")
			}
		}
	}
}

// Name returns the local element name.
func (n *Node) Name() string {
	if n == nil {
		return ""
	}
	return n.XMLName.Local
}

// Attr returns the value of the named attribute and whether it was present.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrOr returns the named attribute, or def when it is absent or empty.
func (n *Node) AttrOr(name, def string) string {
	if v, ok := n.Attr(name); ok && v != "" {
		return v
	}
	return def
}

// HasAttrs reports whether the element carries any attribute.
func (n *Node) HasAttrs() bool {
	return n != nil && len(n.Attrs) > 0
}

// Child returns the first direct child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for i := range n.Nodes {
		if n.Nodes[i].XMLName.Local == name {
			return &n.Nodes[i]
		}
	}
	return nil
}

// Children returns every direct child with the given name in document order.
func (n *Node) Children(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for i := range n.Nodes {
		if n.Nodes[i].XMLName.Local == name {
			out = append(out, &n.Nodes[i])
		}
	}
	return out
}

// Elements returns every direct child element in document order.
func (n *Node) Elements() []*Node {
	if n == nil {
		return nil
	}
	out := make([]*Node, 0, len(n.Nodes))
	for i := range n.Nodes {
		out = append(out, &n.Nodes[i])
	}
	return out
}

// Text returns the element's own character data with surrounding
// whitespace removed. CDATA sections are included.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.Content)
}
