// Package svg is a retained SVG backend. It keeps an in-memory node tree
// that can be repainted from scratch like any immediate renderer, or kept in
// sync with the scene through per-entity Add, Modify and Remove calls.
package svg

import (
	"bytes"
	"encoding/xml"
	"io"
	"sort"
)

// Node is one element of the retained tree.
type Node struct {
	Tag      string
	Attrs    map[string]string
	Children []*Node
	// Text is the character data of text elements.
	Text string
}

func newNode(tag string) *Node {
	return &Node{Tag: tag, Attrs: map[string]string{}}
}

// ID returns the id attribute.
func (n *Node) ID() string { return n.Attrs["id"] }

// Find returns the first node in the subtree whose id is id.
func (n *Node) Find(id string) *Node {
	if n.Attrs["id"] == id {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every node in the subtree with the given tag.
func (n *Node) FindAll(tag string) []*Node {
	var out []*Node
	if n.Tag == tag {
		out = append(out, n)
	}
	for _, c := range n.Children {
		out = append(out, c.FindAll(tag)...)
	}
	return out
}

// Clone returns a deep copy of the subtree.
func (n *Node) Clone() *Node {
	c := &Node{Tag: n.Tag, Attrs: make(map[string]string, len(n.Attrs)), Text: n.Text}
	for k, v := range n.Attrs {
		c.Attrs[k] = v
	}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

func (n *Node) sortedAttrs() []xml.Attr {
	names := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	attrs := make([]xml.Attr, len(names))
	for i, k := range names {
		attrs[i] = xml.Attr{Name: xml.Name{Local: k}, Value: n.Attrs[k]}
	}
	return attrs
}

func (n *Node) encode(enc *xml.Encoder) error {
	start := xml.StartElement{Name: xml.Name{Local: n.Tag}, Attr: n.sortedAttrs()}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if n.Text != "" {
		if err := enc.EncodeToken(xml.CharData(n.Text)); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := c.encode(enc); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// WriteTo serialises the subtree. Attributes are written sorted by name so
// equal trees always produce identical markup.
func (n *Node) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	enc := xml.NewEncoder(cw)
	if err := n.encode(enc); err != nil {
		return cw.n, err
	}
	err := enc.Flush()
	return cw.n, err
}

func (n *Node) String() string {
	var buf bytes.Buffer
	_, _ = n.WriteTo(&buf)
	return buf.String()
}
