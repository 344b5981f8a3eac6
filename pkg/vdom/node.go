package vdom

import (
	"strings"

	"github.com/vango-dev/mirror/internal/errors"
	"github.com/vango-dev/mirror/pkg/view"
)

// DefaultBufferSize is the initial markup buffer capacity.
const DefaultBufferSize = 1 << 10

// Node is the cached mirror of one view's last-rendered state.
// A Node is owned by its parent, or by the reconciler for the root.
type Node struct {
	ID       string
	Tag      string
	State    uint64
	Attrs    view.Attributes
	Value    string // Reserved for input element value state
	Children []*Node
}

// Build writes the markup for v and its descendants to w and returns the
// resulting Node tree.
func Build(v view.View, w *strings.Builder) *Node {
	if v == nil {
		errors.Raise(errors.CodeNilView, "vdom.Build", "root view is nil")
	}
	id := v.ID()
	if id == "" {
		errors.Raise(errors.CodeEmptyID, "vdom.Build", "view of type %T", v)
	}
	tag := v.Tag()
	attrs := v.Attrs()

	writeOpenTag(w, tag, id, attrs)
	v.RenderInner(w)

	kids := v.Children()
	checkSiblings("vdom.Build", id, kids)
	var children []*Node
	if len(kids) > 0 {
		children = make([]*Node, 0, len(kids))
		for _, k := range kids {
			children = append(children, Build(k, w))
		}
	}

	if !view.IsVoidElement(tag) {
		w.WriteString("</")
		w.WriteString(tag)
		w.WriteByte('>')
	}

	return &Node{
		ID:       id,
		Tag:      tag,
		State:    v.State(),
		Attrs:    attrs.Clone(),
		Children: children,
	}
}

// Render is Build into a fresh buffer, returning the markup alongside.
func Render(v view.View) (*Node, string) {
	var w strings.Builder
	w.Grow(DefaultBufferSize)
	n := Build(v, &w)
	return n, w.String()
}

// writeOpenTag writes <tag id="id" k="v" flag> with attributes in key order.
// The "id" attribute is reserved for the view id. Attribute values are
// escaped; inner markup is not.
func writeOpenTag(w *strings.Builder, tag, id string, attrs view.Attributes) {
	w.WriteByte('<')
	w.WriteString(tag)
	w.WriteString(` id="`)
	w.WriteString(view.EscapeAttr(id))
	w.WriteByte('"')
	for _, k := range attrs.Keys() {
		if k == "id" {
			continue
		}
		w.WriteByte(' ')
		w.WriteString(k)
		if v := attrs[k]; v.Set {
			w.WriteString(`="`)
			w.WriteString(view.EscapeAttr(v.Str))
			w.WriteByte('"')
		}
	}
	w.WriteByte('>')
}

// checkSiblings panics if kids contains a nil view or repeats an id.
func checkSiblings(op, parentID string, kids []view.View) {
	switch len(kids) {
	case 0:
		return
	case 1:
		if kids[0] == nil {
			errors.Raise(errors.CodeNilView, op, "child 0 of %q", parentID)
		}
		return
	}

	seen := make(map[string]int, len(kids))
	for i, k := range kids {
		if k == nil {
			errors.Raise(errors.CodeNilView, op, "child %d of %q", i, parentID)
		}
		id := k.ID()
		if j, dup := seen[id]; dup {
			errors.Raise(errors.CodeDuplicateID, op, "id %q at positions %d and %d under %q", id, j, i, parentID)
		}
		seen[id] = i
	}
}

// Find returns the node with the given id in the subtree rooted at n.
func (n *Node) Find(id string) *Node {
	if n == nil {
		return nil
	}
	if n.ID == id {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// Walk calls fn for n and its descendants in pre-order. Returning false
// from fn skips that node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// IDs returns the ids of n's children in order.
func (n *Node) IDs() []string {
	ids := make([]string, len(n.Children))
	for i, c := range n.Children {
		ids[i] = c.ID
	}
	return ids
}
