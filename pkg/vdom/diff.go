package vdom

import (
	"sort"
	"strings"

	"github.com/vango-dev/mirror/internal/errors"
	"github.com/vango-dev/mirror/pkg/protocol"
	"github.com/vango-dev/mirror/pkg/view"
)

// Differ compares live views with cached Nodes and emits commands to Sink.
// A Differ is not safe for concurrent use.
type Differ struct {
	// Sink receives every emitted command.
	Sink protocol.Sink

	// AttrPatches emits SetAttr/RemoveAttr commands when attributes change.
	// When false, attribute changes only update the cached snapshot.
	AttrPatches bool

	// BufferSize is the initial capacity of markup buffers.
	BufferSize int

	stats Stats
	dirty map[string]struct{}
}

// NewDiffer creates a Differ with attribute patches enabled.
func NewDiffer(sink protocol.Sink) *Differ {
	if sink == nil {
		sink = protocol.Discard
	}
	return &Differ{
		Sink:        sink,
		AttrPatches: true,
		BufferSize:  DefaultBufferSize,
	}
}

// Stats returns the counters accumulated since the last ResetStats.
func (d *Differ) Stats() Stats {
	return d.stats
}

// ResetStats zeroes the counters.
func (d *Differ) ResetStats() {
	d.stats = Stats{}
}

// Reconcile walks the tree rooted at n alongside v. Every node whose id is
// in dirty is diffed and removed from dirty; unmarked nodes are only
// descended into, pairing children by position. Ids of nodes reached while
// diffing a marked subtree are consumed too, so no node is diffed twice in
// one pass. Ids left in dirty afterwards refer to nodes that were not found.
func (d *Differ) Reconcile(n *Node, v view.View, dirty map[string]struct{}) {
	d.dirty = dirty
	defer func() { d.dirty = nil }()
	d.reconcile(n, v)
}

func (d *Differ) reconcile(n *Node, v view.View) {
	if len(d.dirty) == 0 {
		return
	}
	d.stats.Visited++
	if v == nil {
		errors.Raise(errors.CodeNilView, "vdom.Reconcile", "view paired with node %q", n.ID)
	}

	if _, marked := d.dirty[n.ID]; marked {
		d.stats.Marked++
		d.Diff(n, v)
		return
	}

	kids := v.Children()
	for i := 0; i < len(n.Children) && i < len(kids); i++ {
		d.reconcile(n.Children[i], kids[i])
	}
}

// Diff brings n in line with v, emitting the commands needed to update the
// rendered element.
func (d *Differ) Diff(n *Node, v view.View) {
	if v == nil {
		errors.Raise(errors.CodeNilView, "vdom.Diff", "view paired with node %q", n.ID)
	}
	delete(d.dirty, n.ID)
	d.stats.Diffed++

	// Identity: rebuild the whole subtree
	if id := v.ID(); id != n.ID || v.Tag() != n.Tag {
		oldID := n.ID
		w := d.buffer()
		*n = *Build(v, w)
		d.consume(n)
		d.stats.Rebuilt++
		d.emit(protocol.ReplaceElement(oldID, w.String()))
		return
	}

	// Own content
	changed := false
	if state := v.State(); state != n.State {
		n.State = state
		changed = true
		d.diffAttrs(n, v.Attrs())
	}

	// Structure
	kids := v.Children()
	if len(n.Children) == 0 && len(kids) == 0 {
		if changed {
			w := d.buffer()
			v.RenderInner(w)
			d.emit(protocol.ReplaceContent(n.ID, w.String()))
		}
		return
	}
	d.diffChildren(n, kids)
}

// diffAttrs updates n's attribute snapshot, emitting one command per changed
// key in key order when AttrPatches is set.
func (d *Differ) diffAttrs(n *Node, attrs view.Attributes) {
	if n.Attrs.Equal(attrs) {
		return
	}

	if d.AttrPatches {
		for _, k := range unionKeys(n.Attrs, attrs) {
			if k == "id" {
				continue
			}
			prev, had := n.Attrs[k]
			next, has := attrs[k]
			switch {
			case !has:
				d.emit(protocol.RemoveAttr(n.ID, k))
			case had && prev == next:
			case next.Set:
				d.emit(protocol.SetAttr(n.ID, k, next.Str))
			default:
				d.emit(protocol.SetFlag(n.ID, k))
			}
		}
	}

	n.Attrs = attrs.Clone()
}

// diffChildren reconciles n.Children with target by position.
func (d *Differ) diffChildren(n *Node, target []view.View) {
	checkSiblings("vdom.Diff", n.ID, target)
	delta := len(target) - len(n.Children)

	// Remove nodes from the end
	if delta < 0 {
		d.emit(protocol.RemoveTrailingChildren(n.ID, -delta))
		for i := len(target); i < len(n.Children); i++ {
			n.Children[i] = nil
		}
		n.Children = n.Children[:len(target)]
	}

	common := len(n.Children)
	for i := 0; i < common; i++ {
		d.Diff(n.Children[i], target[i])
	}

	// Append nodes
	if delta > 0 {
		for _, v := range target[common:] {
			w := d.buffer()
			child := Build(v, w)
			d.consume(child)
			n.Children = append(n.Children, child)
			d.emit(protocol.AppendChild(n.ID, w.String()))
		}
	}
}

// consume clears the ids of a freshly built subtree from the dirty set;
// the subtree already reflects the live views.
func (d *Differ) consume(n *Node) {
	if len(d.dirty) == 0 {
		return
	}
	n.Walk(func(c *Node) bool {
		delete(d.dirty, c.ID)
		return true
	})
}

func (d *Differ) emit(cmd protocol.Command) {
	d.stats.Commands[cmd.Op]++
	d.Sink.Emit(cmd)
}

func (d *Differ) buffer() *strings.Builder {
	w := new(strings.Builder)
	if d.BufferSize > 0 {
		w.Grow(d.BufferSize)
	}
	return w
}

// unionKeys returns the keys of a and b in ascending order.
func unionKeys(a, b view.Attributes) []string {
	keys := make([]string, 0, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
