// Package view defines the contract application views satisfy so the
// reconciler can render and diff them.
//
// A View describes one UI element: its stable id, tag, attributes, and either
// raw inner markup (leaf views) or an ordered list of child views (container
// views). State returns a fingerprint of the view's own content only; it must
// not reflect descendants, because containers always re-check their children
// structurally.
//
// # Defaults
//
// Embed Base to pick up the default behaviour (tag "div", no attributes, no
// inner markup, no children, constant state) and override what differs:
//
//	type Counter struct {
//	    view.Base
//	    N int
//	}
//
//	func (c *Counter) RenderInner(w io.StringWriter) { w.WriteString(strconv.Itoa(c.N)) }
//	func (c *Counter) State() uint64                 { return view.Hash(c.N) }
//
// # Elements
//
// Element is a ready-made view for trees that do not need custom types:
//
//	list := view.Ul("todos", view.Class("list"),
//	    view.Li("todo-1", view.Text("milk")),
//	    view.Li("todo-2", view.Text("eggs")),
//	)
//
// Inner markup is written unescaped; use Text or EscapeText for untrusted
// content. Attribute values are plain strings and are escaped when the
// tree is serialized.
package view
