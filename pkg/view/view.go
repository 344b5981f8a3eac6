package view

import "io"

// DefaultTag is the tag used by views that do not override Tag.
const DefaultTag = "div"

// View is the capability set the reconciler needs from an application view.
type View interface {
	// ID returns a stable id, unique among siblings.
	ID() string

	// Tag returns the element type name.
	Tag() string

	// Attrs returns the attributes of the view's root element.
	// The "id" key is reserved and ignored.
	Attrs() Attributes

	// RenderInner appends raw inner markup. Leaf views only.
	RenderInner(w io.StringWriter)

	// Children returns the ordered child views. Container views only.
	Children() []View

	// State returns a fingerprint of the view's own content, excluding
	// descendants. Equal fingerprints mean no local re-render is needed.
	State() uint64
}

// Base supplies default implementations of every View method except
// identity, which is read from Ident.
type Base struct {
	Ident string
}

// ID implements View.
func (b Base) ID() string { return b.Ident }

// Tag implements View.
func (Base) Tag() string { return DefaultTag }

// Attrs implements View.
func (Base) Attrs() Attributes { return nil }

// RenderInner implements View.
func (Base) RenderInner(io.StringWriter) {}

// Children implements View.
func (Base) Children() []View { return nil }

// State implements View. Static views keep the constant zero fingerprint.
func (Base) State() uint64 { return 0 }
