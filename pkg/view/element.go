package view

import (
	"fmt"
	"io"
)

// voidElements are elements that cannot have children or a closing tag.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// Markup is raw inner markup for an Element. It is written as-is.
type Markup string

// Text returns escaped markup for s.
func Text(s string) Markup { return Markup(EscapeText(s)) }

// Textf returns escaped markup for a formatted string.
func Textf(format string, args ...any) Markup { return Text(fmt.Sprintf(format, args...)) }

// Raw returns s as markup without escaping.
// Use with caution - can lead to XSS if content is user-provided.
func Raw(s string) Markup { return Markup(s) }

// Element is a general-purpose View backed by plain fields.
//
// Its fingerprint covers the tag, attributes and inner markup. Children are
// excluded, so mutating a child only requires marking that child.
type Element struct {
	Ident      string
	Name       string
	Attributes Attributes
	Inner      Markup
	Kids       []View
}

var _ View = (*Element)(nil)

// ID implements View.
func (e *Element) ID() string { return e.Ident }

// Tag implements View.
func (e *Element) Tag() string {
	if e.Name == "" {
		return DefaultTag
	}
	return e.Name
}

// Attrs implements View.
func (e *Element) Attrs() Attributes { return e.Attributes }

// RenderInner implements View.
func (e *Element) RenderInner(w io.StringWriter) {
	if e.Inner != "" {
		w.WriteString(string(e.Inner))
	}
}

// Children implements View.
func (e *Element) Children() []View { return e.Kids }

// State implements View.
func (e *Element) State() uint64 {
	return Hash(e.Tag(), e.Attributes, string(e.Inner))
}

// SetText replaces the inner markup with escaped text.
func (e *Element) SetText(s string) { e.Inner = Text(s) }

// SetAttr sets or replaces a single attribute.
func (e *Element) SetAttr(a Attr) {
	if a.IsEmpty() {
		return
	}
	if e.Attributes == nil {
		e.Attributes = make(Attributes)
	}
	e.Attributes[a.Key] = a.Value
}

// RemoveAttr deletes an attribute.
func (e *Element) RemoveAttr(key string) {
	delete(e.Attributes, key)
}

// Append adds children at the end.
func (e *Element) Append(children ...View) {
	e.Kids = append(e.Kids, children...)
}

// Truncate keeps the first n children.
func (e *Element) Truncate(n int) {
	if n < len(e.Kids) {
		e.Kids = e.Kids[:n]
	}
}

// El creates an Element with the given tag and id.
// Arguments can be: nil, Attr, []Attr, Attributes, Markup, string (escaped
// text), View, []View. Anything else is ignored.
func El(tag, id string, args ...any) *Element {
	e := &Element{Ident: id, Name: tag}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional arguments)
			continue

		case Attr:
			e.SetAttr(v)

		case []Attr:
			for _, a := range v {
				e.SetAttr(a)
			}

		case Attributes:
			for _, k := range v.Keys() {
				e.SetAttr(Attr{Key: k, Value: v[k]})
			}

		case Markup:
			e.Inner += v

		case string:
			e.Inner += Text(v)

		case View:
			if v != nil {
				e.Kids = append(e.Kids, v)
			}

		case []View:
			for _, c := range v {
				if c != nil {
					e.Kids = append(e.Kids, c)
				}
			}
		}
	}

	return e
}

// Div creates a <div> element.
func Div(id string, args ...any) *Element { return El("div", id, args...) }

// Span creates a <span> element.
func Span(id string, args ...any) *Element { return El("span", id, args...) }

// P creates a <p> element.
func P(id string, args ...any) *Element { return El("p", id, args...) }

// H1 creates an <h1> element.
func H1(id string, args ...any) *Element { return El("h1", id, args...) }

// Section creates a <section> element.
func Section(id string, args ...any) *Element { return El("section", id, args...) }

// Ul creates a <ul> element.
func Ul(id string, args ...any) *Element { return El("ul", id, args...) }

// Li creates an <li> element.
func Li(id string, args ...any) *Element { return El("li", id, args...) }

// Button creates a <button> element.
func Button(id string, args ...any) *Element { return El("button", id, args...) }

// Input creates an <input> element.
func Input(id string, args ...any) *Element { return El("input", id, args...) }
