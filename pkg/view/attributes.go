package view

import (
	"sort"
	"strings"
)

// Value is an optional attribute value. A key whose Value is not Set is
// present without a value (<input disabled>), which is distinct from the
// key being absent.
type Value struct {
	Str string
	Set bool
}

// Valued returns a Value carrying s.
func Valued(s string) Value { return Value{Str: s, Set: true} }

// Bare returns a Value for a valueless attribute.
func Bare() Value { return Value{} }

// Attributes maps attribute names to optional values.
// Iteration for output always goes through Keys, which is sorted.
type Attributes map[string]Value

// Attr is a single attribute entry used by the builders.
type Attr struct {
	Key   string
	Value Value
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// NewAttributes collects attrs into an Attributes map. Later entries win.
func NewAttributes(attrs ...Attr) Attributes {
	m := make(Attributes, len(attrs))
	for _, a := range attrs {
		if a.IsEmpty() {
			continue
		}
		m[a.Key] = a.Value
	}
	return m
}

// Keys returns the attribute names in ascending order.
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value stored for key.
func (a Attributes) Get(key string) (Value, bool) {
	v, ok := a[key]
	return v, ok
}

// Equal reports whether a and b hold the same key set with the same
// optional value per key. A nil map equals an empty one.
func (a Attributes) Equal(b Attributes) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || av != bv {
			return false
		}
	}
	return true
}

// Clone returns a copy of a. Cloning nil yields nil.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	c := make(Attributes, len(a))
	for k, v := range a {
		c[k] = v
	}
	return c
}

// With returns a copy of a with attrs applied.
func (a Attributes) With(attrs ...Attr) Attributes {
	c := make(Attributes, len(a)+len(attrs))
	for k, v := range a {
		c[k] = v
	}
	for _, at := range attrs {
		if !at.IsEmpty() {
			c[at.Key] = at.Value
		}
	}
	return c
}

// Without returns a copy of a with keys removed.
func (a Attributes) Without(keys ...string) Attributes {
	c := a.Clone()
	for _, k := range keys {
		delete(c, k)
	}
	return c
}

// Set creates an attribute with a value.
func Set(key, value string) Attr { return Attr{Key: key, Value: Valued(value)} }

// Flag creates a valueless attribute.
func Flag(key string) Attr { return Attr{Key: key, Value: Bare()} }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return Set("class", strings.Join(classes, " ")) }

// StyleAttr sets the style attribute.
func StyleAttr(style string) Attr { return Set("style", style) }

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Attr { return Set("data-"+key, value) }

// Role sets the role attribute.
func Role(role string) Attr { return Set("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return Set("aria-label", label) }

// TitleAttr sets the title attribute.
func TitleAttr(title string) Attr { return Set("title", title) }

// Href sets the href attribute.
func Href(url string) Attr { return Set("href", url) }

// Type sets the type attribute.
func Type(t string) Attr { return Set("type", t) }

// Name sets the name attribute.
func Name(name string) Attr { return Set("name", name) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return Set("placeholder", text) }

// ValueAttr sets the value attribute.
func ValueAttr(value string) Attr { return Set("value", value) }

// Hidden sets the valueless hidden attribute.
func Hidden() Attr { return Flag("hidden") }

// Disabled sets the valueless disabled attribute.
func Disabled() Attr { return Flag("disabled") }

// Checked sets the valueless checked attribute.
func Checked() Attr { return Flag("checked") }

// If returns a when cond holds and an empty Attr otherwise.
func If(cond bool, a Attr) Attr {
	if cond {
		return a
	}
	return Attr{}
}
