package vdom

import (
	"io"
	"testing"

	"github.com/vango-dev/mirror/internal/errors"
	"github.com/vango-dev/mirror/pkg/protocol"
	"github.com/vango-dev/mirror/pkg/view"
)

// testView lets tests control the fingerprint independently of content.
type testView struct {
	id    string
	tag   string
	attrs view.Attributes
	inner string
	kids  []view.View
	state uint64
}

func (v *testView) ID() string { return v.id }
func (v *testView) Tag() string {
	if v.tag == "" {
		return view.DefaultTag
	}
	return v.tag
}
func (v *testView) Attrs() view.Attributes         { return v.attrs }
func (v *testView) RenderInner(w io.StringWriter) { w.WriteString(v.inner) }
func (v *testView) Children() []view.View         { return v.kids }
func (v *testView) State() uint64                 { return v.state }

// recorder collects emitted commands.
type recorder struct {
	cmds []protocol.Command
}

func (r *recorder) Emit(c protocol.Command) { r.cmds = append(r.cmds, c) }

func (r *recorder) reset() { r.cmds = nil }

func build(t *testing.T, v view.View) *Node {
	t.Helper()
	n, _ := Render(v)
	return n
}

func expectCommands(t *testing.T, got []protocol.Command, want ...protocol.Command) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d commands %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("command %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func expectPanicCode(t *testing.T, code string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic with %s", code)
		}
		err, ok := r.(*errors.Error)
		if !ok {
			t.Fatalf("recovered %T (%v), want *errors.Error", r, r)
		}
		if err.Code != code {
			t.Fatalf("panic code = %s, want %s (%v)", err.Code, code, err)
		}
	}()
	fn()
}

func leaf(id, text string) *view.Element {
	return view.Li(id, text)
}

func list(id string, kids ...view.View) *view.Element {
	return view.Ul(id, view.Class("list"), kids)
}
