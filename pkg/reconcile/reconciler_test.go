package reconcile

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/mirror/internal/errors"
	"github.com/vango-dev/mirror/pkg/protocol"
	"github.com/vango-dev/mirror/pkg/view"
)

type recorder struct {
	cmds []protocol.Command
}

func (r *recorder) Emit(c protocol.Command) { r.cmds = append(r.cmds, c) }

func (r *recorder) reset() { r.cmds = nil }

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
		if got := errors.Code(r.(error)); got != code {
			t.Fatalf("panic code = %q, want %s (%v)", got, code, r)
		}
	}()
	fn()
}

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// todoList returns ul#list holding one li per id, with the id upper-cased
// as text.
func todoList(ids ...string) *view.Element {
	var kids []view.View
	for _, id := range ids {
		kids = append(kids, view.Li(id, strings.ToUpper(id)))
	}
	return view.Ul("list", view.Class("todos"), kids)
}

func TestNewEmitsSingleAppend(t *testing.T) {
	rec := &recorder{}
	root := todoList("a", "b")
	r := New("app", root, rec, quiet())

	expectCommands(t, rec.cmds, protocol.AppendChild("app",
		`<ul id="list" class="todos"><li id="a">A</li><li id="b">B</li></ul>`))
	if r.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", r.Pending())
	}
	if r.Root().ID != "list" || len(r.Root().Children) != 2 {
		t.Errorf("Root() = %+v", r.Root())
	}
	if r.ParentID() != "app" {
		t.Errorf("ParentID() = %q", r.ParentID())
	}
}

func TestNewRejectsEmptyParent(t *testing.T) {
	expectPanicCode(t, errors.CodeInvalidCommand, func() {
		New("", todoList("a"), nil, quiet())
	})
}

func TestNewRejectsNilRoot(t *testing.T) {
	expectPanicCode(t, errors.CodeNilView, func() {
		New("app", nil, nil, quiet())
	})
}

func TestMarkIsIdempotent(t *testing.T) {
	r := New("app", todoList("a"), nil, quiet())
	r.Mark("a")
	r.Mark("a")
	r.Mark("list")
	if r.Pending() != 2 {
		t.Errorf("Pending() = %d, want 2", r.Pending())
	}
}

func TestDiffWithoutMarks(t *testing.T) {
	rec := &recorder{}
	root := todoList("a", "b")
	r := New("app", root, rec, quiet())
	rec.reset()

	root.Kids[0].(*view.Element).SetText("changed")
	res := r.Diff(context.Background(), root)

	expectCommands(t, rec.cmds)
	if res.Diffed != 0 || res.TotalCommands() != 0 {
		t.Errorf("result = %+v, want empty", res)
	}
}

func TestDiffNoOpIdempotence(t *testing.T) {
	rec := &recorder{}
	root := todoList("a", "b", "c")
	r := New("app", root, rec, quiet())
	rec.reset()

	for _, id := range []string{"list", "a", "b", "c"} {
		r.Mark(id)
	}
	res := r.Diff(context.Background(), root)

	expectCommands(t, rec.cmds)
	if res.Marked != 1 {
		t.Errorf("Marked = %d, want 1 (descendants consumed by list)", res.Marked)
	}
	if res.Dropped != 0 {
		t.Errorf("Dropped = %d, want 0", res.Dropped)
	}
	if r.Pending() != 0 {
		t.Errorf("Pending() = %d after pass", r.Pending())
	}
}

func TestDiffFullReplace(t *testing.T) {
	rec := &recorder{}
	root := view.Div("root", view.Span("x", "X"))
	r := New("app", root, rec, quiet())
	rec.reset()

	root.Kids[0] = view.Span("y", "Y")
	r.Mark("x")
	res := r.Diff(context.Background(), root)

	expectCommands(t, rec.cmds, protocol.ReplaceElement("x", `<span id="y">Y</span>`))
	if res.Rebuilt != 1 {
		t.Errorf("Rebuilt = %d, want 1", res.Rebuilt)
	}
	if got := r.Root().Children[0].ID; got != "y" {
		t.Errorf("cached child id = %q, want y", got)
	}

	// The old id is gone; marking it again is dropped.
	rec.reset()
	r.Mark("x")
	res = r.Diff(context.Background(), root)
	expectCommands(t, rec.cmds)
	if res.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1", res.Dropped)
	}
}

func TestDiffLeafUpdate(t *testing.T) {
	rec := &recorder{}
	root := todoList("a", "b")
	r := New("app", root, rec, quiet())
	rec.reset()

	root.Kids[1].(*view.Element).SetText("done <b>")
	r.Mark("b")
	r.Diff(context.Background(), root)

	expectCommands(t, rec.cmds, protocol.ReplaceContent("b", "done &lt;b&gt;"))
}

func TestDiffShrink(t *testing.T) {
	rec := &recorder{}
	root := todoList("a", "b", "c", "d")
	r := New("app", root, rec, quiet())
	rec.reset()

	root.Truncate(2)
	r.Mark("list")
	r.Diff(context.Background(), root)

	expectCommands(t, rec.cmds, protocol.RemoveTrailingChildren("list", 2))
	if got := r.Root().IDs(); strings.Join(got, ",") != "a,b" {
		t.Errorf("cached ids = %v", got)
	}
}

func TestDiffGrow(t *testing.T) {
	rec := &recorder{}
	root := todoList("a", "b")
	r := New("app", root, rec, quiet())
	rec.reset()

	root.Append(view.Li("c", "C"), view.Li("d", "D"))
	r.Mark("list")
	r.Diff(context.Background(), root)

	expectCommands(t, rec.cmds,
		protocol.AppendChild("list", `<li id="c">C</li>`),
		protocol.AppendChild("list", `<li id="d">D</li>`),
	)
}

func TestDiffAttributeFlagVersusAbsent(t *testing.T) {
	rec := &recorder{}
	btn := view.Button("save", view.Span("label", "Save"))
	root := view.Div("form", btn)
	r := New("app", root, rec, quiet())
	rec.reset()

	btn.SetAttr(view.Disabled())
	r.Mark("save")
	r.Diff(context.Background(), root)
	expectCommands(t, rec.cmds, protocol.SetFlag("save", "disabled"))

	rec.reset()
	btn.SetAttr(view.Set("disabled", ""))
	r.Mark("save")
	r.Diff(context.Background(), root)
	expectCommands(t, rec.cmds, protocol.SetAttr("save", "disabled", ""))

	rec.reset()
	btn.RemoveAttr("disabled")
	r.Mark("save")
	r.Diff(context.Background(), root)
	expectCommands(t, rec.cmds, protocol.RemoveAttr("save", "disabled"))

	if _, ok := r.Root().Children[0].Attrs.Get("disabled"); ok {
		t.Error("snapshot still holds disabled")
	}
}

func TestDiffWithoutAttributePatches(t *testing.T) {
	rec := &recorder{}
	btn := view.Button("save", view.Span("label", "Save"))
	r := New("app", btn, rec, quiet(), WithAttributePatches(false))
	rec.reset()

	btn.SetAttr(view.Disabled())
	r.Mark("save")
	r.Diff(context.Background(), btn)

	expectCommands(t, rec.cmds)
	if _, ok := r.Root().Attrs.Get("disabled"); !ok {
		t.Error("snapshot not updated")
	}
}

func TestDiffBatching(t *testing.T) {
	tests := []struct {
		name  string
		marks []string
	}{
		{"in order", []string{"a", "c"}},
		{"reversed", []string{"c", "a"}},
		{"duplicates", []string{"c", "a", "c", "a", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			root := todoList("a", "b", "c")
			r := New("app", root, rec, quiet())
			rec.reset()

			root.Kids[0].(*view.Element).SetText("a2")
			root.Kids[2].(*view.Element).SetText("c2")
			for _, id := range tt.marks {
				r.Mark(id)
			}
			res := r.Diff(context.Background(), root)

			expectCommands(t, rec.cmds,
				protocol.ReplaceContent("a", "a2"),
				protocol.ReplaceContent("c", "c2"),
			)
			if res.Marked != 2 || res.Diffed != 2 {
				t.Errorf("Marked = %d, Diffed = %d, want 2, 2", res.Marked, res.Diffed)
			}
		})
	}
}

func TestDiffNeverDiffsAncestorsOfMarked(t *testing.T) {
	rec := &recorder{}
	root := todoList("a", "b")
	r := New("app", root, rec, quiet())
	rec.reset()

	// The list changed too, but only b is marked.
	root.SetAttr(view.Class("other"))
	root.Kids[1].(*view.Element).SetText("b2")
	r.Mark("b")
	r.Diff(context.Background(), root)

	expectCommands(t, rec.cmds, protocol.ReplaceContent("b", "b2"))
}

func TestDiffDropsRemovedInSameBatch(t *testing.T) {
	rec := &recorder{}
	root := todoList("a", "b", "c")
	r := New("app", root, rec, quiet())
	rec.reset()

	root.Kids[2].(*view.Element).SetText("c2")
	root.Truncate(1)
	r.Mark("c")
	r.Mark("list")
	res := r.Diff(context.Background(), root)

	expectCommands(t, rec.cmds, protocol.RemoveTrailingChildren("list", 2))
	if res.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1", res.Dropped)
	}
	if r.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", r.Pending())
	}
}

func TestDiffNilRootPanics(t *testing.T) {
	r := New("app", todoList("a"), nil, quiet())
	expectPanicCode(t, errors.CodeNilView, func() {
		r.Diff(context.Background(), nil)
	})
}

// reentrant calls back into its reconciler while being diffed.
type reentrant struct {
	view.Base
	r *Reconciler
}

func (v *reentrant) State() uint64 {
	if v.r != nil {
		v.r.Diff(context.Background(), v)
	}
	return 1
}

func TestDiffOverlappingPassPanics(t *testing.T) {
	v := &reentrant{Base: view.Base{Ident: "x"}}
	r := New("app", v, nil, quiet())
	v.r = r

	r.Mark("x")
	expectPanicCode(t, errors.CodeOverlappingRun, func() {
		r.Diff(context.Background(), v)
	})

	// The guard is released after the aborted pass.
	v.r = nil
	r.Mark("x")
	res := r.Diff(context.Background(), v)
	if res.Diffed != 1 {
		t.Errorf("Diffed = %d after recovery, want 1", res.Diffed)
	}
}

func TestDiffLogsDroppedIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	root := todoList("a")
	r := New("app", root, nil, WithLogger(logger))

	r.Mark("ghost")
	res := r.Diff(context.Background(), root)

	if res.Dropped != 1 {
		t.Fatalf("Dropped = %d, want 1", res.Dropped)
	}
	out := buf.String()
	for _, want := range []string{"initial render", "dropped marked ids", "ghost", "diff pass"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Logger == nil || cfg.Tracer == nil {
		t.Error("default logger and tracer must be set")
	}
	if !cfg.AttributePatches {
		t.Error("attribute patches should default to on")
	}
	if cfg.Metrics != nil {
		t.Error("metrics should default to off")
	}

	cfg = Config{BufferSize: -1}
	cfg.normalize()
	if cfg.Logger == nil || cfg.Tracer == nil || cfg.BufferSize != 0 {
		t.Errorf("normalize() = %+v", cfg)
	}
}
