package vtest

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/mirror/pkg/protocol"
	"github.com/vango-dev/mirror/pkg/reconcile"
	"github.com/vango-dev/mirror/pkg/surface"
	"github.com/vango-dev/mirror/pkg/vdom"
	"github.com/vango-dev/mirror/pkg/view"
	"golang.org/x/net/html"
)

// DefaultParent is the id of the element views are mounted into.
const DefaultParent = "app"

// HarnessBuilder allows fluent construction of test harnesses.
type HarnessBuilder struct {
	t      testing.TB
	parent string
	opts   []reconcile.Option
}

// NewHarness creates a new harness builder for testing.
//
// Example:
//
//	h := vtest.NewHarness(t).
//	    WithParent("main").
//	    Mount(root)
func NewHarness(t testing.TB) *HarnessBuilder {
	return &HarnessBuilder{
		t:      t,
		parent: DefaultParent,
		opts: []reconcile.Option{
			reconcile.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		},
	}
}

// WithParent sets the id of the mount point.
//
// Example:
//
//	h := vtest.NewHarness(t).WithParent("main").Mount(root)
func (b *HarnessBuilder) WithParent(id string) *HarnessBuilder {
	b.parent = id
	return b
}

// WithoutAttributePatches mounts with attribute commands disabled.
func (b *HarnessBuilder) WithoutAttributePatches() *HarnessBuilder {
	b.opts = append(b.opts, reconcile.WithAttributePatches(false))
	return b
}

// WithOption appends a reconciler option.
//
// Example:
//
//	h := vtest.NewHarness(t).WithOption(reconcile.WithLogger(logger)).Mount(root)
func (b *HarnessBuilder) WithOption(opt reconcile.Option) *HarnessBuilder {
	b.opts = append(b.opts, opt)
	return b
}

// Mount renders root and returns the harness. The initial AppendChild
// command is recorded.
func (b *HarnessBuilder) Mount(root view.View) *Harness {
	h := &Harness{
		t:        b.t,
		root:     root,
		recorder: &surface.Recorder{},
		document: surface.NewDocument(b.parent),
	}
	h.Reconciler = reconcile.New(b.parent, root, surface.Multi(h.recorder, h.document), b.opts...)
	return h
}

// Mount is a shorthand for NewHarness(t).Mount(root).
//
// Example:
//
//	h := vtest.Mount(t, view.Div("root"))
func Mount(t testing.TB, root view.View) *Harness {
	return NewHarness(t).Mount(root)
}

// Harness mounts one view tree behind a Recorder and a Document.
type Harness struct {
	Reconciler *reconcile.Reconciler

	t        testing.TB
	root     view.View
	recorder *surface.Recorder
	document *surface.Document
	last     reconcile.Result
}

// Mark marks ids dirty and returns the harness for chaining.
func (h *Harness) Mark(ids ...string) *Harness {
	for _, id := range ids {
		h.Reconciler.Mark(id)
	}
	return h
}

// Diff clears the recorded commands and runs one pass against the
// mounted root.
func (h *Harness) Diff() reconcile.Result {
	h.recorder.Reset()
	h.last = h.Reconciler.Diff(context.Background(), h.root)
	return h.last
}

// Result returns the result of the latest Diff.
func (h *Harness) Result() reconcile.Result {
	return h.last
}

// Commands returns the commands recorded since the latest Diff started.
func (h *Harness) Commands() []protocol.Command {
	return h.recorder.Commands()
}

// Document returns the in-memory document the commands are applied to.
func (h *Harness) Document() *surface.Document {
	return h.document
}

// ExpectCommands asserts the exact commands of the latest pass.
//
// Example:
//
//	h.ExpectCommands(protocol.ReplaceContent("count", "2"))
func (h *Harness) ExpectCommands(want ...protocol.Command) {
	h.t.Helper()
	got := h.recorder.Commands()
	if len(got) != len(want) {
		h.t.Errorf("got %d commands %v, want %d %v", len(got), got, len(want), want)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			h.t.Errorf("command %d = %v, want %v", i, got[i], want[i])
		}
	}
}

// ExpectOps asserts the ops of the latest pass, ignoring payloads.
//
// Example:
//
//	h.ExpectOps(protocol.OpRemoveTrailingChildren, protocol.OpAppendChild)
func (h *Harness) ExpectOps(want ...protocol.Op) {
	h.t.Helper()
	got := h.recorder.Ops()
	if len(got) != len(want) {
		h.t.Errorf("got ops %v, want %v", got, want)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			h.t.Errorf("op %d = %s, want %s", i, got[i], want[i])
		}
	}
}

// ExpectConverged asserts that the document built from every emitted
// command matches a fresh render of the live tree.
func (h *Harness) ExpectConverged() {
	h.t.Helper()
	if err := h.document.Err(); err != nil {
		h.t.Errorf("a command failed to apply: %v", err)
		return
	}
	fresh := surface.NewDocument(h.Reconciler.ParentID())
	fresh.Emit(protocol.AppendChild(h.Reconciler.ParentID(), RenderToString(h.root)))
	if got, want := h.document.HTML(), fresh.HTML(); got != want {
		h.t.Errorf("document diverged from a fresh render\n got: %s\nwant: %s",
			truncate(got, 500), truncate(want, 500))
	}
}

// ExpectContains asserts that the document contains expected markup.
//
// Example:
//
//	h.ExpectContains("Welcome")
func (h *Harness) ExpectContains(expected string) {
	h.t.Helper()
	out := h.document.HTML()
	if !strings.Contains(out, expected) {
		h.t.Errorf("expected document to contain %q, got:\n%s", expected, truncate(out, 500))
	}
}

// ExpectNotContains asserts that the document does not contain markup.
func (h *Harness) ExpectNotContains(unexpected string) {
	h.t.Helper()
	out := h.document.HTML()
	if strings.Contains(out, unexpected) {
		h.t.Errorf("expected document to NOT contain %q, got:\n%s", unexpected, truncate(out, 500))
	}
}

// ExpectElement asserts that the document contains a specific tag.
//
// Example:
//
//	h.ExpectElement("button")
func (h *Harness) ExpectElement(tag string) {
	h.t.Helper()
	out := h.document.HTML()
	if !strings.Contains(out, "<"+tag) {
		h.t.Errorf("expected document to contain <%s> element, got:\n%s", tag, truncate(out, 500))
	}
}

// ExpectAttribute asserts that the element with the given id carries an
// attribute value. Valueless attributes have the value "".
//
// Example:
//
//	h.ExpectAttribute("save", "disabled", "")
func (h *Harness) ExpectAttribute(id, attr, value string) {
	h.t.Helper()
	n := h.document.Lookup(id)
	if n == nil {
		h.t.Errorf("no element with id %q", id)
		return
	}
	for _, a := range n.Attr {
		if a.Key == attr {
			if a.Val != value {
				h.t.Errorf("%s on #%s = %q, want %q", attr, id, a.Val, value)
			}
			return
		}
	}
	h.t.Errorf("expected attribute %s=%q on #%s, got %s", attr, value, id, renderNode(n))
}

// RenderToString renders a view tree and returns its markup.
//
// Example:
//
//	markup := vtest.RenderToString(view.Div("root", "hi"))
func RenderToString(v view.View) string {
	_, markup := vdom.Render(v)
	return markup
}

func renderNode(n *html.Node) string {
	var b strings.Builder
	_ = html.Render(&b, n)
	return truncate(b.String(), 500)
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
