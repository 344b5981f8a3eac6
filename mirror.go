// Package mirror provides the public API for the mirror reconciliation
// engine.
//
// This is the recommended import for most applications:
//
//	import "github.com/vango-dev/mirror"
//
// Usage:
//
//	ids := mirror.NewIDGenerator("todo")
//	list := mirror.Ul(ids.Next(), mirror.Class("todos"))
//	r := mirror.New("app", list, sink)
//
//	list.Append(mirror.Li(ids.Next(), "Buy milk"))
//	r.Mark(list.ID())
//	r.Diff(ctx, list)
package mirror

import (
	"github.com/vango-dev/mirror/pkg/protocol"
	"github.com/vango-dev/mirror/pkg/reconcile"
	"github.com/vango-dev/mirror/pkg/surface"
	"github.com/vango-dev/mirror/pkg/view"
)

// =============================================================================
// Views (re-export from pkg/view)
// =============================================================================

// View is the capability set the reconciler needs from an application view.
type View = view.View

// Base supplies default View methods; embed it and set Ident.
type Base = view.Base

// Element is a ready-made concrete view.
type Element = view.Element

// Attributes maps attribute names to values.
type Attributes = view.Attributes

// Attr is a single attribute.
type Attr = view.Attr

// IDGenerator hands out sequential view ids.
type IDGenerator = view.IDGenerator

// NewIDGenerator creates an id generator with the given prefix.
var NewIDGenerator = view.NewIDGenerator

// NewScopedIDGenerator creates an id generator with a random prefix.
var NewScopedIDGenerator = view.NewScopedIDGenerator

// Element builders.
var (
	El      = view.El
	Div     = view.Div
	Span    = view.Span
	P       = view.P
	H1      = view.H1
	Section = view.Section
	Ul      = view.Ul
	Li      = view.Li
	Button  = view.Button
	Input   = view.Input
	Text    = view.Text
	Textf   = view.Textf
	Raw     = view.Raw
)

// Attribute helpers.
var (
	Set         = view.Set
	Flag        = view.Flag
	Class       = view.Class
	StyleAttr   = view.StyleAttr
	Data        = view.Data
	Role        = view.Role
	AriaLabel   = view.AriaLabel
	TitleAttr   = view.TitleAttr
	Href        = view.Href
	Type        = view.Type
	Placeholder = view.Placeholder
	Hidden      = view.Hidden
	Disabled    = view.Disabled
	Checked     = view.Checked
	If          = view.If
)

// Hash fingerprints own-content fields for View.State.
var Hash = view.Hash

// =============================================================================
// Commands (re-export from pkg/protocol)
// =============================================================================

// Command is one mutation of the rendering surface.
type Command = protocol.Command

// Op identifies the kind of a Command.
type Op = protocol.Op

// Sink receives commands.
type Sink = protocol.Sink

// SinkFunc adapts a function to a Sink.
type SinkFunc = protocol.SinkFunc

// =============================================================================
// Reconciler (re-export from pkg/reconcile)
// =============================================================================

// Reconciler owns the cached tree of one mounted view hierarchy.
type Reconciler = reconcile.Reconciler

// Result summarizes one diff pass.
type Result = reconcile.Result

// Option configures a Reconciler.
type Option = reconcile.Option

// Reconciler options.
var (
	WithLogger           = reconcile.WithLogger
	WithMetrics          = reconcile.WithMetrics
	WithTracer           = reconcile.WithTracer
	WithAttributePatches = reconcile.WithAttributePatches
	WithBufferSize       = reconcile.WithBufferSize
)

// New renders root into the element parentID and returns its Reconciler.
// A nil sink discards commands.
func New(parentID string, root View, sink Sink, opts ...Option) *Reconciler {
	return reconcile.New(parentID, root, sink, opts...)
}

// =============================================================================
// Surfaces (re-export from pkg/surface)
// =============================================================================

// Recorder records every emitted command.
type Recorder = surface.Recorder

// Document is an in-memory HTML tree that applies commands.
type Document = surface.Document

// NewDocument creates a Document mounted at rootID.
var NewDocument = surface.NewDocument

// Multi fans commands out to several sinks.
var Multi = surface.Multi
