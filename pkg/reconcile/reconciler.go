package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/vango-dev/mirror/internal/errors"
	"github.com/vango-dev/mirror/pkg/protocol"
	"github.com/vango-dev/mirror/pkg/vdom"
	"github.com/vango-dev/mirror/pkg/view"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// maxLoggedIDs bounds the dropped ids included in a debug record.
const maxLoggedIDs = 16

// Reconciler owns the cached Node tree for one mounted view hierarchy and
// the set of ids marked dirty since the last pass.
type Reconciler struct {
	parentID string
	root     *vdom.Node
	dirty    map[string]struct{}
	differ   *vdom.Differ
	config   Config

	// running detects overlapping passes. It is not a lock.
	running atomic.Bool
}

// Result summarizes one diff pass.
type Result struct {
	// Marked is the number of marked nodes found and diffed.
	Marked int

	// Diffed is the number of per-node diffs, including descendants
	// reached while diffing marked nodes.
	Diffed int

	// Dropped is the number of marked ids that matched no node.
	Dropped int

	// Rebuilt is the number of subtrees replaced after an identity change.
	Rebuilt int

	// Commands counts emitted commands by op. Ops with no commands are absent.
	Commands map[protocol.Op]int

	// Duration is the wall time of the pass.
	Duration time.Duration
}

// TotalCommands returns the number of commands emitted by the pass.
func (r Result) TotalCommands() int {
	total := 0
	for _, n := range r.Commands {
		total += n
	}
	return total
}

// New renders root, emits a single AppendChild command attaching it to the
// element parentID, and returns a Reconciler caching the rendered tree.
func New(parentID string, root view.View, sink protocol.Sink, opts ...Option) *Reconciler {
	if parentID == "" {
		errors.Raise(errors.CodeInvalidCommand, "reconcile.New", "empty parent id")
	}
	if sink == nil {
		sink = protocol.Discard
	}

	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	config.normalize()

	differ := vdom.NewDiffer(sink)
	differ.AttrPatches = config.AttributePatches
	differ.BufferSize = config.BufferSize

	var w strings.Builder
	w.Grow(config.BufferSize)
	node := vdom.Build(root, &w)
	sink.Emit(protocol.AppendChild(parentID, w.String()))
	config.Metrics.observeRender()

	config.Logger.Debug("initial render",
		"parent", parentID,
		"root", node.ID,
		"nodes", node.Count(),
		"bytes", w.Len(),
	)

	return &Reconciler{
		parentID: parentID,
		root:     node,
		dirty:    make(map[string]struct{}),
		differ:   differ,
		config:   config,
	}
}

// Mark records that the view with the given id changed. Marking the same id
// twice before a pass has the same effect as marking it once.
func (r *Reconciler) Mark(id string) {
	r.dirty[id] = struct{}{}
}

// Pending returns the number of ids marked since the last pass.
func (r *Reconciler) Pending() int {
	return len(r.dirty)
}

// Root returns the cached root Node. The tree must not be modified.
func (r *Reconciler) Root() *vdom.Node {
	return r.root
}

// ParentID returns the id of the element the root was appended to.
func (r *Reconciler) ParentID() string {
	return r.parentID
}

// Diff runs one pass against the live root view. Every marked node found in
// the tree is diffed once and the resulting commands are emitted to the sink
// before Diff returns. The dirty set is empty afterwards.
//
// ctx only carries the trace context. Diff panics with code R003 if called
// while another pass is running on the same Reconciler.
func (r *Reconciler) Diff(ctx context.Context, root view.View) (res Result) {
	if !r.running.CompareAndSwap(false, true) {
		errors.Raise(errors.CodeOverlappingRun, "reconcile.Diff", "parent %q", r.parentID)
	}

	_, span := r.config.Tracer.Start(ctx, "mirror.diff",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("mirror.parent", r.parentID),
			attribute.Int("mirror.marked", len(r.dirty)),
		),
	)

	defer func() {
		r.running.Store(false)
		if p := recover(); p != nil {
			err, ok := p.(error)
			if !ok {
				err = fmt.Errorf("%v", p)
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()
			r.config.Logger.Error("diff pass aborted",
				"parent", r.parentID,
				"error", err,
			)
			panic(p)
		}
		span.End()
	}()

	if root == nil {
		errors.Raise(errors.CodeNilView, "reconcile.Diff", "live root for parent %q", r.parentID)
	}

	start := time.Now()
	r.differ.ResetStats()
	if len(r.dirty) > 0 {
		r.differ.Reconcile(r.root, root, r.dirty)
	}

	dropped := len(r.dirty)
	if dropped > 0 {
		r.config.Logger.Debug("dropped marked ids",
			"parent", r.parentID,
			"count", dropped,
			"ids", sampleIDs(r.dirty, maxLoggedIDs),
		)
		clear(r.dirty)
	}

	stats := r.differ.Stats()
	res = Result{
		Marked:   stats.Marked,
		Diffed:   stats.Diffed,
		Dropped:  dropped,
		Rebuilt:  stats.Rebuilt,
		Commands: stats.CommandsByOp(),
		Duration: time.Since(start),
	}

	r.config.Metrics.observePass(res)
	span.SetAttributes(passAttributes(res)...)
	r.config.Logger.Debug("diff pass",
		"parent", r.parentID,
		"marked", res.Marked,
		"diffed", res.Diffed,
		"dropped", res.Dropped,
		"rebuilt", res.Rebuilt,
		"commands", res.TotalCommands(),
		"duration", res.Duration,
	)
	return res
}

func passAttributes(res Result) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int("mirror.diffed", res.Diffed),
		attribute.Int("mirror.dropped", res.Dropped),
		attribute.Int("mirror.rebuilt", res.Rebuilt),
		attribute.Int("mirror.commands", res.TotalCommands()),
	}
}

// sampleIDs returns up to limit ids from set in sorted order.
func sampleIDs(set map[string]struct{}, limit int) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}
