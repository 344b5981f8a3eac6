// Package reconcile drives incremental updates of a rendered view tree.
//
// A Reconciler renders the root view once, appending it to a parent element
// on the rendering surface. Afterwards the application marks the ids of
// views whose data changed and periodically runs a diff pass:
//
//	r := reconcile.New("app", root, sink,
//	    reconcile.WithLogger(logger),
//	    reconcile.WithMetrics(reconcile.NewMetrics(reconcile.WithRegistry(reg))),
//	)
//
//	todo.Done = true
//	r.Mark(todo.ID())
//
//	res := r.Diff(ctx, root) // emits only the commands todo needs
//
// Marking is O(1) and idempotent. A pass diffs each marked node once,
// never diffs an ancestor just because a descendant was marked, and drops
// ids that no longer exist in the tree.
//
// The reconciler is single-threaded. Mark and Diff must be called from the
// goroutine that owns the views, and passes must not overlap; an
// overlapping pass panics.
package reconcile
