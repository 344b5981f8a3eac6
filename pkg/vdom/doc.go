// Package vdom keeps the cached mirror of the last-rendered view tree and
// diffs it against live views.
//
// # Node Tree
//
// Build renders a view and its descendants to markup in one pre-order pass
// and returns the matching Node tree. Nodes hold what the next diff needs:
// id, tag, fingerprint and an attribute snapshot. Inner markup is not
// cached; fingerprints stand in for it.
//
// # Diffing
//
// Differ.Diff compares one live view with its cached Node and emits
// protocol commands to a Sink while updating the Node in place:
//
//   - a different id (or tag) rebuilds the subtree: one ReplaceElement
//   - a different fingerprint updates attributes and, for childless nodes,
//     re-renders inner content: one ReplaceContent
//   - container nodes always diff their children positionally, trimming
//     with RemoveTrailingChildren and growing with AppendChild
//
// Differ.Reconcile walks a tree looking for marked ids and diffs only the
// subtrees rooted at them.
//
// Invariant violations (duplicate sibling ids, empty ids, nil views) panic
// with an *errors.Error from internal/errors.
package vdom
