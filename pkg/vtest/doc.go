// Package vtest provides testing helpers for mirror views.
//
// The vtest package reduces boilerplate when testing views that update
// incrementally, by mounting them behind a recording sink and an in-memory
// document and offering command and markup assertions.
//
// # Quick Start
//
//	func TestTodoToggle(t *testing.T) {
//	    todo := view.Li("todo-1", "Buy milk")
//	    h := vtest.Mount(t, view.Ul("todos", todo))
//
//	    todo.SetAttr(view.Class("done"))
//	    h.Mark("todo-1").Diff()
//
//	    h.ExpectCommands(protocol.SetAttr("todo-1", "class", "done"))
//	    h.ExpectConverged()
//	}
//
// # Fluent Harness Builder
//
// The builder allows chaining setup options before mounting:
//
//	h := vtest.NewHarness(t).
//	    WithParent("main").
//	    WithoutAttributePatches().
//	    Mount(root)
//
// # Render Assertions
//
// Assert on the current markup of the mounted document:
//
//	h.ExpectContains("Buy milk")
//	h.ExpectElement("ul")
//	h.ExpectAttribute("todo-1", "class", "done")
//
// Each Diff clears the recorded commands, so ExpectCommands always
// refers to the latest pass.
package vtest
