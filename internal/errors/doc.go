// Package errors provides coded invariant-violation errors for mirror.
//
// The reconciler has no recoverable error taxonomy. Anything that would leave
// the cached node tree out of step with the rendering surface is a programmer
// error and is raised as a panic carrying an *Error, so callers that recover
// can still inspect the code:
//
//	defer func() {
//	    if r := recover(); r != nil {
//	        if err, ok := r.(*errors.Error); ok && err.Code == errors.CodeDuplicateID {
//	            ...
//	        }
//	        panic(r)
//	    }
//	}()
//
// # Error Codes
//
//   - R001: duplicate sibling id
//   - R002: empty view id
//   - R003: overlapping diff pass
//   - R004: nil view
//   - R005: invalid command
package errors
