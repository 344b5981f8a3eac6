package surface

import (
	"sync"

	"github.com/vango-dev/mirror/pkg/protocol"
)

// Recorder records every emitted command. It is safe for concurrent use.
type Recorder struct {
	mu   sync.Mutex
	cmds []protocol.Command
}

// Emit implements protocol.Sink.
func (r *Recorder) Emit(c protocol.Command) {
	r.mu.Lock()
	r.cmds = append(r.cmds, c)
	r.mu.Unlock()
}

// Commands returns a copy of the recorded commands.
func (r *Recorder) Commands() []protocol.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]protocol.Command, len(r.cmds))
	copy(out, r.cmds)
	return out
}

// Ops returns the op of every recorded command, in order.
func (r *Recorder) Ops() []protocol.Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	ops := make([]protocol.Op, len(r.cmds))
	for i, c := range r.cmds {
		ops[i] = c.Op
	}
	return ops
}

// Len returns the number of recorded commands.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cmds)
}

// Reset discards the recorded commands.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.cmds = nil
	r.mu.Unlock()
}
