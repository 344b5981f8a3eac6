package vdom

import "github.com/vango-dev/mirror/pkg/protocol"

// Stats counts the work done by a Differ.
type Stats struct {
	// Visited is the number of nodes the marked walk examined.
	Visited int

	// Marked is the number of marked nodes the walk diffed.
	Marked int

	// Diffed is the number of per-node diffs, including descendants.
	Diffed int

	// Rebuilt is the number of subtrees replaced after an identity change.
	Rebuilt int

	// Commands counts emitted commands, indexed by op.
	Commands [protocol.OpRemoveAttr + 1]int
}

// TotalCommands returns the number of commands emitted.
func (s Stats) TotalCommands() int {
	total := 0
	for _, n := range s.Commands {
		total += n
	}
	return total
}

// CommandsByOp returns the non-zero command counts keyed by op.
func (s Stats) CommandsByOp() map[protocol.Op]int {
	m := make(map[protocol.Op]int)
	for _, op := range protocol.Ops {
		if n := s.Commands[op]; n > 0 {
			m[op] = n
		}
	}
	return m
}
