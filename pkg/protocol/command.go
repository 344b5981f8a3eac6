package protocol

import (
	"fmt"
	"strconv"
)

// Op is the type of a mutation command.
type Op uint8

const (
	OpReplaceElement         Op = 0x01 // Replace element and subtree
	OpReplaceContent         Op = 0x02 // Replace inner content only
	OpRemoveTrailingChildren Op = 0x03 // Remove last N children
	OpAppendChild            Op = 0x04 // Append parsed element
	OpSetAttr                Op = 0x05 // Set attribute (optionally valueless)
	OpRemoveAttr             Op = 0x06 // Remove attribute
)

// Ops lists every defined op in wire order.
var Ops = []Op{
	OpReplaceElement,
	OpReplaceContent,
	OpRemoveTrailingChildren,
	OpAppendChild,
	OpSetAttr,
	OpRemoveAttr,
}

// String returns the string representation of the Op.
func (op Op) String() string {
	switch op {
	case OpReplaceElement:
		return "ReplaceElement"
	case OpReplaceContent:
		return "ReplaceContent"
	case OpRemoveTrailingChildren:
		return "RemoveTrailingChildren"
	case OpAppendChild:
		return "AppendChild"
	case OpSetAttr:
		return "SetAttr"
	case OpRemoveAttr:
		return "RemoveAttr"
	default:
		return "Unknown"
	}
}

// Valid reports whether op is a defined op.
func (op Op) Valid() bool {
	return op >= OpReplaceElement && op <= OpRemoveAttr
}

// Command is a single rendering-surface mutation.
type Command struct {
	Op       Op
	Target   string // Element id (old id for ReplaceElement, parent for Append/Remove)
	Markup   string // ReplaceElement, ReplaceContent, AppendChild
	Count    int    // RemoveTrailingChildren
	Key      string // SetAttr, RemoveAttr
	Value    string // SetAttr
	HasValue bool   // SetAttr: false writes a valueless attribute
}

// ReplaceElement replaces the element oldID and its subtree with markup.
func ReplaceElement(oldID, markup string) Command {
	return Command{Op: OpReplaceElement, Target: oldID, Markup: markup}
}

// ReplaceContent replaces the inner content of element id.
func ReplaceContent(id, markup string) Command {
	return Command{Op: OpReplaceContent, Target: id, Markup: markup}
}

// RemoveTrailingChildren removes the last count children of parentID.
func RemoveTrailingChildren(parentID string, count int) Command {
	return Command{Op: OpRemoveTrailingChildren, Target: parentID, Count: count}
}

// AppendChild parses markup as one element and appends it to parentID.
func AppendChild(parentID, markup string) Command {
	return Command{Op: OpAppendChild, Target: parentID, Markup: markup}
}

// SetAttr sets attribute key of element id to value.
func SetAttr(id, key, value string) Command {
	return Command{Op: OpSetAttr, Target: id, Key: key, Value: value, HasValue: true}
}

// SetFlag sets a valueless attribute key on element id.
func SetFlag(id, key string) Command {
	return Command{Op: OpSetAttr, Target: id, Key: key}
}

// RemoveAttr removes attribute key from element id.
func RemoveAttr(id, key string) Command {
	return Command{Op: OpRemoveAttr, Target: id, Key: key}
}

// Validate checks that c is well formed for its op.
func (c Command) Validate() error {
	if !c.Op.Valid() {
		return fmt.Errorf("%w: 0x%02x", ErrUnknownOp, uint8(c.Op))
	}
	if c.Target == "" {
		return fmt.Errorf("%w: %s without target", ErrInvalidCommand, c.Op)
	}
	switch c.Op {
	case OpRemoveTrailingChildren:
		if c.Count <= 0 {
			return fmt.Errorf("%w: %s count %d", ErrInvalidCommand, c.Op, c.Count)
		}
	case OpSetAttr, OpRemoveAttr:
		if c.Key == "" {
			return fmt.Errorf("%w: %s without key", ErrInvalidCommand, c.Op)
		}
	}
	return nil
}

// String returns a compact, log-friendly form of the command. Markup is
// abbreviated.
func (c Command) String() string {
	switch c.Op {
	case OpReplaceElement, OpReplaceContent, OpAppendChild:
		return c.Op.String() + "(" + c.Target + ", " + abbreviate(c.Markup, 48) + ")"
	case OpRemoveTrailingChildren:
		return c.Op.String() + "(" + c.Target + ", " + strconv.Itoa(c.Count) + ")"
	case OpSetAttr:
		if !c.HasValue {
			return c.Op.String() + "(" + c.Target + ", " + c.Key + ")"
		}
		return c.Op.String() + "(" + c.Target + ", " + c.Key + "=" + strconv.Quote(c.Value) + ")"
	case OpRemoveAttr:
		return c.Op.String() + "(" + c.Target + ", " + c.Key + ")"
	default:
		return c.Op.String()
	}
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return strconv.Quote(s)
	}
	return strconv.Quote(s[:n]) + "…"
}

// Sink receives commands in emission order.
type Sink interface {
	Emit(cmd Command)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(cmd Command)

// Emit implements Sink.
func (f SinkFunc) Emit(cmd Command) { f(cmd) }

// Discard is a Sink that drops every command.
var Discard Sink = SinkFunc(func(Command) {})
