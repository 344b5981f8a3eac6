// Package protocol defines the mutation commands the reconciler emits and
// their binary wire encoding.
//
// # Commands
//
// A Command is a plain value describing one operation on the rendering
// surface:
//
//	| Op                     | Target   | Payload       |
//	|------------------------|----------|---------------|
//	| ReplaceElement         | old id   | Markup        |
//	| ReplaceContent         | id       | Markup        |
//	| RemoveTrailingChildren | parent   | Count         |
//	| AppendChild            | parent   | Markup        |
//	| SetAttr                | id       | Key, Value    |
//	| RemoveAttr             | id       | Key           |
//
// Markup is raw and unescaped. The reconciler hands commands to a Sink; what
// the sink does with them (record, script, ship over a socket) is outside
// this package.
//
// # Wire Format
//
// Each command travels in its own frame:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (4 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// The payload is the op byte, the target as a length-prefixed string, then
// the op-specific fields. Integers are unsigned varints; strings are
// varint-length-prefixed UTF-8.
package protocol
