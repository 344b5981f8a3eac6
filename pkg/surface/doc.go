// Package surface provides rendering surface adapters: sinks that receive
// the mutation commands produced by the reconciler and apply, record,
// forward or translate them.
//
//   - Recorder keeps every command in memory.
//   - Multi fans commands out to several sinks.
//   - Script writes one JavaScript statement per command.
//   - WebSocket sends each command as a binary frame to a browser or
//     remote process; Receive reads them back.
//   - Document applies commands to an in-memory HTML tree.
//
// Every adapter implements protocol.Sink. Adapters never fail the
// reconciler: errors are kept and reported through an Err method.
package surface
