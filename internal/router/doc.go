// Package router implements the Message Router component.
//
// The Message Router:
//   - Is the single entry point for transport events (open, message, close)
//   - Dispatches inbound messages by their declared type
//   - Mutates the Connection Registry and Room Directory under one mutex,
//     so every event is atomic with respect to shared state
//   - Owns the one disconnect path shared by peer closes, transport errors,
//     and liveness eviction
package router
