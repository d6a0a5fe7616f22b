// Package server is the HTTP/WebSocket boundary of the signaling relay.
//
// The root path upgrades to a WebSocket and hands the resulting channel to the
// router; a plain GET to the root answers with a liveness string; every other
// path is a 404. Each connection gets a buffered write pump so a slow or dead
// peer can never stall message handling.
package server
