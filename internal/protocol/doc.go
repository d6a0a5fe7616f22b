// Package protocol defines the JSON wire format spoken over a signaling connection.
//
// Every message is a JSON object with a required "type" field. Client-to-server
// types: join, call_user, offer, answer, ice, hangup, transcript, safemode_toggle,
// ping. Server-to-client types: welcome, joined, peer_joined, call_initiated,
// incoming_call, pong, error, hangup.
//
// Relay-class messages (offer, answer, ice, hangup, transcript, safemode_toggle)
// are forwarded verbatim: the server keeps every field the client sent, including
// SDP blobs and ICE candidates it never interprets, and only injects the sender's
// connection id as "from".
package protocol
