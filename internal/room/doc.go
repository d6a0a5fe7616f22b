// Package room implements the Room Directory component.
//
// A room is a client-named group of connections exchanging signaling messages.
// Rooms are created lazily on first reference and deleted the moment the last
// member leaves; an empty room never persists in the directory.
package room
