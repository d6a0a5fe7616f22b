package protocol

import "encoding/json"

// Server-generated messages. Each builder returns the encoded bytes ready to
// hand to a channel; the structs never fail to marshal.

type welcomeMsg struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type joinedMsg struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

type peerJoinedMsg struct {
	Type   string `json:"type"`
	PeerID string `json:"peerId"`
	Room   string `json:"room"`
}

type callInitiatedMsg struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

type incomingCallMsg struct {
	Type     string `json:"type"`
	From     string `json:"from"`
	Room     string `json:"room"`
	CallType string `json:"callType,omitempty"`
}

type pongMsg struct {
	Type string `json:"type"`
}

type errorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type hangupMsg struct {
	Type string `json:"type"`
	From string `json:"from"`
}

func mustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err) // static struct shapes, cannot happen
	}
	return data
}

// Welcome greets a freshly opened connection with its assigned id.
func Welcome(id string) []byte {
	return mustMarshal(welcomeMsg{Type: TypeWelcome, ID: id})
}

// Joined confirms a join to the sender.
func Joined(room string) []byte {
	return mustMarshal(joinedMsg{Type: TypeJoined, Room: room})
}

// PeerJoined announces a new room member to the existing ones.
func PeerJoined(peerID, room string) []byte {
	return mustMarshal(peerJoinedMsg{Type: TypePeerJoined, PeerID: peerID, Room: room})
}

// CallInitiated confirms a call_user to the caller.
func CallInitiated(room string) []byte {
	return mustMarshal(callInitiatedMsg{Type: TypeCallInitiated, Room: room})
}

// IncomingCall notifies the callee of a call.
func IncomingCall(from, room, callType string) []byte {
	return mustMarshal(incomingCallMsg{Type: TypeIncomingCall, From: from, Room: room, CallType: callType})
}

// Pong answers a protocol-level ping.
func Pong() []byte {
	return mustMarshal(pongMsg{Type: TypePong})
}

// ErrorReply reports a recoverable failure back to the offending sender.
func ErrorReply(message string) []byte {
	return mustMarshal(errorMsg{Type: TypeError, Message: message})
}

// Hangup tells remaining room members that a peer is gone.
func Hangup(from string) []byte {
	return mustMarshal(hangupMsg{Type: TypeHangup, From: from})
}
