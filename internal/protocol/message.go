package protocol

import (
	"encoding/json"
	"errors"
)

// Client-to-server message types.
const (
	TypeJoin           = "join"
	TypeCallUser       = "call_user"
	TypeOffer          = "offer"
	TypeAnswer         = "answer"
	TypeICE            = "ice"
	TypeHangup         = "hangup"
	TypeTranscript     = "transcript"
	TypeSafemodeToggle = "safemode_toggle"
	TypePing           = "ping"
)

// Server-to-client message types.
const (
	TypeWelcome       = "welcome"
	TypeJoined        = "joined"
	TypePeerJoined    = "peer_joined"
	TypeCallInitiated = "call_initiated"
	TypeIncomingCall  = "incoming_call"
	TypePong          = "pong"
	TypeError         = "error"
)

var ErrInvalidPayload = errors.New("invalid message payload")

// relayTypes are forwarded verbatim to the other members of a room.
var relayTypes = map[string]struct{}{
	TypeOffer:          {},
	TypeAnswer:         {},
	TypeICE:            {},
	TypeHangup:         {},
	TypeTranscript:     {},
	TypeSafemodeToggle: {},
}

// Envelope is a decoded inbound message. The routing fields the server acts on
// are extracted; the rest of the object is kept as an opaque field bag so relay
// messages can be forwarded without interpreting them.
type Envelope struct {
	Type     string
	Room     string
	To       string
	CallType string

	fields map[string]json.RawMessage
}

// Decode parses raw bytes into an Envelope. It fails only when the payload is
// not a JSON object or a routing field has the wrong shape; unknown fields are
// preserved for relaying.
func Decode(data []byte) (*Envelope, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, ErrInvalidPayload
	}

	env := &Envelope{fields: fields}

	for _, f := range []struct {
		key string
		dst *string
	}{
		{"type", &env.Type},
		{"room", &env.Room},
		{"to", &env.To},
		{"callType", &env.CallType},
	} {
		raw, ok := fields[f.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			return nil, ErrInvalidPayload
		}
	}

	return env, nil
}

// IsRelay reports whether the message should be forwarded verbatim to the
// sender's room peers.
func (e *Envelope) IsRelay() bool {
	_, ok := relayTypes[e.Type]
	return ok
}

// WithFrom re-encodes the original message with the sender's connection id
// injected as "from". A client-supplied "from" field is always overwritten;
// the server never trusts it.
func (e *Envelope) WithFrom(sender string) ([]byte, error) {
	out := make(map[string]json.RawMessage, len(e.fields)+1)
	for k, v := range e.fields {
		out[k] = v
	}
	from, err := json.Marshal(sender)
	if err != nil {
		return nil, err
	}
	out["from"] = from
	return json.Marshal(out)
}
