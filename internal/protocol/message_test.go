package protocol

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecode(t *testing.T) {
	data := []byte(`{"type":"offer","room":"r1","sdp":"v=0...","from":"spoofed"}`)

	env, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if env.Type != "offer" {
		t.Errorf("Type = %q, want %q", env.Type, "offer")
	}
	if env.Room != "r1" {
		t.Errorf("Room = %q, want %q", env.Room, "r1")
	}
	if !env.IsRelay() {
		t.Error("expected offer to be a relay type")
	}
}

func TestDecode_CallFields(t *testing.T) {
	env, err := Decode([]byte(`{"type":"call_user","to":"bbb","room":"r2","callType":"video"}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if env.To != "bbb" {
		t.Errorf("To = %q, want %q", env.To, "bbb")
	}
	if env.CallType != "video" {
		t.Errorf("CallType = %q, want %q", env.CallType, "video")
	}
}

func TestDecode_Malformed(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not json", `{{{`},
		{"not an object", `[1,2,3]`},
		{"non-string type", `{"type":5}`},
		{"non-string room", `{"type":"join","room":{"a":1}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode([]byte(tc.data)); !errors.Is(err, ErrInvalidPayload) {
				t.Errorf("Decode(%q) error = %v, want ErrInvalidPayload", tc.data, err)
			}
		})
	}
}

func TestDecode_MissingType(t *testing.T) {
	// A JSON object with no type decodes fine and falls through the router
	// as unrecognized; it is not a parse error.
	env, err := Decode([]byte(`{"room":"r1"}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if env.Type != "" {
		t.Errorf("Type = %q, want empty", env.Type)
	}
	if env.IsRelay() {
		t.Error("empty type must not be a relay type")
	}
}

func TestEnvelope_WithFrom(t *testing.T) {
	env, err := Decode([]byte(`{"type":"ice","room":"r1","candidate":{"sdpMid":"0"},"from":"liar"}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	out, err := env.WithFrom("aaa")
	if err != nil {
		t.Fatalf("WithFrom failed: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("output not valid JSON: %v", err)
	}

	if got["from"] != "aaa" {
		t.Errorf("from = %v, want aaa (client-supplied from must be overwritten)", got["from"])
	}
	if got["type"] != "ice" {
		t.Errorf("type = %v, want ice", got["type"])
	}
	candidate, ok := got["candidate"].(map[string]any)
	if !ok || candidate["sdpMid"] != "0" {
		t.Errorf("opaque candidate field not preserved: %v", got["candidate"])
	}
}

func TestIsRelay(t *testing.T) {
	relay := []string{TypeOffer, TypeAnswer, TypeICE, TypeHangup, TypeTranscript, TypeSafemodeToggle}
	for _, typ := range relay {
		if !(&Envelope{Type: typ}).IsRelay() {
			t.Errorf("IsRelay(%q) = false, want true", typ)
		}
	}

	nonRelay := []string{TypeJoin, TypeCallUser, TypePing, "made_up", ""}
	for _, typ := range nonRelay {
		if (&Envelope{Type: typ}).IsRelay() {
			t.Errorf("IsRelay(%q) = true, want false", typ)
		}
	}
}

func TestReplyBuilders(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want map[string]any
	}{
		{"welcome", Welcome("aaa"), map[string]any{"type": "welcome", "id": "aaa"}},
		{"joined", Joined("r1"), map[string]any{"type": "joined", "room": "r1"}},
		{"peer_joined", PeerJoined("bbb", "r1"), map[string]any{"type": "peer_joined", "peerId": "bbb", "room": "r1"}},
		{"call_initiated", CallInitiated("r2"), map[string]any{"type": "call_initiated", "room": "r2"}},
		{"incoming_call", IncomingCall("aaa", "r2", "video"), map[string]any{"type": "incoming_call", "from": "aaa", "room": "r2", "callType": "video"}},
		{"pong", Pong(), map[string]any{"type": "pong"}},
		{"error", ErrorReply("Room full"), map[string]any{"type": "error", "message": "Room full"}},
		{"hangup", Hangup("bbb"), map[string]any{"type": "hangup", "from": "bbb"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got map[string]any
			if err := json.Unmarshal(tc.data, &got); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Errorf("got %d fields, want %d: %v", len(got), len(tc.want), got)
			}
			for k, v := range tc.want {
				if got[k] != v {
					t.Errorf("%s = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestIncomingCall_OmitsEmptyCallType(t *testing.T) {
	var got map[string]any
	if err := json.Unmarshal(IncomingCall("aaa", "r2", ""), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, present := got["callType"]; present {
		t.Error("empty callType should be omitted")
	}
}
