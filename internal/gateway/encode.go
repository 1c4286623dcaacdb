package gateway

import (
	"encoding/json"
	"runtime"
)

// identifyProperties is the fixed client-metadata object sent with
// every Identify. The server requires all three keys.
type identifyProperties struct {
	OS      string `json:"os"`
	Browser string `json:"browser"`
	Device  string `json:"device"`
}

type identifyPayload struct {
	Token      string             `json:"token"`
	Properties identifyProperties `json:"properties"`
	Intents    uint64             `json:"intents"`
}

type resumePayload struct {
	Token     string `json:"token"`
	SessionID string `json:"session_id"`
	Seq       int64  `json:"seq"`
}

type command struct {
	Op int `json:"op"`
	D  any `json:"d"`
}

// EncodeIdentify serializes the command that authenticates and opens
// a brand-new session. The intents bitmask is the compile-time
// ClientIntents set.
func EncodeIdentify(token string) ([]byte, error) {
	return json.Marshal(command{
		Op: OpIdentify,
		D: identifyPayload{
			Token: token,
			Properties: identifyProperties{
				OS:      runtime.GOOS,
				Browser: "gale",
				Device:  "gale",
			},
			Intents: ClientIntents,
		},
	})
}

// EncodeResume serializes the command that re-attaches to a previous
// session at the given sequence number.
func EncodeResume(token, sessionID string, seq int64) ([]byte, error) {
	return json.Marshal(command{
		Op: OpResume,
		D: resumePayload{
			Token:     token,
			SessionID: sessionID,
			Seq:       seq,
		},
	})
}

// EncodeHeartbeat serializes the keep-alive frame. The payload is an
// explicit null.
func EncodeHeartbeat() ([]byte, error) {
	return json.Marshal(command{Op: OpHeartbeat, D: nil})
}
