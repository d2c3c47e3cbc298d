package protocol

import (
	"encoding/json"
	"fmt"

	"quietquadrant/internal/fx"
)

// Envelope
type MsgEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Message types carried in MsgEnvelope.Type.
const (
	TypeHello  = "hello"
	TypeEvents = "events"
	TypeError  = "error"
)

// ================= S -> C =================

// Hello is the first message on a feed connection.
type Hello struct {
	Session  string `json:"session"`
	TickRate int    `json:"tickRate"`
	Source   string `json:"source,omitempty"` // "demo" or the script name
}

// Events is one simulation tick's gameplay events, in emission order.
type Events struct {
	Tick   int64      `json:"tick"`
	Events []fx.Event `json:"events"`
}

type ErrorMsg struct {
	Message string `json:"message"`
}

// ================= HTTP =================

type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"` // unix seconds
}

// Encode wraps v in an envelope of the given type.
func Encode(typ string, v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", typ, err)
	}
	return json.Marshal(MsgEnvelope{Type: typ, Data: b})
}

// Decode splits a frame into its envelope.
func Decode(frame []byte) (MsgEnvelope, error) {
	var env MsgEnvelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return MsgEnvelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}
