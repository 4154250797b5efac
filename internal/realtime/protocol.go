package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Version is the protocol version identifier embedded into every envelope.
const Version = "v1"

// Type constants (wire-stable).
const (
	// TypeHello authenticates the connection with a session token (client -> server).
	TypeHello = "hello"
	// TypeHelloAck acknowledges authentication (server -> client).
	TypeHelloAck = "hello_ack"

	// TypeStatusSet changes the sender's presence status (client -> server).
	TypeStatusSet = "status_set"

	// TypeRoomJoin requests room membership (client -> server) and is echoed back.
	TypeRoomJoin = "room_join"
	// TypeRoomLeave leaves a room (client -> server).
	TypeRoomLeave = "room_leave"
	// TypeRoomMessage sends a message into a room (client -> server) and is
	// broadcast to the room's connected members (server -> clients).
	TypeRoomMessage = "room_message"

	// TypePresenceFetch requests presence for a bounded list of DIDs (client -> server).
	TypePresenceFetch = "presence_fetch"
	// TypePresenceResult returns the visibility-filtered presences (server -> client).
	TypePresenceResult = "presence_result"

	// RTC signaling relay (client -> server -> the other participant).
	TypeRTCOffer     = "rtc_offer"
	TypeRTCAnswer    = "rtc_answer"
	TypeRTCCandidate = "rtc_candidate"
	TypeRTCHangup    = "rtc_hangup"

	// TypeError is a generic error envelope (server -> client).
	TypeError = "error"
)

// Envelope is the canonical wire wrapper.
type Envelope struct {
	V       string          `json:"v"`
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	TS      time.Time       `json:"ts,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Validate performs strict structural validation for an Envelope.
func (e Envelope) Validate() error {
	if strings.TrimSpace(e.V) == "" {
		return errors.New("missing field: v")
	}
	if e.V != Version {
		return fmt.Errorf("unsupported protocol version: %q", e.V)
	}
	if strings.TrimSpace(e.Type) == "" {
		return errors.New("missing field: type")
	}

	switch e.Type {
	case TypeHello,
		TypeHelloAck,
		TypeStatusSet,
		TypeRoomJoin,
		TypeRoomLeave,
		TypeRoomMessage,
		TypePresenceFetch,
		TypePresenceResult,
		TypeRTCOffer,
		TypeRTCAnswer,
		TypeRTCCandidate,
		TypeRTCHangup,
		TypeError:
		return nil
	default:
		return fmt.Errorf("unknown type: %q", e.Type)
	}
}

// ---- Payloads ----

// HelloPayload authenticates the connection with a bearer session token.
type HelloPayload struct {
	Token string `json:"token"`
}

// HelloAckPayload confirms the authenticated identity.
type HelloAckPayload struct {
	DID    string `json:"did"`
	Handle string `json:"handle"`
}

// StatusSetPayload changes the sender's status.
type StatusSetPayload struct {
	Status      string `json:"status"`
	AwayMessage string `json:"away_message,omitempty"`
}

// RoomJoinPayload requests membership in a room; the echo carries the
// current member list.
type RoomJoinPayload struct {
	RoomID  string   `json:"room_id"`
	Members []string `json:"members,omitempty"`
}

// RoomLeavePayload leaves a room.
type RoomLeavePayload struct {
	RoomID string `json:"room_id"`
}

// RoomMessagePayload carries a room chat message.
type RoomMessagePayload struct {
	RoomID string `json:"room_id"`
	Sender string `json:"sender,omitempty"`
	Text   string `json:"text"`
}

// PresenceFetchPayload requests presence for up to 100 DIDs.
type PresenceFetchPayload struct {
	DIDs []string `json:"dids"`
}

// PresenceResultPayload returns a presence per requested DID, filtered by
// each target's visibility setting with respect to the viewer.
type PresenceResultPayload struct {
	Presences map[string]Presence `json:"presences"`
}

// RTCSignalPayload is the shared shape for offer/answer/candidate/hangup.
// Signal is opaque to the server; it is relayed verbatim to the other
// participant of the conversation.
type RTCSignalPayload struct {
	ConversationID string          `json:"conversation_id"`
	To             string          `json:"to,omitempty"`
	From           string          `json:"from,omitempty"`
	Signal         json.RawMessage `json:"signal,omitempty"`
}

// ErrorPayload is a generic error response payload.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
