package server

import (
	"encoding/json"
	"fmt"
)

// Inbound command tags. The set is closed; anything else is unroutable.
const (
	EventStartGame   = "StartGame"
	EventFindGame    = "FindGame"
	EventStartRound  = "StartRound"
	EventPlayACard   = "PlayACard"
	EventReplayRound = "ReplayRound"
	EventScoreRound  = "ScoreRound"
	EventEndGame     = "EndGame"
)

// Outbound event tags.
const (
	EventConnect           = "Connect"
	EventGameStarted       = "GameStarted"
	EventGameFound         = "GameFound"
	EventPlayerJoined      = "PlayerJoined"
	EventPlayerQuit        = "PlayerQuit"
	EventRoundStarted      = "RoundStarted"
	EventPlayerPlayedACard = "PlayerPlayedACard"
	EventRoundScored       = "RoundScored"
	EventGameEnded         = "GameEnded"
	EventSocketError       = "SocketError"
	EventGameError         = "GameError"
)

// Envelope is the wire message. The nested payload travels as a
// JSON-encoded string whose shape depends on the event name.
type Envelope struct {
	ClientID  string `json:"clientID"`
	EventName string `json:"eventName"`
	Event     string `json:"event"`
}

// DecodeError marks envelope or payload decode failures so callers can tell
// malformed input apart from domain validation errors.
type DecodeError struct {
	EventName string
	Err       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.EventName, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, &DecodeError{EventName: "envelope", Err: err}
	}
	return env, nil
}

// EncodeEnvelope wraps a payload for the wire. A nil payload produces an
// empty event string, as the Connect handshake requires.
func EncodeEnvelope(clientID, eventName string, payload any) ([]byte, error) {
	event := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", eventName, err)
		}
		event = string(data)
	}
	return json.Marshal(Envelope{
		ClientID:  clientID,
		EventName: eventName,
		Event:     event,
	})
}

// DecodePayload unmarshals the nested payload into a typed command shape.
func (e Envelope) DecodePayload(v any) error {
	if err := json.Unmarshal([]byte(e.Event), v); err != nil {
		return &DecodeError{EventName: e.EventName, Err: err}
	}
	return nil
}
