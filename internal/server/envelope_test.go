package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeEnvelopeRoundTrip(t *testing.T) {
	data, err := EncodeEnvelope("client-1", EventStartGame, StartGameRequest{
		PlayerName: "GM",
		PointScale: "linear",
	})
	require.NoError(t, err)

	env, err := DecodeEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, "client-1", env.ClientID)
	assert.Equal(t, EventStartGame, env.EventName)

	var req StartGameRequest
	require.NoError(t, env.DecodePayload(&req))
	assert.Equal(t, "GM", req.PlayerName)
	assert.Equal(t, "linear", req.PointScale)
}

func TestEncodeEnvelopeNilPayload(t *testing.T) {
	data, err := EncodeEnvelope("client-1", EventConnect, nil)
	require.NoError(t, err)

	env, err := DecodeEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, EventConnect, env.EventName)
	assert.Empty(t, env.Event)
}

func TestDecodeEnvelopeMalformed(t *testing.T) {
	_, err := DecodeEnvelope([]byte(`{not json`))
	require.Error(t, err)

	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestDecodePayloadMalformed(t *testing.T) {
	env := Envelope{
		ClientID:  "client-1",
		EventName: EventPlayACard,
		Event:     `{"gameID": 42}`, // wrong type for gameID
	}

	var req PlayACardRequest
	err := env.DecodePayload(&req)
	require.Error(t, err)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, EventPlayACard, decodeErr.EventName)
}

func TestDecodePayloadEmptyEvent(t *testing.T) {
	env := Envelope{EventName: EventEndGame}

	var req EndGameRequest
	err := env.DecodePayload(&req)

	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}
