package server

import (
	"context"
	"log/slog"
)

// ErrorNotifier formats and delivers addressed error events back to the
// connection that caused them, logging each with the same context it sends.
type ErrorNotifier struct {
	connections *ConnectionRegistry
	log         *slog.Logger
}

func NewErrorNotifier(connections *ConnectionRegistry, log *slog.Logger) *ErrorNotifier {
	return &ErrorNotifier{connections: connections, log: log}
}

// SocketError is the connection-scoped shape, used before any session
// context exists (unroutable events, malformed payloads).
func (n *ErrorNotifier) SocketError(ctx context.Context, connectionID, eventName, message string) {
	n.log.Warn("socket error",
		slog.String("conn", connectionID),
		slog.String("event", eventName),
		slog.String("message", message))

	n.send(ctx, connectionID, EventSocketError, SocketErrorNotification{
		EventName: eventName,
		Message:   message,
	})
}

// GameError is the session-scoped shape, used once a session id is known.
func (n *ErrorNotifier) GameError(ctx context.Context, connectionID, gameID, eventName, message string) {
	n.log.Warn("game error",
		slog.String("conn", connectionID),
		slog.String("game", gameID),
		slog.String("event", eventName),
		slog.String("message", message))

	n.send(ctx, connectionID, EventGameError, GameErrorNotification{
		GameID:    gameID,
		EventName: eventName,
		Message:   message,
	})
}

func (n *ErrorNotifier) send(ctx context.Context, connectionID, eventName string, payload any) {
	data, err := EncodeEnvelope(connectionID, eventName, payload)
	if err != nil {
		n.log.Error("failed to encode error event",
			slog.String("conn", connectionID), slog.Any("error", err))
		return
	}

	socket, err := n.connections.ConnectionOf(connectionID)
	if err != nil {
		n.log.Warn("error recipient already disconnected", slog.String("conn", connectionID))
		return
	}
	if err := socket.Write(ctx, data); err != nil {
		n.log.Warn("failed to deliver error event",
			slog.String("conn", connectionID), slog.Any("error", err))
	}
}
