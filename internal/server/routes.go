package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
)

func (s *Server) RegisterRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.rootHandler)
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/websocket", s.websocketHandler)

	return s.corsMiddleware(mux)
}

func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"service": "planning-game-server"})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]any{
		"status":      "up",
		"connections": s.connections.Count(),
		"games":       s.sessions.Count(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		s.log.Warn("failed to write response", slog.Any("error", err))
	}
}

// websocketHandler is the per-connection entry point: identity on connect,
// one envelope routed at a time in arrival order, quit cleanup on close.
func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"}, // TODO: restrict to configured origins for production deploys
	})
	if err != nil {
		http.Error(w, "Failed to open websocket", http.StatusInternalServerError)
		return
	}
	defer conn.Close(websocket.StatusGoingAway, "Server closing")

	ctx := r.Context()
	socket := NewWebSocket(conn)
	connectionID := s.connections.Register(socket)
	s.log.Info("connection opened", slog.String("conn", connectionID))

	defer func() {
		s.connections.Unregister(socket)
		s.limiter.Forget(connectionID)
		s.router.HandleDisconnect(r.Context(), connectionID)
		s.log.Info("connection closed", slog.String("conn", connectionID))
	}()

	// Identity handshake: the client learns its connection id immediately.
	handshake, err := EncodeEnvelope(connectionID, EventConnect, nil)
	if err != nil {
		s.log.Error("failed to encode handshake", slog.Any("error", err))
		return
	}
	if err := socket.Write(ctx, handshake); err != nil {
		s.log.Warn("failed to send handshake", slog.String("conn", connectionID), slog.Any("error", err))
		return
	}

	for {
		msgType, data, err := conn.Read(ctx)
		if err != nil {
			s.log.Debug("connection read ended",
				slog.String("conn", connectionID), slog.Any("error", err))
			return
		}
		if msgType != websocket.MessageText {
			s.log.Warn("ignoring non-text frame", slog.String("conn", connectionID))
			continue
		}

		if !s.limiter.Allow(connectionID) {
			s.notifier.SocketError(ctx, connectionID, "", "Too many messages, slow down")
			continue
		}

		env, err := DecodeEnvelope(data)
		if err != nil {
			s.notifier.SocketError(ctx, connectionID, "", "Invalid message envelope")
			continue
		}

		// The registry-assigned identity is authoritative, whatever the
		// client echoed.
		env.ClientID = connectionID
		s.router.Route(ctx, connectionID, env)
	}
}
