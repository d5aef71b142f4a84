package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Server wires the explicitly constructed registries into the router. All
// state is process-local; nothing survives a restart.
type Server struct {
	config      Config
	log         *slog.Logger
	connections *ConnectionRegistry
	sessions    *SessionRegistry
	notifier    *ErrorNotifier
	router      *EventRouter
	limiter     *RateLimiter
}

func NewServer(cfg Config, log *slog.Logger) (*Server, *http.Server) {
	connections := NewConnectionRegistry()
	sessions := NewSessionRegistry()
	notifier := NewErrorNotifier(connections, log)

	s := &Server{
		config:      cfg,
		log:         log,
		connections: connections,
		sessions:    sessions,
		notifier:    notifier,
		router:      NewEventRouter(connections, sessions, notifier, log),
		limiter:     NewRateLimiter(cfg.MessageRate, cfg.MessageInterval),
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s, httpServer
}
