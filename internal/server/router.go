package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"planning-game-server/internal/game"
)

// Client-facing messages for the fixed failure conditions.
const (
	msgUnroutableEvent        = "Event has no route"
	msgGameMasterNameRequired = "Game master name is required"
	msgPlayerNameRequired     = "Player name is required"
	msgPointScaleRequired     = "Point scale is required"
	msgStoryNameRequired      = "Story name is required"
	msgFaceValueRequired      = "Card face value is required"
	msgGameNotFound           = "Game session was not found"
	msgPlayerNotInGame        = "Player is not part of this game"
	msgAlreadyInGame          = "Connection already belongs to an active game"
	msgUnexpected             = "An unexpected error occurred"
)

var nonNameCharacters = regexp.MustCompile(`[^a-zA-Z0-9\s]`)

// sanitizeName strips everything but alphanumerics and whitespace, then
// trims. Blank results fail the non-blank validations.
func sanitizeName(name string) string {
	return strings.TrimSpace(nonNameCharacters.ReplaceAllString(name, ""))
}

// EventRouter receives one decoded inbound envelope per call, validates and
// decodes its payload, drives the session registry, and fans the resulting
// notifications out to the right audience with the right per-recipient view.
type EventRouter struct {
	connections *ConnectionRegistry
	sessions    *SessionRegistry
	notifier    *ErrorNotifier
	log         *slog.Logger
}

func NewEventRouter(connections *ConnectionRegistry, sessions *SessionRegistry, notifier *ErrorNotifier, log *slog.Logger) *EventRouter {
	return &EventRouter{
		connections: connections,
		sessions:    sessions,
		notifier:    notifier,
		log:         log,
	}
}

// Route dispatches one inbound envelope. Unknown tags get a SocketError and
// no session lookup.
func (r *EventRouter) Route(ctx context.Context, connectionID string, env Envelope) {
	r.log.Debug("routing event",
		slog.String("conn", connectionID),
		slog.String("event", env.EventName))

	switch env.EventName {
	case EventStartGame:
		r.handleStartGame(ctx, connectionID, env)
	case EventFindGame:
		r.handleFindGame(ctx, connectionID, env)
	case EventStartRound:
		r.handleStartRound(ctx, connectionID, env)
	case EventPlayACard:
		r.handlePlayACard(ctx, connectionID, env)
	case EventReplayRound:
		r.handleReplayRound(ctx, connectionID, env)
	case EventScoreRound:
		r.handleScoreRound(ctx, connectionID, env)
	case EventEndGame:
		r.handleEndGame(ctx, connectionID, env)
	default:
		r.notifier.SocketError(ctx, connectionID, env.EventName, msgUnroutableEvent)
	}
}

func (r *EventRouter) handleStartGame(ctx context.Context, connectionID string, env Envelope) {
	var req StartGameRequest
	if err := env.DecodePayload(&req); err != nil {
		r.notifier.SocketError(ctx, connectionID, env.EventName, "Invalid StartGame payload")
		return
	}

	name := sanitizeName(req.PlayerName)
	if name == "" {
		r.notifier.SocketError(ctx, connectionID, env.EventName, msgGameMasterNameRequired)
		return
	}
	scale, ok := game.ParsePointScale(req.PointScale)
	if !ok {
		r.notifier.SocketError(ctx, connectionID, env.EventName, msgPointScaleRequired)
		return
	}

	joinCode, err := GenerateJoinCode(r.sessions.ActiveJoinCodes(), maxJoinCodeAttempts)
	if err != nil {
		r.reportUnexpected(ctx, connectionID, "", env.EventName, err)
		return
	}

	owner := game.Player{Name: name}
	sessionID, err := r.sessions.Create(connectionID, owner, game.NewGame(name, scale), joinCode)
	if err != nil {
		if errors.Is(err, ErrAlreadyInSession) {
			r.notifier.SocketError(ctx, connectionID, env.EventName, msgAlreadyInGame)
			return
		}
		r.reportUnexpected(ctx, connectionID, "", env.EventName, err)
		return
	}

	session, err := r.sessions.FindBySessionID(sessionID)
	if err != nil {
		r.reportUnexpected(ctx, connectionID, sessionID, env.EventName, err)
		return
	}

	r.log.Info("game started",
		slog.String("conn", connectionID),
		slog.String("game", sessionID),
		slog.String("joinCode", joinCode))
	r.sendEvent(ctx, connectionID, EventGameStarted, buildGameView(session, name))
}

func (r *EventRouter) handleFindGame(ctx context.Context, connectionID string, env Envelope) {
	var req FindGameRequest
	if err := env.DecodePayload(&req); err != nil {
		r.notifier.SocketError(ctx, connectionID, env.EventName, "Invalid FindGame payload")
		return
	}

	name := sanitizeName(req.PlayerName)
	if name == "" {
		r.notifier.SocketError(ctx, connectionID, env.EventName, msgPlayerNameRequired)
		return
	}

	joinCode := NormalizeJoinCode(req.GameToken)
	if err := ValidateJoinCode(joinCode); err != nil {
		r.notifier.SocketError(ctx, connectionID, env.EventName, err.Error())
		return
	}
	found, err := r.sessions.FindByJoinCode(joinCode)
	if err != nil {
		r.notifier.SocketError(ctx, connectionID, env.EventName,
			fmt.Sprintf("No game found for game token: %s", joinCode))
		return
	}

	player := game.Player{Name: name}
	session, err := r.sessions.AddParticipant(found.ID, connectionID, player)
	if err != nil {
		r.reportFailure(ctx, connectionID, found.ID, env.EventName, err)
		return
	}

	r.log.Info("player joined",
		slog.String("conn", connectionID),
		slog.String("game", session.ID),
		slog.String("player", name))
	r.sendEvent(ctx, connectionID, EventGameFound, buildGameView(session, name))

	joined := PlayerJoinedNotification{
		PlayerName:    name,
		OnWaitingList: session.Game.OnWaitingList(name),
	}
	others, err := r.sessions.OtherParticipants(session.ID, player)
	if err != nil {
		r.log.Warn("failed to resolve audience", slog.String("game", session.ID), slog.Any("error", err))
		return
	}
	for _, part := range others {
		r.sendEvent(ctx, part.ConnectionID, EventPlayerJoined, joined)
	}
}

func (r *EventRouter) handleStartRound(ctx context.Context, connectionID string, env Envelope) {
	var req StartRoundRequest
	if err := env.DecodePayload(&req); err != nil {
		r.notifier.SocketError(ctx, connectionID, env.EventName, "Invalid StartRound payload")
		return
	}

	story := strings.TrimSpace(req.StoryName)
	if story == "" {
		r.reportValidation(ctx, connectionID, req.GameID, env.EventName, msgStoryNameRequired)
		return
	}

	session, err := r.sessions.Mutate(req.GameID, func(g *game.Game) error {
		return g.StartRound(game.Round{StoryName: story})
	})
	if err != nil {
		r.reportFailure(ctx, connectionID, req.GameID, env.EventName, err)
		return
	}

	r.log.Info("round started",
		slog.String("game", session.ID),
		slog.String("story", story))
	r.broadcastPersonalized(ctx, session, func(view GameView) (string, any) {
		return EventRoundStarted, RoundStartedNotification{StoryName: story, Game: view}
	})
}

func (r *EventRouter) handlePlayACard(ctx context.Context, connectionID string, env Envelope) {
	var req PlayACardRequest
	if err := env.DecodePayload(&req); err != nil {
		r.notifier.SocketError(ctx, connectionID, env.EventName, "Invalid PlayACard payload")
		return
	}

	face, ok := game.ParseFaceValue(req.FaceValue)
	if !ok {
		r.reportValidation(ctx, connectionID, req.GameID, env.EventName, msgFaceValueRequired)
		return
	}

	player, err := r.sessions.Participant(req.GameID, connectionID)
	if err != nil {
		r.reportFailure(ctx, connectionID, req.GameID, env.EventName, err)
		return
	}

	session, err := r.sessions.Mutate(req.GameID, func(g *game.Game) error {
		return g.PlayACard(player, game.Card{FaceValue: face})
	})
	if err != nil {
		r.reportFailure(ctx, connectionID, req.GameID, env.EventName, err)
		return
	}

	r.broadcastPersonalized(ctx, session, func(view GameView) (string, any) {
		return EventPlayerPlayedACard, PlayerPlayedACardNotification{
			PlayerName: player.Name,
			Game:       view,
		}
	})
}

func (r *EventRouter) handleReplayRound(ctx context.Context, connectionID string, env Envelope) {
	var req ReplayRoundRequest
	if err := env.DecodePayload(&req); err != nil {
		r.notifier.SocketError(ctx, connectionID, env.EventName, "Invalid ReplayRound payload")
		return
	}

	session, err := r.sessions.Mutate(req.GameID, func(g *game.Game) error {
		return g.ReplayRound()
	})
	if err != nil {
		r.reportFailure(ctx, connectionID, req.GameID, env.EventName, err)
		return
	}

	round, _ := session.Game.CurrentRound()
	r.log.Info("round replayed",
		slog.String("game", session.ID),
		slog.String("story", round.StoryName))
	r.broadcastPersonalized(ctx, session, func(view GameView) (string, any) {
		return EventRoundStarted, RoundStartedNotification{StoryName: round.StoryName, Game: view}
	})
}

func (r *EventRouter) handleScoreRound(ctx context.Context, connectionID string, env Envelope) {
	var req ScoreRoundRequest
	if err := env.DecodePayload(&req); err != nil {
		r.notifier.SocketError(ctx, connectionID, env.EventName, "Invalid ScoreRound payload")
		return
	}

	face, ok := game.ParseFaceValue(req.FaceValue)
	if !ok {
		r.reportValidation(ctx, connectionID, req.GameID, env.EventName, msgFaceValueRequired)
		return
	}

	session, err := r.sessions.Mutate(req.GameID, func(g *game.Game) error {
		return g.ScoreRound(game.Card{FaceValue: face})
	})
	if err != nil {
		r.reportFailure(ctx, connectionID, req.GameID, env.EventName, err)
		return
	}

	round, _ := session.Game.CurrentRound()
	r.log.Info("round scored",
		slog.String("game", session.ID),
		slog.String("story", round.StoryName),
		slog.Int("points", round.PointValue))
	r.broadcastUniform(ctx, session.ID, EventRoundScored, RoundScoredNotification{
		StoryName:  round.StoryName,
		PointValue: round.PointValue,
	})
}

func (r *EventRouter) handleEndGame(ctx context.Context, connectionID string, env Envelope) {
	var req EndGameRequest
	if err := env.DecodePayload(&req); err != nil {
		r.notifier.SocketError(ctx, connectionID, env.EventName, "Invalid EndGame payload")
		return
	}

	session, err := r.sessions.FindBySessionID(req.GameID)
	if err != nil {
		r.reportFailure(ctx, connectionID, req.GameID, env.EventName, err)
		return
	}

	r.log.Info("game ended", slog.String("game", session.ID))
	r.broadcastUniform(ctx, session.ID, EventGameEnded, GameEndedNotification{
		Scoreboard: session.Game.Scoreboard(),
	})
	if err := r.sessions.Remove(session.ID); err != nil {
		r.log.Warn("failed to remove session", slog.String("game", session.ID), slog.Any("error", err))
	}
}

// HandleDisconnect runs the player-quit policy for a closed connection: an
// owner's exit ends the whole game, anyone else just leaves the roster.
func (r *EventRouter) HandleDisconnect(ctx context.Context, connectionID string) {
	session, err := r.sessions.FindByConnection(connectionID)
	if err != nil {
		return // connection was not in a session
	}

	player, err := r.sessions.Participant(session.ID, connectionID)
	if err != nil {
		r.log.Warn("disconnected participant missing from roster",
			slog.String("conn", connectionID), slog.String("game", session.ID))
		return
	}

	if player.Name == session.Game.GameMaster.Name {
		r.log.Info("game master quit, ending game",
			slog.String("game", session.ID), slog.String("player", player.Name))
		r.broadcastUniform(ctx, session.ID, EventGameEnded, GameEndedNotification{
			Scoreboard: session.Game.Scoreboard(),
		})
		if err := r.sessions.Remove(session.ID); err != nil {
			r.log.Warn("failed to remove session", slog.String("game", session.ID), slog.Any("error", err))
		}
		return
	}

	if err := r.sessions.RemoveParticipant(session.ID, connectionID); err != nil {
		r.log.Warn("failed to remove participant",
			slog.String("conn", connectionID), slog.String("game", session.ID), slog.Any("error", err))
		return
	}

	r.log.Info("player quit",
		slog.String("game", session.ID), slog.String("player", player.Name))
	r.broadcastUniform(ctx, session.ID, EventPlayerQuit, PlayerQuitNotification{
		PlayerName: player.Name,
	})
}

// reportFailure maps registry and rules-engine failures onto their fixed
// session-scoped messages; anything unrecognized is logged and reported
// generically.
func (r *EventRouter) reportFailure(ctx context.Context, connectionID, gameID, eventName string, err error) {
	if msg, ok := ruleMessage(err); ok {
		r.notifier.GameError(ctx, connectionID, gameID, eventName, msg)
		return
	}
	switch {
	case errors.Is(err, ErrSessionNotFound):
		r.notifier.GameError(ctx, connectionID, gameID, eventName, msgGameNotFound)
	case errors.Is(err, ErrParticipantNotFound):
		r.notifier.GameError(ctx, connectionID, gameID, eventName, msgPlayerNotInGame)
	case errors.Is(err, ErrAlreadyInSession):
		r.notifier.GameError(ctx, connectionID, gameID, eventName, msgAlreadyInGame)
	default:
		r.reportUnexpected(ctx, connectionID, gameID, eventName, err)
	}
}

// reportValidation addresses a precondition failure with the best context
// available: session-scoped when the payload named a game, connection-scoped
// otherwise.
func (r *EventRouter) reportValidation(ctx context.Context, connectionID, gameID, eventName, message string) {
	if gameID == "" {
		r.notifier.SocketError(ctx, connectionID, eventName, message)
		return
	}
	r.notifier.GameError(ctx, connectionID, gameID, eventName, message)
}

func (r *EventRouter) reportUnexpected(ctx context.Context, connectionID, gameID, eventName string, err error) {
	r.log.Error("unexpected error",
		slog.String("conn", connectionID),
		slog.String("game", gameID),
		slog.String("event", eventName),
		slog.Any("error", err))

	if gameID != "" {
		r.notifier.GameError(ctx, connectionID, gameID, eventName, msgUnexpected)
		return
	}
	r.notifier.SocketError(ctx, connectionID, eventName, msgUnexpected)
}

// ruleMessage translates the rules engine's named failures into the fixed
// human-readable protocol messages.
func ruleMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, game.ErrPlayerNameTaken):
		return "A player with that name has already joined the game", true
	case errors.Is(err, game.ErrDuplicateRoundName):
		return "Game round names must be unique", true
	case errors.Is(err, game.ErrNoPlayersJoined):
		return "Cannot start a round until at least one player joins the game", true
	case errors.Is(err, game.ErrRoundNotScored):
		return "Current round must be scored before starting a new round", true
	case errors.Is(err, game.ErrNoActiveRound):
		return "There is no active game round", true
	case errors.Is(err, game.ErrRoundEnded):
		return "Cannot play cards after game round has ended", true
	case errors.Is(err, game.ErrRoundAlreadyScored):
		return "Cannot replay rounds that have been scored", true
	case errors.Is(err, game.ErrRoundNotEnded):
		return "Cannot score the round until all players have played a card", true
	}
	return "", false
}

// sendEvent delivers one event to one connection. A recipient that cannot
// be resolved or written to is logged and skipped; it never aborts the rest
// of an audience.
func (r *EventRouter) sendEvent(ctx context.Context, connectionID, eventName string, payload any) {
	data, err := EncodeEnvelope(connectionID, eventName, payload)
	if err != nil {
		r.log.Error("failed to encode event",
			slog.String("event", eventName), slog.Any("error", err))
		return
	}

	socket, err := r.connections.ConnectionOf(connectionID)
	if err != nil {
		r.log.Warn("skipping disconnected recipient",
			slog.String("conn", connectionID), slog.String("event", eventName))
		return
	}
	if err := socket.Write(ctx, data); err != nil {
		r.log.Warn("failed to deliver event",
			slog.String("conn", connectionID), slog.String("event", eventName), slog.Any("error", err))
	}
}

// broadcastPersonalized sends to every current participant, building each
// recipient's payload from their own view of the session.
func (r *EventRouter) broadcastPersonalized(ctx context.Context, session Session, build func(view GameView) (string, any)) {
	participants, err := r.sessions.AllParticipants(session.ID)
	if err != nil {
		r.log.Warn("failed to resolve audience", slog.String("game", session.ID), slog.Any("error", err))
		return
	}
	for _, part := range participants {
		eventName, payload := build(buildGameView(session, part.Player.Name))
		r.sendEvent(ctx, part.ConnectionID, eventName, payload)
	}
}

// broadcastUniform sends one identical payload to every current participant.
func (r *EventRouter) broadcastUniform(ctx context.Context, sessionID, eventName string, payload any) {
	participants, err := r.sessions.AllParticipants(sessionID)
	if err != nil {
		r.log.Warn("failed to resolve audience", slog.String("game", sessionID), slog.Any("error", err))
		return
	}
	for _, part := range participants {
		r.sendEvent(ctx, part.ConnectionID, eventName, payload)
	}
}

// buildGameView computes the session state as the named recipient may see
// it: their own hand, and each played card face-up only when it is theirs or
// the round has ended.
func buildGameView(session Session, recipient string) GameView {
	g := session.Game
	view := GameView{
		GameID:      session.ID,
		GameToken:   session.JoinCode,
		GameMaster:  g.GameMaster.Name,
		Players:     g.PlayerNames(),
		WaitingList: g.WaitingNames(),
		Hand:        faceValues(g.HandOf(recipient)),
		PlayedCards: []PlayedCardView{},
	}

	round, ok := g.CurrentRound()
	if !ok {
		return view
	}
	revealed := g.RoundEnded()
	for _, pc := range round.PlayedCards {
		card := PlayedCardView{PlayerName: pc.PlayerName}
		if revealed || pc.PlayerName == recipient {
			card.FaceValue = pc.Card.FaceValue.String()
		} else {
			card.FaceDown = true
		}
		view.PlayedCards = append(view.PlayedCards, card)
	}
	return view
}

func faceValues(cards []game.Card) []string {
	faces := make([]string, 0, len(cards))
	for _, card := range cards {
		faces = append(faces, card.FaceValue.String())
	}
	return faces
}
