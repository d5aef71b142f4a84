package server

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"planning-game-server/internal/game"
)

var (
	ErrSessionNotFound     = errors.New("SESSION_NOT_FOUND: no such game session")
	ErrParticipantNotFound = errors.New("PARTICIPANT_NOT_FOUND: participant is not in the session")
	ErrDuplicateJoinCode   = errors.New("DUPLICATE_JOIN_CODE: join code is already active")
	ErrAlreadyInSession    = errors.New("ALREADY_IN_SESSION: connection already belongs to a session")
)

// Session is one in-progress game. The registry owns the engine value and
// replaces it wholesale on every committed mutation.
type Session struct {
	ID        string
	JoinCode  string
	Game      game.Game
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Participant pairs a connection identity with the player the rules engine
// knows it as. Players are keyed by name; the registry rejects duplicate
// names at join time so the pairing stays unambiguous.
type Participant struct {
	ConnectionID string
	Player       game.Player
}

// sessionEntry serializes all mutations of one session behind its own mutex
// so concurrent commands on the same session cannot interleave. Different
// sessions never contend.
type sessionEntry struct {
	mu           sync.Mutex
	session      Session
	participants []Participant
}

// snapshotLocked copies the session with a deep-cloned game value. Callers
// must hold e.mu.
func (e *sessionEntry) snapshotLocked() Session {
	s := e.session
	s.Game = s.Game.Clone()
	return s
}

// SessionRegistry indexes every live session three ways: by session id, by
// join code, and by participant connection. The outer mutex guards only the
// index maps; per-session state is guarded by each entry's mutex.
type SessionRegistry struct {
	entries map[string]*sessionEntry // sessionID → session state
	byCode  map[string]string        // joinCode → sessionID
	byConn  map[string]string        // connectionID → sessionID
	mu      sync.RWMutex
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		entries: make(map[string]*sessionEntry),
		byCode:  make(map[string]string),
		byConn:  make(map[string]string),
	}
}

// Create stores a new session with the owner as sole participant and indexes
// it under all three keys. The caller is expected to have generated the join
// code against ActiveJoinCodes; ErrDuplicateJoinCode is the consistency
// backstop, not the uniqueness mechanism.
func (sr *SessionRegistry) Create(ownerConnectionID string, owner game.Player, g game.Game, joinCode string) (string, error) {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	if _, taken := sr.byCode[joinCode]; taken {
		return "", ErrDuplicateJoinCode
	}
	if _, busy := sr.byConn[ownerConnectionID]; busy {
		return "", ErrAlreadyInSession
	}

	now := time.Now()
	sessionID := uuid.New().String()
	sr.entries[sessionID] = &sessionEntry{
		session: Session{
			ID:        sessionID,
			JoinCode:  joinCode,
			Game:      g.Clone(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		participants: []Participant{{ConnectionID: ownerConnectionID, Player: owner}},
	}
	sr.byCode[joinCode] = sessionID
	sr.byConn[ownerConnectionID] = sessionID
	return sessionID, nil
}

func (sr *SessionRegistry) entry(sessionID string) (*sessionEntry, error) {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	entry, ok := sr.entries[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return entry, nil
}

func (sr *SessionRegistry) FindBySessionID(sessionID string) (Session, error) {
	entry, err := sr.entry(sessionID)
	if err != nil {
		return Session{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.snapshotLocked(), nil
}

func (sr *SessionRegistry) FindByJoinCode(joinCode string) (Session, error) {
	sr.mu.RLock()
	sessionID, ok := sr.byCode[joinCode]
	sr.mu.RUnlock()

	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return sr.FindBySessionID(sessionID)
}

func (sr *SessionRegistry) FindByConnection(connectionID string) (Session, error) {
	sr.mu.RLock()
	sessionID, ok := sr.byConn[connectionID]
	sr.mu.RUnlock()

	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return sr.FindBySessionID(sessionID)
}

// AddParticipant runs the engine's add-player mutation and, on success,
// updates both the roster and the connection index, returning the committed
// snapshot. A connection may belong to at most one session at a time;
// joining while already indexed fails with ErrAlreadyInSession.
func (sr *SessionRegistry) AddParticipant(sessionID, connectionID string, player game.Player) (Session, error) {
	entry, err := sr.entry(sessionID)
	if err != nil {
		return Session{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	next := entry.session.Game.Clone()
	if err := next.AddPlayer(player); err != nil {
		return Session{}, err
	}

	// Session could have been removed, or the connection claimed elsewhere,
	// while we waited on the entry lock.
	sr.mu.Lock()
	if _, live := sr.entries[sessionID]; !live {
		sr.mu.Unlock()
		return Session{}, ErrSessionNotFound
	}
	if _, busy := sr.byConn[connectionID]; busy {
		sr.mu.Unlock()
		return Session{}, ErrAlreadyInSession
	}
	sr.byConn[connectionID] = sessionID
	sr.mu.Unlock()

	entry.session.Game = next
	entry.session.UpdatedAt = time.Now()
	entry.participants = append(entry.participants, Participant{
		ConnectionID: connectionID,
		Player:       player,
	})
	return entry.snapshotLocked(), nil
}

// RemoveParticipant drops one participant from the roster and the connection
// index. The session itself stays; removing it when the owner leaves is the
// caller's policy decision.
func (sr *SessionRegistry) RemoveParticipant(sessionID, connectionID string) error {
	entry, err := sr.entry(sessionID)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	idx := -1
	for i, part := range entry.participants {
		if part.ConnectionID == connectionID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrParticipantNotFound
	}

	next := entry.session.Game.Clone()
	next.RemovePlayer(entry.participants[idx].Player)

	entry.session.Game = next
	entry.session.UpdatedAt = time.Now()
	entry.participants = append(entry.participants[:idx], entry.participants[idx+1:]...)

	sr.mu.Lock()
	delete(sr.byConn, connectionID)
	sr.mu.Unlock()
	return nil
}

// Participant returns the player a connection is registered as in a session.
func (sr *SessionRegistry) Participant(sessionID, connectionID string) (game.Player, error) {
	entry, err := sr.entry(sessionID)
	if err != nil {
		return game.Player{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	for _, part := range entry.participants {
		if part.ConnectionID == connectionID {
			return part.Player, nil
		}
	}
	return game.Player{}, ErrParticipantNotFound
}

// OtherParticipants lists every participant whose player differs from the
// given one, in registry insertion order.
func (sr *SessionRegistry) OtherParticipants(sessionID string, player game.Player) ([]Participant, error) {
	all, err := sr.AllParticipants(sessionID)
	if err != nil {
		return nil, err
	}

	others := make([]Participant, 0, len(all))
	for _, part := range all {
		if part.Player.Name != player.Name {
			others = append(others, part)
		}
	}
	return others, nil
}

func (sr *SessionRegistry) AllParticipants(sessionID string) ([]Participant, error) {
	entry, err := sr.entry(sessionID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	out := make([]Participant, len(entry.participants))
	copy(out, entry.participants)
	return out, nil
}

// ActiveJoinCodes snapshots the codes currently in use, in the shape the
// join-code generator consumes.
func (sr *SessionRegistry) ActiveJoinCodes() map[string]bool {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	used := make(map[string]bool, len(sr.byCode))
	for code := range sr.byCode {
		used[code] = true
	}
	return used
}

// Mutate is the general update path: fetch the current engine value, apply
// the transition to a deep copy, reconcile the roster against the result,
// and commit only if everything succeeded. On any error the stored value is
// untouched. Mutations on the same session are serialized; different
// sessions proceed independently.
func (sr *SessionRegistry) Mutate(sessionID string, fn func(*game.Game) error) (Session, error) {
	entry, err := sr.entry(sessionID)
	if err != nil {
		return Session{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	next := entry.session.Game.Clone()
	if err := fn(&next); err != nil {
		return Session{}, err
	}

	reconciled, err := reconcileRoster(entry.participants, next)
	if err != nil {
		return Session{}, err
	}

	entry.session.Game = next
	entry.session.UpdatedAt = time.Now()
	entry.participants = reconciled
	return entry.snapshotLocked(), nil
}

// reconcileRoster refreshes every participant's player from the mutated
// engine value. The owner's identity is taken from the engine as-is (engine
// operations may refresh owner-held state such as a dealt hand); everyone
// else must still be findable by name, or the mutation is rejected.
func reconcileRoster(participants []Participant, g game.Game) ([]Participant, error) {
	out := make([]Participant, len(participants))
	for i, part := range participants {
		switch {
		case part.Player.Name == g.GameMaster.Name:
			part.Player = g.GameMaster
		default:
			player, ok := g.FindPlayer(part.Player.Name)
			if !ok {
				return nil, ErrParticipantNotFound
			}
			part.Player = player
		}
		out[i] = part
	}
	return out, nil
}

// Remove deletes the session, its join code, and every connection index
// entry pointing at it.
func (sr *SessionRegistry) Remove(sessionID string) error {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	entry, ok := sr.entries[sessionID]
	if !ok {
		return ErrSessionNotFound
	}

	delete(sr.entries, sessionID)
	delete(sr.byCode, entry.session.JoinCode)
	for connectionID, id := range sr.byConn {
		if id == sessionID {
			delete(sr.byConn, connectionID)
		}
	}
	return nil
}

// Count reports how many sessions are live.
func (sr *SessionRegistry) Count() int {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	return len(sr.entries)
}
