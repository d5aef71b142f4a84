package game

import "errors"

// The fixed failure conditions the session layer maps onto client-facing
// messages. Matched with errors.Is.
var (
	ErrPlayerNameTaken    = errors.New("a player with that name has already joined")
	ErrPlayerNotFound     = errors.New("player is not part of this game")
	ErrDuplicateRoundName = errors.New("round names must be unique")
	ErrNoPlayersJoined    = errors.New("no players have joined the game")
	ErrRoundNotScored     = errors.New("current round has not been scored")
	ErrNoActiveRound      = errors.New("there is no active round")
	ErrRoundEnded         = errors.New("round has already ended")
	ErrRoundAlreadyScored = errors.New("round has already been scored")
	ErrRoundNotEnded      = errors.New("not all players have played a card")
	ErrCardNotInHand      = errors.New("card is not in the player's hand")
)
