package server

// ============================================================================
// ERROR NOTIFICATIONS (SocketError / GameError)
// ============================================================================

type SocketErrorNotification struct {
	EventName string `json:"eventName"`
	Message   string `json:"message"`
}

type GameErrorNotification struct {
	GameID    string `json:"gameID"`
	EventName string `json:"eventName"`
	Message   string `json:"message"`
}

// ============================================================================
// COMMAND PAYLOADS (inbound)
// ============================================================================

type StartGameRequest struct {
	PlayerName string `json:"playerName"`
	PointScale string `json:"pointScale"`
}

type FindGameRequest struct {
	PlayerName string `json:"playerName"`
	GameToken  string `json:"gameToken"`
}

type StartRoundRequest struct {
	GameID    string `json:"gameID"`
	StoryName string `json:"storyName"`
}

type PlayACardRequest struct {
	GameID    string `json:"gameID"`
	FaceValue string `json:"faceValue"`
}

type ReplayRoundRequest struct {
	GameID    string `json:"gameID"`
	StoryName string `json:"storyName"`
}

type ScoreRoundRequest struct {
	GameID    string `json:"gameID"`
	FaceValue string `json:"faceValue"`
}

type EndGameRequest struct {
	GameID string `json:"gameID"`
}

// ============================================================================
// GAME VIEW (personalized per recipient)
// ============================================================================

// GameView is the session state as one recipient is allowed to see it: their
// own hand face-up, and played cards face-down unless the card is theirs or
// the round has ended.
type GameView struct {
	GameID      string           `json:"gameID"`
	GameToken   string           `json:"gameToken"`
	GameMaster  string           `json:"gameMaster"`
	Players     []string         `json:"players"`
	WaitingList []string         `json:"waitingList"`
	Hand        []string         `json:"hand"`
	PlayedCards []PlayedCardView `json:"playedCards"`
}

type PlayedCardView struct {
	PlayerName string `json:"playerName"`
	FaceValue  string `json:"faceValue,omitempty"`
	FaceDown   bool   `json:"faceDown"`
}

// ============================================================================
// NOTIFICATIONS (outbound)
// ============================================================================

type PlayerJoinedNotification struct {
	PlayerName    string `json:"playerName"`
	OnWaitingList bool   `json:"onWaitingList"`
}

type PlayerQuitNotification struct {
	PlayerName string `json:"playerName"`
}

type RoundStartedNotification struct {
	StoryName string   `json:"storyName"`
	Game      GameView `json:"game"`
}

type PlayerPlayedACardNotification struct {
	PlayerName string   `json:"playerName"`
	Game       GameView `json:"game"`
}

type RoundScoredNotification struct {
	StoryName  string `json:"storyName"`
	PointValue int    `json:"pointValue"`
}

type GameEndedNotification struct {
	Scoreboard []string `json:"scoreboard"`
}
