package game

import (
	"fmt"
	"slices"
)

// Game is the planning-game rules engine state. It has value semantics: the
// session layer clones it, applies one mutation to the clone, and stores the
// clone back only when the mutation succeeds. Nothing in this package holds
// a lock or shares state between copies produced by Clone.
type Game struct {
	GameMaster  Player     `json:"gameMaster"`
	Players     []Player   `json:"players"`
	WaitingList []Player   `json:"waitingList"`
	Scale       PointScale `json:"pointScale"`
	Rounds      []Round    `json:"rounds"`
}

type Player struct {
	Name string `json:"name"`
	Hand []Card `json:"hand"`
}

type Round struct {
	StoryName   string       `json:"storyName"`
	PlayedCards []PlayedCard `json:"playedCards"`
	Scored      bool         `json:"scored"`
	PointValue  int          `json:"pointValue"`
}

type PlayedCard struct {
	PlayerName string `json:"playerName"`
	Card       Card   `json:"card"`
}

func NewGame(masterName string, scale PointScale) Game {
	return Game{
		GameMaster: Player{Name: masterName},
		Scale:      scale,
	}
}

// Clone deep-copies the game so a mutation on the copy can never write
// through to the previously stored value.
func (g Game) Clone() Game {
	out := g
	out.GameMaster.Hand = slices.Clone(g.GameMaster.Hand)
	out.Players = clonePlayers(g.Players)
	out.WaitingList = clonePlayers(g.WaitingList)
	out.Rounds = make([]Round, len(g.Rounds))
	for i, round := range g.Rounds {
		out.Rounds[i] = round
		out.Rounds[i].PlayedCards = slices.Clone(round.PlayedCards)
	}
	return out
}

func clonePlayers(players []Player) []Player {
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = p
		out[i].Hand = slices.Clone(p.Hand)
	}
	return out
}

// CurrentRound returns the most recently started round, if any.
func (g Game) CurrentRound() (Round, bool) {
	if len(g.Rounds) == 0 {
		return Round{}, false
	}
	return g.Rounds[len(g.Rounds)-1], true
}

// RoundActive reports whether an unscored round is in progress. Joining
// players are held on the waiting list while this is true.
func (g Game) RoundActive() bool {
	round, ok := g.CurrentRound()
	return ok && !round.Scored
}

// RoundEnded reports whether every hand holder (the game master and each
// roster player) has played a card in the current round.
func (g Game) RoundEnded() bool {
	round, ok := g.CurrentRound()
	if !ok {
		return false
	}
	if !hasPlayed(round, g.GameMaster.Name) {
		return false
	}
	for _, p := range g.Players {
		if !hasPlayed(round, p.Name) {
			return false
		}
	}
	return true
}

func hasPlayed(round Round, name string) bool {
	return slices.ContainsFunc(round.PlayedCards, func(pc PlayedCard) bool {
		return pc.PlayerName == name
	})
}

// AddPlayer joins a player. While a round is in progress the player waits on
// the waiting list without a hand; otherwise they go straight on the roster.
func (g *Game) AddPlayer(p Player) error {
	if g.knowsName(p.Name) {
		return ErrPlayerNameTaken
	}
	if g.RoundActive() {
		g.WaitingList = append(g.WaitingList, p)
		return nil
	}
	g.Players = append(g.Players, p)
	return nil
}

// RemovePlayer drops a player from the roster or waiting list, along with
// any card they played in the current unscored round. Removing an unknown
// player is a no-op.
func (g *Game) RemovePlayer(p Player) {
	g.Players = deletePlayer(g.Players, p.Name)
	g.WaitingList = deletePlayer(g.WaitingList, p.Name)

	if len(g.Rounds) == 0 {
		return
	}
	round := &g.Rounds[len(g.Rounds)-1]
	if round.Scored {
		return
	}
	round.PlayedCards = slices.DeleteFunc(round.PlayedCards, func(pc PlayedCard) bool {
		return pc.PlayerName == p.Name
	})
}

func deletePlayer(players []Player, name string) []Player {
	return slices.DeleteFunc(players, func(p Player) bool {
		return p.Name == name
	})
}

// StartRound opens a new round: the waiting list is promoted onto the
// roster and everyone, game master included, is dealt a fresh hand.
func (g *Game) StartRound(round Round) error {
	for _, existing := range g.Rounds {
		if existing.StoryName == round.StoryName {
			return ErrDuplicateRoundName
		}
	}
	if len(g.Players) == 0 && len(g.WaitingList) == 0 {
		return ErrNoPlayersJoined
	}
	if current, ok := g.CurrentRound(); ok && !current.Scored {
		return ErrRoundNotScored
	}

	g.Players = append(g.Players, g.WaitingList...)
	g.WaitingList = nil
	g.dealHands()

	round.PlayedCards = nil
	round.Scored = false
	round.PointValue = 0
	g.Rounds = append(g.Rounds, round)
	return nil
}

func (g *Game) dealHands() {
	g.GameMaster.Hand = g.Scale.Deck()
	for i := range g.Players {
		g.Players[i].Hand = g.Scale.Deck()
	}
}

// PlayACard records a player's estimate for the current round. The card
// moves from the hand to the round's played cards. Playing again before the
// round ends replaces the earlier card, which returns to the hand.
func (g *Game) PlayACard(p Player, card Card) error {
	round, ok := g.CurrentRound()
	if !ok || round.Scored {
		return ErrNoActiveRound
	}
	if g.RoundEnded() {
		return ErrRoundEnded
	}

	holder := g.handHolder(p.Name)
	if holder == nil {
		return ErrPlayerNotFound
	}

	current := &g.Rounds[len(g.Rounds)-1]
	if i := slices.IndexFunc(current.PlayedCards, func(pc PlayedCard) bool {
		return pc.PlayerName == p.Name
	}); i >= 0 {
		holder.Hand = append(holder.Hand, current.PlayedCards[i].Card)
		current.PlayedCards = slices.Delete(current.PlayedCards, i, i+1)
	}

	ci := slices.Index(holder.Hand, card)
	if ci < 0 {
		return ErrCardNotInHand
	}
	holder.Hand = slices.Delete(holder.Hand, ci, ci+1)
	current.PlayedCards = append(current.PlayedCards, PlayedCard{
		PlayerName: p.Name,
		Card:       card,
	})
	return nil
}

func (g *Game) handHolder(name string) *Player {
	if name == g.GameMaster.Name {
		return &g.GameMaster
	}
	for i := range g.Players {
		if g.Players[i].Name == name {
			return &g.Players[i]
		}
	}
	return nil
}

// ReplayRound throws away the current round's played cards and re-deals so
// the same story can be estimated again.
func (g *Game) ReplayRound() error {
	round, ok := g.CurrentRound()
	if !ok {
		return ErrNoActiveRound
	}
	if round.Scored {
		return ErrRoundAlreadyScored
	}
	g.Rounds[len(g.Rounds)-1].PlayedCards = nil
	g.dealHands()
	return nil
}

// ScoreRound closes the current round with the winning card's point value.
func (g *Game) ScoreRound(card Card) error {
	round, ok := g.CurrentRound()
	if !ok || round.Scored {
		return ErrNoActiveRound
	}
	if !g.RoundEnded() {
		return ErrRoundNotEnded
	}
	current := &g.Rounds[len(g.Rounds)-1]
	current.Scored = true
	current.PointValue = card.FaceValue.Points()
	return nil
}

func (g Game) knowsName(name string) bool {
	if name == g.GameMaster.Name {
		return true
	}
	return findPlayer(g.Players, name) != nil || findPlayer(g.WaitingList, name) != nil
}

func findPlayer(players []Player, name string) *Player {
	for i := range players {
		if players[i].Name == name {
			return &players[i]
		}
	}
	return nil
}

// FindPlayer looks a player up by name across the roster and waiting list.
// The game master is not part of either list.
func (g Game) FindPlayer(name string) (Player, bool) {
	if p := findPlayer(g.Players, name); p != nil {
		return *p, true
	}
	if p := findPlayer(g.WaitingList, name); p != nil {
		return *p, true
	}
	return Player{}, false
}

// HandOf returns the current hand of the named hand holder, nil for players
// without a hand (waiting list) and unknown names.
func (g Game) HandOf(name string) []Card {
	if name == g.GameMaster.Name {
		return g.GameMaster.Hand
	}
	if p := findPlayer(g.Players, name); p != nil {
		return p.Hand
	}
	return nil
}

// OnWaitingList reports whether the named player is parked on the waiting
// list rather than the active roster.
func (g Game) OnWaitingList(name string) bool {
	return findPlayer(g.WaitingList, name) != nil
}

// Scoreboard lists every scored round as "{storyName},{pointValue}" in
// round order.
func (g Game) Scoreboard() []string {
	board := make([]string, 0, len(g.Rounds))
	for _, round := range g.Rounds {
		if round.Scored {
			board = append(board, fmt.Sprintf("%s,%d", round.StoryName, round.PointValue))
		}
	}
	return board
}

func (g Game) PlayerNames() []string {
	return playerNames(g.Players)
}

func (g Game) WaitingNames() []string {
	return playerNames(g.WaitingList)
}

func playerNames(players []Player) []string {
	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, p.Name)
	}
	return names
}
