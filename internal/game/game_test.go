package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTwoPlayerGame(t *testing.T) Game {
	t.Helper()
	g := NewGame("GM", ScaleLinear)
	require.NoError(t, g.AddPlayer(Player{Name: "P1"}))
	return g
}

func TestAddPlayerDuplicateName(t *testing.T) {
	g := newTwoPlayerGame(t)

	assert.ErrorIs(t, g.AddPlayer(Player{Name: "P1"}), ErrPlayerNameTaken)
	assert.ErrorIs(t, g.AddPlayer(Player{Name: "GM"}), ErrPlayerNameTaken)
}

func TestAddPlayerDuringRoundWaits(t *testing.T) {
	g := newTwoPlayerGame(t)
	require.NoError(t, g.StartRound(Round{StoryName: "Story A"}))

	require.NoError(t, g.AddPlayer(Player{Name: "P2"}))
	assert.True(t, g.OnWaitingList("P2"))
	assert.Equal(t, []string{"P1"}, g.PlayerNames())
	assert.Nil(t, g.HandOf("P2"))
}

func TestStartRoundRequiresPlayers(t *testing.T) {
	g := NewGame("GM", ScaleLinear)
	assert.ErrorIs(t, g.StartRound(Round{StoryName: "Story A"}), ErrNoPlayersJoined)
}

func TestStartRoundDuplicateStoryName(t *testing.T) {
	g := newTwoPlayerGame(t)
	require.NoError(t, g.StartRound(Round{StoryName: "Story A"}))
	assert.ErrorIs(t, g.StartRound(Round{StoryName: "Story A"}), ErrDuplicateRoundName)
}

func TestStartRoundRequiresScoredPredecessor(t *testing.T) {
	g := newTwoPlayerGame(t)
	require.NoError(t, g.StartRound(Round{StoryName: "Story A"}))
	assert.ErrorIs(t, g.StartRound(Round{StoryName: "Story B"}), ErrRoundNotScored)
}

func TestStartRoundDealsHandsAndPromotesWaitingList(t *testing.T) {
	g := newTwoPlayerGame(t)
	require.NoError(t, g.StartRound(Round{StoryName: "Story A"}))
	require.NoError(t, g.AddPlayer(Player{Name: "P2"}))

	playRound(t, &g, FaceOne)
	require.NoError(t, g.ScoreRound(Card{FaceOne}))

	require.NoError(t, g.StartRound(Round{StoryName: "Story B"}))
	assert.Equal(t, []string{"P1", "P2"}, g.PlayerNames())
	assert.Empty(t, g.WaitingNames())
	assert.Len(t, g.HandOf("GM"), len(ScaleLinear.Deck()))
	assert.Len(t, g.HandOf("P2"), len(ScaleLinear.Deck()))
}

// playRound has every hand holder play the given face.
func playRound(t *testing.T, g *Game, face FaceValue) {
	t.Helper()
	require.NoError(t, g.PlayACard(Player{Name: g.GameMaster.Name}, Card{face}))
	for _, name := range g.PlayerNames() {
		require.NoError(t, g.PlayACard(Player{Name: name}, Card{face}))
	}
}

func TestPlayACardRequiresActiveRound(t *testing.T) {
	g := newTwoPlayerGame(t)
	err := g.PlayACard(Player{Name: "P1"}, Card{FaceOne})
	assert.ErrorIs(t, err, ErrNoActiveRound)
}

func TestPlayACardMovesCardOutOfHand(t *testing.T) {
	g := newTwoPlayerGame(t)
	require.NoError(t, g.StartRound(Round{StoryName: "Story A"}))

	require.NoError(t, g.PlayACard(Player{Name: "P1"}, Card{FaceTwo}))

	assert.NotContains(t, g.HandOf("P1"), Card{FaceTwo})
	round, ok := g.CurrentRound()
	require.True(t, ok)
	assert.Equal(t, []PlayedCard{{PlayerName: "P1", Card: Card{FaceTwo}}}, round.PlayedCards)
	assert.False(t, g.RoundEnded(), "round should wait for the game master")
}

func TestPlayACardAgainReplacesEstimate(t *testing.T) {
	g := newTwoPlayerGame(t)
	require.NoError(t, g.StartRound(Round{StoryName: "Story A"}))

	require.NoError(t, g.PlayACard(Player{Name: "P1"}, Card{FaceTwo}))
	require.NoError(t, g.PlayACard(Player{Name: "P1"}, Card{FaceThree}))

	assert.Contains(t, g.HandOf("P1"), Card{FaceTwo})
	round, _ := g.CurrentRound()
	require.Len(t, round.PlayedCards, 1)
	assert.Equal(t, Card{FaceThree}, round.PlayedCards[0].Card)
}

func TestPlayACardUnknownCardOrPlayer(t *testing.T) {
	g := newTwoPlayerGame(t)
	require.NoError(t, g.StartRound(Round{StoryName: "Story A"}))

	err := g.PlayACard(Player{Name: "P1"}, Card{FaceHundred})
	assert.ErrorIs(t, err, ErrCardNotInHand)

	err = g.PlayACard(Player{Name: "stranger"}, Card{FaceOne})
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestPlayACardAfterRoundEnded(t *testing.T) {
	g := newTwoPlayerGame(t)
	require.NoError(t, g.AddPlayer(Player{Name: "P2"}))
	require.NoError(t, g.StartRound(Round{StoryName: "Story A"}))

	playRound(t, &g, FaceOne)
	require.True(t, g.RoundEnded())

	err := g.PlayACard(Player{Name: "P1"}, Card{FaceTwo})
	assert.ErrorIs(t, err, ErrRoundEnded)
}

func TestScoreRoundRequiresAllPlayed(t *testing.T) {
	g := newTwoPlayerGame(t)
	require.NoError(t, g.StartRound(Round{StoryName: "Story A"}))

	require.NoError(t, g.PlayACard(Player{Name: "P1"}, Card{FaceOne}))
	assert.ErrorIs(t, g.ScoreRound(Card{FaceOne}), ErrRoundNotEnded)

	require.NoError(t, g.PlayACard(Player{Name: "GM"}, Card{FaceTwo}))
	require.NoError(t, g.ScoreRound(Card{FaceOne}))

	round, _ := g.CurrentRound()
	assert.True(t, round.Scored)
	assert.Equal(t, 1, round.PointValue)
}

func TestScoreRoundTwice(t *testing.T) {
	g := newTwoPlayerGame(t)
	require.NoError(t, g.StartRound(Round{StoryName: "Story A"}))
	playRound(t, &g, FaceOne)
	require.NoError(t, g.ScoreRound(Card{FaceOne}))

	assert.ErrorIs(t, g.ScoreRound(Card{FaceTwo}), ErrNoActiveRound)
}

func TestReplayRoundClearsCardsAndRedeals(t *testing.T) {
	g := newTwoPlayerGame(t)
	require.NoError(t, g.StartRound(Round{StoryName: "Story A"}))
	playRound(t, &g, FaceOne)

	require.NoError(t, g.ReplayRound())

	round, _ := g.CurrentRound()
	assert.Empty(t, round.PlayedCards)
	assert.Len(t, g.HandOf("P1"), len(ScaleLinear.Deck()))
	assert.False(t, g.RoundEnded())
}

func TestReplayRoundAfterScoring(t *testing.T) {
	g := newTwoPlayerGame(t)
	require.NoError(t, g.StartRound(Round{StoryName: "Story A"}))
	playRound(t, &g, FaceOne)
	require.NoError(t, g.ScoreRound(Card{FaceOne}))

	assert.ErrorIs(t, g.ReplayRound(), ErrRoundAlreadyScored)
}

func TestRemovePlayerDropsPlayedCard(t *testing.T) {
	g := newTwoPlayerGame(t)
	require.NoError(t, g.AddPlayer(Player{Name: "P2"}))
	require.NoError(t, g.StartRound(Round{StoryName: "Story A"}))

	require.NoError(t, g.PlayACard(Player{Name: "P1"}, Card{FaceOne}))
	g.RemovePlayer(Player{Name: "P1"})

	assert.Equal(t, []string{"P2"}, g.PlayerNames())
	round, _ := g.CurrentRound()
	assert.Empty(t, round.PlayedCards)
}

func TestScoreboard(t *testing.T) {
	g := newTwoPlayerGame(t)

	require.NoError(t, g.StartRound(Round{StoryName: "Story A"}))
	playRound(t, &g, FaceOne)
	require.NoError(t, g.ScoreRound(Card{FaceOne}))

	require.NoError(t, g.StartRound(Round{StoryName: "Story B"}))
	playRound(t, &g, FaceThree)
	require.NoError(t, g.ScoreRound(Card{FaceThree}))

	require.NoError(t, g.StartRound(Round{StoryName: "Story C"}))

	assert.Equal(t, []string{"Story A,1", "Story B,3"}, g.Scoreboard())
}

func TestCloneIsDeep(t *testing.T) {
	g := newTwoPlayerGame(t)
	require.NoError(t, g.StartRound(Round{StoryName: "Story A"}))

	clone := g.Clone()
	require.NoError(t, clone.PlayACard(Player{Name: "P1"}, Card{FaceOne}))
	clone.Players[0].Name = "renamed"
	clone.Rounds[0].StoryName = "rewritten"

	assert.Equal(t, "P1", g.Players[0].Name)
	assert.Equal(t, "Story A", g.Rounds[0].StoryName)
	round, _ := g.CurrentRound()
	assert.Empty(t, round.PlayedCards)
	assert.Contains(t, g.HandOf("P1"), Card{FaceOne})
}
