package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardTieKeepsJoinOrder(t *testing.T) {
	f := newFixture(t)
	s := f.lobby(t, "A", "B")
	f.setScores(t, s.ID, map[string]int{"A": 5, "B": 5})

	for i := 0; i < 20; i++ {
		board, err := f.engine.Leaderboard(s.ID)
		require.NoError(t, err)
		assert.Equal(t, []LeaderboardEntry{
			{Rank: 1, PlayerID: "A", Score: 5},
			{Rank: 1, PlayerID: "B", Score: 5},
		}, board)
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	f := newFixture(t)
	s := f.lobby(t, "A", "B", "C", "D")
	f.setScores(t, s.ID, map[string]int{"A": 3, "B": 12, "C": 3, "D": 7})

	board, err := f.engine.Leaderboard(s.ID)
	require.NoError(t, err)
	assert.Equal(t, []LeaderboardEntry{
		{Rank: 1, PlayerID: "B", Score: 12},
		{Rank: 2, PlayerID: "D", Score: 7},
		{Rank: 3, PlayerID: "A", Score: 3},
		{Rank: 3, PlayerID: "C", Score: 3},
	}, board)
}

func TestLeaderboardMissingScoreCountsAsZero(t *testing.T) {
	board := Standings(Session{Players: []string{"A", "B"}, Scores: map[string]int{"B": 2}})
	require.Len(t, board, 2)
	assert.Equal(t, "B", board[0].PlayerID)
	assert.Equal(t, LeaderboardEntry{Rank: 2, PlayerID: "A", Score: 0}, board[1])
}

func TestLeaderboardUnknownSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Leaderboard(11)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
