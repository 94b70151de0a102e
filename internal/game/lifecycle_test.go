package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := f.engine.CreateSession(ctx, "A", Settings{})
	require.NoError(t, err)

	assert.Equal(t, int64(1), s.ID)
	assert.Equal(t, "A", s.HostID)
	assert.Equal(t, []string{"A"}, s.Players)
	assert.Equal(t, map[string]int{"A": 0}, s.Scores)
	assert.Equal(t, StateLobby, s.State)
	assert.Equal(t, 1, s.CurrentRound)
	assert.Equal(t, TurnSeconds, s.TimeRemaining)
	assert.Equal(t, DefaultMaxPlayers, s.MaxPlayers)
	assert.Equal(t, DefaultCategory, s.Category)
	assert.Equal(t, DefaultDifficulty, s.Difficulty)
	assert.Empty(t, s.SecretWord())
	assertInvariants(t, s)

	s2, err := f.engine.CreateSession(ctx, "B", Settings{MaxPlayers: 4, Category: "food", Difficulty: "hard"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), s2.ID)
	assert.Equal(t, 4, s2.MaxPlayers)
	assert.Equal(t, "food", s2.Category)

	assert.Equal(t, []EventType{EventSessionCreated, EventSessionCreated}, f.events.types())
}

func TestCreateSessionUnknownHost(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.CreateSession(context.Background(), "stranger", Settings{})
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	assert.Zero(t, f.engine.store.Len())
}

func TestCreateSessionEngineMaxPlayers(t *testing.T) {
	f := newFixture(t, WithMaxPlayers(3))
	s, err := f.engine.CreateSession(context.Background(), "A", Settings{MaxPlayers: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, s.MaxPlayers)
}

func TestJoinSession(t *testing.T) {
	ctx := context.Background()

	t.Run("appends in join order", func(t *testing.T) {
		f := newFixture(t)
		s := f.lobby(t, "A", "B", "C")
		assert.Equal(t, []string{"A", "B", "C"}, s.Players)
		assert.Equal(t, map[string]int{"A": 0, "B": 0, "C": 0}, s.Scores)
		assertInvariants(t, s)

		ev, ok := f.events.last(EventPlayerJoined)
		require.True(t, ok)
		assert.Equal(t, "C", ev.PlayerID)
	})

	t.Run("rejoin is a no-op", func(t *testing.T) {
		f := newFixture(t)
		s := f.lobby(t, "A", "B")
		again, err := f.engine.JoinSession(ctx, s.ID, "B")
		require.NoError(t, err)
		assert.Equal(t, s.Players, again.Players)
		assert.Equal(t, s.Version, again.Version)
	})

	t.Run("unknown session", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.JoinSession(ctx, 42, "A")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("unknown player", func(t *testing.T) {
		f := newFixture(t)
		s := f.lobby(t, "A")
		_, err := f.engine.JoinSession(ctx, s.ID, "stranger")
		assert.ErrorIs(t, err, ErrPlayerNotFound)
	})

	t.Run("full", func(t *testing.T) {
		f := newFixture(t)
		s, err := f.engine.CreateSession(ctx, "A", Settings{MaxPlayers: 2})
		require.NoError(t, err)
		_, err = f.engine.JoinSession(ctx, s.ID, "B")
		require.NoError(t, err)

		_, err = f.engine.JoinSession(ctx, s.ID, "C")
		assert.ErrorIs(t, err, ErrSessionFull)

		after, err := f.engine.Session(s.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, after.Players)
		assertInvariants(t, after)
	})

	t.Run("already started", func(t *testing.T) {
		f := newFixture(t)
		s := f.started(t, "A", "B")
		_, err := f.engine.JoinSession(ctx, s.ID, "C")
		assert.ErrorIs(t, err, ErrSessionAlreadyStarted)
	})
}

func TestStartSessionPlayerCounts(t *testing.T) {
	ctx := context.Background()

	for n := 0; n <= 3; n++ {
		f := newFixture(t)
		players := []string{"A", "B", "C"}[:n]
		en := f.engine.store.create(Session{
			Players:      players,
			MaxPlayers:   DefaultMaxPlayers,
			State:        StateLobby,
			CurrentRound: 1,
			Scores:       map[string]int{},
		})
		for _, p := range players {
			en.session.Scores[p] = 0
		}

		s, err := f.engine.StartSession(ctx, en.session.ID)
		if n < MinPlayers {
			assert.ErrorIs(t, err, ErrInsufficientPlayers, "players=%d", n)
			after, err := f.engine.Session(en.session.ID)
			require.NoError(t, err)
			assert.Equal(t, StateLobby, after.State)
			continue
		}
		require.NoError(t, err, "players=%d", n)
		assert.Equal(t, StatePlaying, s.State)
	}
}

func TestStartSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.lobby(t, "A", "B", "C")

	s, err := f.engine.StartSession(ctx, s.ID)
	require.NoError(t, err)

	assert.Equal(t, StatePlaying, s.State)
	assert.Equal(t, 1, s.CurrentRound)
	assert.Equal(t, "A", s.CurrentDrawer)
	assert.Equal(t, 1, s.Turn)
	assert.Equal(t, TurnSeconds, s.TimeRemaining)
	assert.Equal(t, "apple", s.SecretWord())
	assert.Equal(t, "hint for apple", s.Clue.Hint)
	assert.Empty(t, s.Guesses)
	assertInvariants(t, s)

	types := f.events.types()
	assert.Equal(t, []EventType{EventSessionStarted, EventTurnStarted}, types[len(types)-2:])

	_, err = f.engine.StartSession(ctx, s.ID)
	assert.ErrorIs(t, err, ErrSessionAlreadyStarted)

	_, err = f.engine.StartSession(ctx, 99)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStartSessionWordFailureLeavesLobby(t *testing.T) {
	f := newFixture(t)
	s := f.lobby(t, "A", "B")
	f.words.fail(errWordsDown)

	_, err := f.engine.StartSession(context.Background(), s.ID)
	assert.ErrorIs(t, err, errWordsDown)

	after, err := f.engine.Session(s.ID)
	require.NoError(t, err)
	assert.Equal(t, StateLobby, after.State)
	assert.Empty(t, after.CurrentDrawer)
	assert.Equal(t, s.Version, after.Version)
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(ErrSessionNotFound))
	assert.True(t, IsTerminal(ErrPlayerNotFound))
	assert.False(t, IsTerminal(ErrSessionFull))
	assert.False(t, IsTerminal(ErrNotYourTurnToGuess))
}
