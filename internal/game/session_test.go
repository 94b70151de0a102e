package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewForHidesWordFromGuessers(t *testing.T) {
	f := newFixture(t)
	s := f.started(t, "A", "B")

	drawer := s.ViewFor("A")
	assert.True(t, drawer.IsDrawer)
	assert.Equal(t, "apple", drawer.Word)

	guesser := s.ViewFor("B")
	assert.False(t, guesser.IsDrawer)
	assert.Empty(t, guesser.Word)
	assert.Equal(t, "hint for apple", guesser.Clue.Hint)

	spectator := s.ViewFor("")
	assert.Empty(t, spectator.Word)
}

func TestViewForMasksCorrectGuesses(t *testing.T) {
	f := newFixture(t)
	s := f.started(t, "A", "B", "C")
	s.Guesses = []Guess{
		{ID: 1, PlayerID: "B", Text: "Apple", IsCorrect: true},
		{ID: 2, PlayerID: "C", Text: "pear"},
	}

	assert.Equal(t, "Apple", s.ViewFor("A").Guesses[0].Text)
	assert.Equal(t, "Apple", s.ViewFor("B").Guesses[0].Text)

	other := s.ViewFor("C")
	assert.Empty(t, other.Guesses[0].Text)
	assert.Equal(t, "pear", other.Guesses[1].Text)
	assert.Equal(t, "Apple", s.Guesses[0].Text)
}

func TestSessionJSONNeverCarriesWord(t *testing.T) {
	f := newFixture(t)
	s := f.started(t, "A", "B")

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "\"word\"")

	raw, err = json.Marshal(s.ViewFor("B"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "\"word\"")

	raw, err = json.Marshal(s.ViewFor("A"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\"word\":\"apple\"")
}

func TestSnapshotsAreCopies(t *testing.T) {
	f := newFixture(t)
	s := f.lobby(t, "A", "B")

	s.Players[0] = "Z"
	s.Scores["A"] = 100

	fresh, err := f.engine.Session(s.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, fresh.Players)
	assert.Zero(t, fresh.Scores["A"])
}

func TestStoreList(t *testing.T) {
	f := newFixture(t)
	f.lobby(t, "A")
	f.lobby(t, "B")
	f.lobby(t, "C")

	list := f.engine.Sessions()
	require.Len(t, list, 3)
	for i, s := range list {
		assert.Equal(t, int64(i+1), s.ID)
	}
}

func TestNotifiersFanOut(t *testing.T) {
	var a, b recorder
	ns := Notifiers{&a, nil, NotifierFunc(b.Notify)}
	ns.Notify(Event{Type: EventTick})

	assert.Equal(t, []EventType{EventTick}, a.types())
	assert.Equal(t, []EventType{EventTick}, b.types())
}
