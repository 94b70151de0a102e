package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apper-canvas/impact-sketch-rush/internal/words"
)

// manualClock never ticks on its own; tests push ticks through the latest
// ticker.
type manualClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*manualTicker
}

type manualTicker struct {
	c    chan time.Time
	mu   sync.Mutex
	stop bool
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) NewTicker(time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTicker{c: make(chan time.Time, 1)}
	c.tickers = append(c.tickers, t)
	return t
}

func (c *manualClock) tickerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

func (c *manualClock) ticker(i int) *manualTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tickers[i]
}

func (t *manualTicker) C() <-chan time.Time { return t.c }

func (t *manualTicker) Stop() {
	t.mu.Lock()
	t.stop = true
	t.mu.Unlock()
}

func (t *manualTicker) stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop
}

// cyclingWords hands out words in a fixed order.
type cyclingWords struct {
	mu   sync.Mutex
	list []string
	next int
	err  error
}

func newCyclingWords(list ...string) *cyclingWords {
	if len(list) == 0 {
		list = []string{"apple", "banana", "cherry", "dragon", "eagle", "falcon", "guitar", "hammer", "igloo", "jacket"}
	}
	return &cyclingWords{list: list}
}

func (w *cyclingWords) RandomWord(ctx context.Context, category, _ string) (words.Word, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return words.Word{}, w.err
	}
	word := w.list[w.next%len(w.list)]
	w.next++
	return words.Word{Word: word, Hint: "hint for " + word, Category: category}, nil
}

func (w *cyclingWords) fail(err error) {
	w.mu.Lock()
	w.err = err
	w.mu.Unlock()
}

type knownPlayers map[string]bool

func (k knownPlayers) Exists(_ context.Context, id string) bool { return k[id] }

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Notify(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventType, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

func (r *recorder) last(t EventType) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == t {
			return r.events[i], true
		}
	}
	return Event{}, false
}

type fixture struct {
	engine *Engine
	clock  *manualClock
	words  *cyclingWords
	events *recorder
}

var errWordsDown = errors.New("word provider down")

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		clock:  newManualClock(),
		words:  newCyclingWords(),
		events: &recorder{},
	}
	known := knownPlayers{}
	for _, id := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"} {
		known[id] = true
	}
	opts = append([]Option{WithClock(f.clock), WithNotifier(f.events)}, opts...)
	f.engine = NewEngine(f.words, known, opts...)
	t.Cleanup(f.engine.Close)
	return f
}

// lobby creates a session hosted by the first player and joins the rest.
func (f *fixture) lobby(t *testing.T, players ...string) Session {
	t.Helper()
	ctx := context.Background()
	s, err := f.engine.CreateSession(ctx, players[0], Settings{})
	require.NoError(t, err)
	for _, p := range players[1:] {
		s, err = f.engine.JoinSession(ctx, s.ID, p)
		require.NoError(t, err)
	}
	return s
}

func (f *fixture) started(t *testing.T, players ...string) Session {
	t.Helper()
	s := f.lobby(t, players...)
	s, err := f.engine.StartSession(context.Background(), s.ID)
	require.NoError(t, err)
	return s
}

func (f *fixture) entry(t *testing.T, id int64) *entry {
	t.Helper()
	en, err := f.engine.store.get(id)
	require.NoError(t, err)
	return en
}

func (f *fixture) setScores(t *testing.T, id int64, scores map[string]int) {
	t.Helper()
	en := f.entry(t, id)
	en.mu.Lock()
	defer en.mu.Unlock()
	for p, v := range scores {
		en.session.Scores[p] = v
	}
}

// assertInvariants checks the properties every committed snapshot keeps.
func assertInvariants(t *testing.T, s Session) {
	t.Helper()

	assert.Len(t, s.Scores, len(s.Players), "scores and players differ: %v vs %v", s.Scores, s.Players)
	seen := map[string]bool{}
	for _, p := range s.Players {
		assert.False(t, seen[p], "duplicate player %s", p)
		seen[p] = true
		_, ok := s.Scores[p]
		assert.True(t, ok, "missing score for %s", p)
	}
	assert.LessOrEqual(t, len(s.Players), s.MaxPlayers)

	switch s.State {
	case StatePlaying:
		assert.Contains(t, s.Players, s.CurrentDrawer)
		assert.Positive(t, s.Turn)
		assert.LessOrEqual(t, s.CurrentRound, TotalRounds)
	case StateLobby:
		assert.Empty(t, s.CurrentDrawer)
	}
	assert.GreaterOrEqual(t, s.TimeRemaining, 0)
	assert.LessOrEqual(t, s.TimeRemaining, TurnSeconds)
}
