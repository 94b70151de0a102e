package game

import (
	"context"
	"sync"
	"time"

	"github.com/apper-canvas/impact-sketch-rush/internal/words"
	"github.com/apper-canvas/impact-sketch-rush/logger"
)

// WordProvider supplies the secret word at each turn start.
type WordProvider interface {
	RandomWord(ctx context.Context, category, difficulty string) (words.Word, error)
}

// PlayerDirectory answers whether a player id is known.
type PlayerDirectory interface {
	Exists(ctx context.Context, playerID string) bool
}

// Engine is the authoritative game session state machine. All session
// mutations go through it; callers only ever see snapshots.
type Engine struct {
	store    *Store
	words    WordProvider
	players  PlayerDirectory
	clock    Clock
	notifier Notifier

	maxPlayers int

	// base is the parent of every countdown context.
	base   context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

type Option func(*Engine)

func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithMaxPlayers sets the capacity used when a session is created without
// one.
func WithMaxPlayers(n int) Option {
	return func(e *Engine) {
		if n >= MinPlayers {
			e.maxPlayers = n
		}
	}
}

func NewEngine(wp WordProvider, pd PlayerDirectory, opts ...Option) *Engine {
	base, cancel := context.WithCancel(context.Background())
	e := &Engine{
		store:      NewStore(),
		words:      wp,
		players:    pd,
		clock:      SystemClock{},
		notifier:   Notifiers(nil),
		maxPlayers: DefaultMaxPlayers,
		base:       base,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Close stops every running countdown and waits for them to exit. Sessions
// stay readable.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	e.cancel()
	e.store.each(func(en *entry) {
		en.mu.Lock()
		en.stopTimer()
		en.mu.Unlock()
	})
	e.wg.Wait()
}

// Session returns a snapshot of session id.
func (e *Engine) Session(id int64) (Session, error) {
	en, err := e.store.get(id)
	if err != nil {
		return Session{}, err
	}
	en.mu.Lock()
	defer en.mu.Unlock()
	return en.snapshot(), nil
}

func (e *Engine) Sessions() []Session {
	return e.store.List()
}

// mutate runs fn under the session lock and queues the events it returns;
// they reach the notifier once the lock is released. A failing fn must leave
// the session untouched.
func (e *Engine) mutate(id int64, fn func(en *entry) ([]Event, error)) (Session, error) {
	en, err := e.store.get(id)
	if err != nil {
		return Session{}, err
	}

	en.mu.Lock()
	evs, err := fn(en)
	snap := en.snapshot()
	if err == nil {
		en.outbox = append(en.outbox, evs...)
	}
	en.mu.Unlock()

	if err != nil {
		return Session{}, err
	}
	e.flush(en)
	return snap, nil
}

// flush hands the queued events of en to the notifier in commit order. One
// goroutine drains at a time; a caller that finds a drain in progress leaves
// its events to it. Must be called without en.mu held.
func (e *Engine) flush(en *entry) {
	en.mu.Lock()
	if en.draining {
		en.mu.Unlock()
		return
	}
	en.draining = true
	for len(en.outbox) > 0 {
		evs := en.outbox
		en.outbox = nil
		en.mu.Unlock()

		for _, ev := range evs {
			e.notifier.Notify(ev)
		}

		en.mu.Lock()
	}
	en.draining = false
	en.mu.Unlock()
}

// arm starts the countdown for the current turn of en. Caller holds en.mu.
func (e *Engine) arm(en *entry) {
	en.stopTimer()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}

	ctx, cancel := context.WithCancel(e.base)
	en.stopCountdown = cancel
	id, turn := en.session.ID, en.session.Turn

	e.wg.Add(1)
	go e.countdown(ctx, id, turn)
}

// countdown ticks once a second for one turn until the turn ends or ctx is
// cancelled.
func (e *Engine) countdown(ctx context.Context, id int64, turn int) {
	defer e.wg.Done()

	t := e.clock.NewTicker(time.Second)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C():
			if !e.tick(ctx, id, turn) {
				return
			}
		}
	}
}

// tick takes one second off turn of session id and ends the turn when time
// runs out. It returns false once the turn is over.
func (e *Engine) tick(ctx context.Context, id int64, turn int) bool {
	en, err := e.store.get(id)
	if err != nil {
		return false
	}

	en.mu.Lock()
	s := &en.session
	if s.State != StatePlaying || s.Turn != turn {
		en.mu.Unlock()
		return false
	}

	if s.TimeRemaining > 0 {
		s.TimeRemaining--
		s.Version++
		en.outbox = append(en.outbox, newEvent(EventTick, en.snapshot()))
	}

	live := true
	if s.TimeRemaining == 0 {
		adv, err := e.advance(ctx, en, turn, ReasonTimeout)
		if err != nil {
			// Retried on the next tick.
			logger.Error("session=%d turn=%d timeout advance failed: %v", id, turn, err)
		} else {
			en.outbox = append(en.outbox, adv...)
			live = false
		}
	}
	en.mu.Unlock()

	e.flush(en)
	return live
}
