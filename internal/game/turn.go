package game

import (
	"context"
	"fmt"
	"slices"

	"github.com/apper-canvas/impact-sketch-rush/internal/words"
	"github.com/apper-canvas/impact-sketch-rush/logger"
)

// AdvanceOnTimeout ends turn of session id because its time ran out. A turn
// that already ended makes this a no-op returning the current snapshot, so
// a late or duplicated timer cannot advance twice.
func (e *Engine) AdvanceOnTimeout(ctx context.Context, id int64, turn int) (Session, error) {
	return e.mutate(id, func(en *entry) ([]Event, error) {
		return e.advance(ctx, en, turn, ReasonTimeout)
	})
}

// SkipTurn lets the current drawer give up the turn.
func (e *Engine) SkipTurn(ctx context.Context, id int64, playerID string) (Session, error) {
	return e.mutate(id, func(en *entry) ([]Event, error) {
		s := &en.session
		if !s.IsMember(playerID) {
			return nil, ErrPlayerNotFound
		}
		if s.State != StatePlaying {
			return nil, ErrSessionNotPlaying
		}
		if s.CurrentDrawer != playerID {
			return nil, ErrNotDrawer
		}
		return e.advance(ctx, en, s.Turn, ReasonSkipped)
	})
}

// advancePlan is a turn advance decided but not yet applied. Everything that
// can fail happens while planning.
type advancePlan struct {
	noop     bool
	finish   bool
	round    int
	drawer   string
	nextWord words.Word
}

// planAdvance works out where the turn after expectedTurn goes. Only the
// first caller for a given turn gets a real plan; later ones, and any call
// once the session is over, get a no-op. Caller holds en.mu.
func (e *Engine) planAdvance(ctx context.Context, en *entry, expectedTurn int) (advancePlan, error) {
	s := &en.session
	if s.State != StatePlaying || s.Turn != expectedTurn {
		return advancePlan{noop: true}, nil
	}

	next := (slices.Index(s.Players, s.CurrentDrawer) + 1) % len(s.Players)
	p := advancePlan{round: s.CurrentRound, drawer: s.Players[next]}
	if next == 0 {
		p.round++
	}
	if p.round > TotalRounds {
		p.finish = true
		return p, nil
	}

	w, err := e.drawWord(ctx, s)
	if err != nil {
		return advancePlan{}, err
	}
	p.nextWord = w
	return p, nil
}

// applyAdvance commits p. Caller holds en.mu.
func (e *Engine) applyAdvance(en *entry, p advancePlan, reason AdvanceReason) []Event {
	if p.noop {
		return nil
	}
	s := &en.session
	en.ended = endedTurn{}

	ended := newEvent(EventTurnEnded, en.snapshot())
	ended.Reason = reason
	ended.PlayerID = s.CurrentDrawer
	ended.Word = s.word

	logger.Info("session=%d turn=%d ended (%s) drawer=%s", s.ID, s.Turn, reason, s.CurrentDrawer)

	if p.finish {
		en.stopTimer()
		s.CurrentRound = p.round
		s.State = StateFinished
		s.Version++

		logger.Info("session=%d finished", s.ID)
		return []Event{ended, newEvent(EventSessionFinished, en.snapshot())}
	}

	s.CurrentRound = p.round
	started := e.beginTurn(en, p.drawer, p.nextWord)
	return []Event{ended, started}
}

// advance is the single compare-and-update for turn changes, shared by the
// countdown, correct guesses and skips. Caller holds en.mu.
func (e *Engine) advance(ctx context.Context, en *entry, expectedTurn int, reason AdvanceReason) ([]Event, error) {
	p, err := e.planAdvance(ctx, en, expectedTurn)
	if err != nil {
		return nil, err
	}
	return e.applyAdvance(en, p, reason), nil
}

// beginTurn hands the pencil to drawer with word w and arms the countdown.
// Caller holds en.mu.
func (e *Engine) beginTurn(en *entry, drawer string, w words.Word) Event {
	s := &en.session
	s.CurrentDrawer = drawer
	s.word = w.Word
	s.Clue = Clue{Hint: w.Hint, Category: w.Category}
	s.TimeRemaining = TurnSeconds
	s.Guesses = []Guess{}
	s.Turn++
	s.Version++
	clear(en.credited)

	e.arm(en)

	logger.Debug("session=%d turn=%d round=%d drawer=%s", s.ID, s.Turn, s.CurrentRound, drawer)
	ev := newEvent(EventTurnStarted, en.snapshot())
	ev.PlayerID = drawer
	return ev
}

func (e *Engine) drawWord(ctx context.Context, s *Session) (words.Word, error) {
	w, err := e.words.RandomWord(ctx, s.Category, s.Difficulty)
	if err != nil {
		return words.Word{}, fmt.Errorf("session %d: draw word: %w", s.ID, err)
	}
	return w, nil
}
