package game

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"github.com/apper-canvas/impact-sketch-rush/logger"
)

// closeDistance is the largest edit distance still reported as a close guess.
const closeDistance = 2

// GuessResult is the outcome of SubmitGuess. Session is the snapshot after
// the guess, including any turn advance it caused.
type GuessResult struct {
	Guess     Guess   `json:"guess"`
	IsCorrect bool    `json:"isCorrect"`
	Points    int     `json:"points"`
	Session   Session `json:"session"`
}

// SubmitGuess records a guess by playerID for the current turn. A correct
// guess credits the player and ends the turn in the same critical section,
// so of two simultaneous correct guesses exactly one is credited. The others
// are sequenced after the turn ended; they are still recorded as correct,
// against the turn they were aimed at, for no points.
func (e *Engine) SubmitGuess(ctx context.Context, id int64, playerID, text string) (GuessResult, error) {
	var res GuessResult

	snap, err := e.mutate(id, func(en *entry) ([]Event, error) {
		s := &en.session
		if !s.IsMember(playerID) {
			return nil, ErrPlayerNotFound
		}
		if utf8.RuneCountInString(text) > MaxGuessLength {
			return nil, ErrGuessTooLong
		}

		guess, word := normalize(text), normalize(s.word)
		canGuess := s.State == StatePlaying && playerID != s.CurrentDrawer
		correct := canGuess && guess != "" && word != "" && guess == word

		if !correct && s.State == StatePlaying && en.ended.accepts(playerID, guess) {
			g := e.record(en, playerID, text, en.ended.turn, true, false)
			res.Guess, res.IsCorrect = g, true
			logger.Debug("session=%d player=%s guessed turn %d after it ended", s.ID, playerID, g.Turn)
			return []Event{guessEvent(en, g, 0)}, nil
		}
		if !canGuess {
			return nil, ErrNotYourTurnToGuess
		}

		credit := correct && !en.credited[playerID]

		var plan advancePlan
		if credit {
			p, err := e.planAdvance(ctx, en, s.Turn)
			if err != nil {
				return nil, err
			}
			plan = p
		}

		g := e.record(en, playerID, text, s.Turn, correct, !correct && isClose(guess, word))
		res.Guess, res.IsCorrect = g, correct
		if !credit {
			return []Event{guessEvent(en, g, 0)}, nil
		}

		res.Points = Points(s.TimeRemaining)
		s.Scores[playerID] += res.Points
		en.credited[playerID] = true
		guessed := guessEvent(en, g, res.Points)

		logger.Info("session=%d turn=%d player=%s guessed correctly (+%d)", s.ID, s.Turn, playerID, res.Points)
		closed := endedTurn{turn: s.Turn, word: s.word, drawer: s.CurrentDrawer, winner: playerID}
		evs := append([]Event{guessed}, e.applyAdvance(en, plan, ReasonCorrectGuess)...)
		en.ended = closed
		return evs, nil
	})
	if err != nil {
		return GuessResult{}, err
	}

	res.Session = snap
	return res, nil
}

// record appends a guess to the current log. Caller holds en.mu.
func (e *Engine) record(en *entry, playerID, text string, turn int, correct, near bool) Guess {
	s := &en.session
	g := Guess{
		ID:        len(s.Guesses) + 1,
		PlayerID:  playerID,
		Turn:      turn,
		Text:      text,
		Timestamp: e.clock.Now(),
		IsCorrect: correct,
		Close:     near,
	}
	s.Guesses = append(s.Guesses, g)
	s.Version++
	return g
}

func guessEvent(en *entry, g Guess, points int) Event {
	ev := newEvent(EventGuess, en.snapshot())
	ev.PlayerID = g.PlayerID
	ev.Guess = &g
	ev.Points = points
	return ev
}

// normalize trims surrounding whitespace and folds case.
func normalize(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func isClose(guess, word string) bool {
	if guess == "" || utf8.RuneCountInString(word) <= 3 {
		return false
	}
	d := levenshtein.ComputeDistance(guess, word)
	return d > 0 && d <= closeDistance
}
