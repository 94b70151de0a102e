package game

import (
	"context"
	"strings"

	"github.com/apper-canvas/impact-sketch-rush/logger"
)

// CreateSession opens a lobby hosted by hostID.
func (e *Engine) CreateSession(ctx context.Context, hostID string, settings Settings) (Session, error) {
	if !e.players.Exists(ctx, hostID) {
		return Session{}, ErrPlayerNotFound
	}

	settings = e.withDefaults(settings)
	en := e.store.create(Session{
		HostID:        hostID,
		Players:       []string{hostID},
		MaxPlayers:    settings.MaxPlayers,
		State:         StateLobby,
		CurrentRound:  1,
		TotalRounds:   TotalRounds,
		TimeRemaining: TurnSeconds,
		Guesses:       []Guess{},
		Scores:        map[string]int{hostID: 0},
		Category:      settings.Category,
		Difficulty:    settings.Difficulty,
	})

	en.mu.Lock()
	snap := en.snapshot()
	en.outbox = append(en.outbox, newEvent(EventSessionCreated, snap))
	en.mu.Unlock()

	logger.Info("session=%d created by host=%s max=%d", snap.ID, hostID, snap.MaxPlayers)
	e.flush(en)
	return snap, nil
}

func (e *Engine) withDefaults(s Settings) Settings {
	if s.MaxPlayers < MinPlayers {
		s.MaxPlayers = e.maxPlayers
	}
	s.Category = strings.TrimSpace(s.Category)
	if s.Category == "" {
		s.Category = DefaultCategory
	}
	s.Difficulty = strings.TrimSpace(s.Difficulty)
	if s.Difficulty == "" {
		s.Difficulty = DefaultDifficulty
	}
	return s
}

// JoinSession adds playerID to a lobby. Joining twice is a no-op.
func (e *Engine) JoinSession(ctx context.Context, id int64, playerID string) (Session, error) {
	return e.mutate(id, func(en *entry) ([]Event, error) {
		s := &en.session
		if !e.players.Exists(ctx, playerID) {
			return nil, ErrPlayerNotFound
		}
		if len(s.Players) >= s.MaxPlayers {
			return nil, ErrSessionFull
		}
		if s.State != StateLobby {
			return nil, ErrSessionAlreadyStarted
		}
		if s.IsMember(playerID) {
			return nil, nil
		}

		s.Players = append(s.Players, playerID)
		s.Scores[playerID] = 0
		s.Version++

		logger.Info("session=%d player=%s joined (%d/%d)", s.ID, playerID, len(s.Players), s.MaxPlayers)
		ev := newEvent(EventPlayerJoined, en.snapshot())
		ev.PlayerID = playerID
		return []Event{ev}, nil
	})
}

// StartSession moves a lobby into play and starts the first turn with the
// first player to join as drawer.
func (e *Engine) StartSession(ctx context.Context, id int64) (Session, error) {
	return e.mutate(id, func(en *entry) ([]Event, error) {
		s := &en.session
		if len(s.Players) < MinPlayers {
			return nil, ErrInsufficientPlayers
		}
		if s.State != StateLobby {
			return nil, ErrSessionAlreadyStarted
		}

		w, err := e.drawWord(ctx, s)
		if err != nil {
			return nil, err
		}

		s.State = StatePlaying
		s.CurrentRound = 1
		turn := e.beginTurn(en, s.Players[0], w)
		started := newEvent(EventSessionStarted, en.snapshot())

		logger.Info("session=%d started with %d players", s.ID, len(s.Players))
		return []Event{started, turn}, nil
	})
}
