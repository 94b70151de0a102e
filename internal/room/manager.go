package room

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/apper-canvas/impact-sketch-rush/internal/game"
	"github.com/apper-canvas/impact-sketch-rush/logger"
)

// Engine is the part of the game engine rooms drive.
type Engine interface {
	Session(id int64) (game.Session, error)
	StartSession(ctx context.Context, id int64) (game.Session, error)
	SubmitGuess(ctx context.Context, id int64, playerID, text string) (game.GuessResult, error)
	SkipTurn(ctx context.Context, id int64, playerID string) (game.Session, error)
}

// Hub keeps one Room per session that has connected players and routes
// engine events to it.
type Hub struct {
	Rooms map[int64]*Room
	sync.RWMutex

	engine Engine
	limit  rate.Limit
	burst  int
}

func NewHub(engine Engine, msgsPerSecond float64, burst int) *Hub {
	return &Hub{
		Rooms:  make(map[int64]*Room),
		engine: engine,
		limit:  rate.Limit(msgsPerSecond),
		burst:  burst,
	}
}

// Room returns the room of session id, starting it if needed.
func (h *Hub) Room(id int64) (*Room, error) {
	s, err := h.engine.Session(id)
	if err != nil {
		return nil, err
	}

	h.Lock()
	defer h.Unlock()
	if r, ok := h.Rooms[id]; ok {
		return r, nil
	}

	r := newRoom(id, h)
	if s.State == game.StatePlaying {
		r.drawer = s.CurrentDrawer
	}
	h.Rooms[id] = r
	go r.Run()
	return r, nil
}

func (h *Hub) GetRoom(id int64) (*Room, bool) {
	h.RLock()
	defer h.RUnlock()
	r, ok := h.Rooms[id]
	return r, ok
}

func (h *Hub) remove(r *Room) {
	h.Lock()
	defer h.Unlock()
	if h.Rooms[r.ID] == r {
		delete(h.Rooms, r.ID)
	}
}

// Connect registers p in the room of session id. It retries once if the
// room shut down between lookup and registration.
func (h *Hub) Connect(id int64, p *Player) (*Room, error) {
	for attempt := 0; attempt < 2; attempt++ {
		r, err := h.Room(id)
		if err != nil {
			return nil, err
		}
		if r.join(p) {
			return r, nil
		}
		h.remove(r)
	}
	return nil, errRoomClosed
}

// Notify implements game.Notifier. Events for sessions without a room are
// dropped.
func (h *Hub) Notify(ev game.Event) {
	if h == nil {
		return
	}
	r, ok := h.GetRoom(ev.SessionID)
	if !ok {
		return
	}
	select {
	case r.events <- ev:
	case <-r.done:
	default:
		logger.Error("room=%d event queue full, dropped %s", r.ID, ev.Type)
	}
}

func (h *Hub) newLimiter() *rate.Limiter {
	if h.limit <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(h.limit, h.burst)
}
