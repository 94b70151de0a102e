package room

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/apper-canvas/impact-sketch-rush/internal/game"
	"github.com/apper-canvas/impact-sketch-rush/logger"
)

var errRoomClosed = errors.New("room closed")

// Room relays session events and drawing data between the connected
// players of one session.
type Room struct {
	ID         int64
	Players    map[string]*Player
	Register   chan *Player
	Unregister chan *Player
	Broadcast  chan []byte
	events     chan game.Event
	done       chan struct{}
	Mu         sync.RWMutex
	Strokes    []json.RawMessage

	hub    *Hub
	drawer string
}

func newRoom(id int64, h *Hub) *Room {
	return &Room{
		ID:         id,
		Players:    make(map[string]*Player),
		Register:   make(chan *Player, 10),
		Unregister: make(chan *Player, 10),
		Broadcast:  make(chan []byte, 100),
		events:     make(chan game.Event, 256),
		done:       make(chan struct{}),
		hub:        h,
	}
}

func (r *Room) join(p *Player) bool {
	select {
	case r.Register <- p:
		return true
	case <-r.done:
		return false
	}
}

func (r *Room) leave(p *Player) {
	select {
	case r.Unregister <- p:
	case <-r.done:
	}
}

func (r *Room) isDrawer(p *Player) bool {
	r.Mu.RLock()
	defer r.Mu.RUnlock()
	return p != nil && p.ID == r.drawer
}

func (r *Room) broadcast(msg []byte) {
	select {
	case r.Broadcast <- msg:
	case <-r.done:
	}
}

// fanout queues msg for every player. Safe to call from Run.
func (r *Room) fanout(msg []byte) {
	r.broadcastExcept(nil, msg)
}

func (r *Room) broadcastExcept(sender *Player, msg []byte) {
	r.Mu.RLock()
	for _, pl := range r.Players {
		if pl == sender {
			continue
		}
		pl.queue(msg)
	}
	r.Mu.RUnlock()
}

func (r *Room) BroadcastWS(t string, d any) {
	if payload, err := encode(t, d); err == nil {
		r.broadcast(payload)
	}
}

func (r *Room) BroadcastWSExcept(s *Player, t string, d any) {
	if payload, err := encode(t, d); err == nil {
		r.broadcastExcept(s, payload)
	}
}

// WsMsgTo sends one message to p only.
func (r *Room) WsMsgTo(p *Player, t string, d any) {
	payload, err := encode(t, d)
	if err != nil {
		logger.Error("room=%d marshal %s for player %s: %v", r.ID, t, p.ID, err)
		return
	}
	p.queue(payload)
}

func (r *Room) sendError(p *Player, err error) {
	r.WsMsgTo(p, TypeError, errorPayload{Error: err.Error(), Terminal: game.IsTerminal(err)})
}

func (r *Room) SendGameState(p *Player) {
	s, err := r.hub.engine.Session(r.ID)
	if err != nil {
		r.sendError(p, err)
		return
	}

	r.Mu.RLock()
	strokes := make([]json.RawMessage, len(r.Strokes))
	copy(strokes, r.Strokes)
	connected := make([]string, 0, len(r.Players))
	for id := range r.Players {
		connected = append(connected, id)
	}
	r.Mu.RUnlock()

	r.WsMsgTo(p, TypeGameState, RoomSnapshot{
		RoomID:    r.ID,
		Session:   s.ViewFor(p.ID),
		Connected: connected,
		Strokes:   strokes,
	})
}

// deliver renders ev for every connected player. Each player gets their own
// view so the word only ever reaches the drawer.
func (r *Room) deliver(ev game.Event) {
	r.Mu.Lock()
	switch ev.Type {
	case game.EventTurnStarted:
		r.drawer = ev.Session.CurrentDrawer
		r.Strokes = nil
	case game.EventSessionFinished:
		r.drawer = ""
	}
	players := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, p)
	}
	r.Mu.Unlock()

	if ev.Type == game.EventTick {
		if msg, err := encode(string(ev.Type), tickPayload{Turn: ev.Session.Turn, TimeRemaining: ev.Session.TimeRemaining}); err == nil {
			r.fanout(msg)
		}
		return
	}

	public := ev.Public()
	for _, p := range players {
		out := public
		if ev.Type == game.EventGuess && ev.PlayerID == p.ID {
			out = ev
		}
		r.WsMsgTo(p, string(ev.Type), eventPayload{
			Session:  out.Session.ViewFor(p.ID),
			PlayerID: out.PlayerID,
			Guess:    out.Guess,
			Points:   out.Points,
			Reason:   out.Reason,
			Word:     out.Word,
		})
	}
}

func (r *Room) Run() {
	defer close(r.done)

	for {
		select {

		case player := <-r.Register:
			r.Mu.Lock()
			if old, ok := r.Players[player.ID]; ok && old != player {
				old.cleanup()
			}
			r.Players[player.ID] = player
			r.Mu.Unlock()

			r.SendGameState(player)
			r.BroadcastWSExcept(player, TypeUserJoined, map[string]string{"playerId": player.ID})

		case player := <-r.Unregister:
			r.Mu.Lock()
			cur, exists := r.Players[player.ID]
			if !exists || cur != player {
				// a newer connection of the same player replaced this one
				r.Mu.Unlock()
				continue
			}
			delete(r.Players, player.ID)

			// clean up empty room
			if len(r.Players) == 0 {
				r.Mu.Unlock()
				r.hub.remove(r)
				logger.Info("room=%d closed, no players left", r.ID)
				return
			}
			r.Mu.Unlock()
			if msg, err := encode(TypeUserLeft, map[string]string{"playerId": player.ID}); err == nil {
				r.fanout(msg)
			}

		case ev := <-r.events:
			r.deliver(ev)

		case msg := <-r.Broadcast:
			r.fanout(msg)
		}
	}
}

func encode(t string, d any) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return json.Marshal(WSMessage{Type: t, Data: data})
}
