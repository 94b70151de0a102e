package room

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"golang.org/x/time/rate"

	"github.com/apper-canvas/impact-sketch-rush/logger"
)

const (
	pingInterval = 54 * time.Second
	writeWait    = 10 * time.Second
	sendBuffer   = 256
)

var (
	errRateLimited = errors.New("slow down")
	errNotDrawing  = errors.New("only the drawer can draw")
	errNotHost     = errors.New("only the host can start the game")
)

// Conn is the websocket surface a Player needs. *websocket.Conn from
// gofiber/contrib/websocket satisfies it.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type Player struct {
	ID      string             `json:"playerId"`
	conn    Conn               `json:"-"`
	send    chan []byte        `json:"-"`
	ctx     context.Context    `json:"-"`
	cancel  context.CancelFunc `json:"-"`
	once    sync.Once          `json:"-"`
	limiter *rate.Limiter      `json:"-"`
}

func (h *Hub) NewPlayer(id string, c Conn) *Player {
	ctx, cancel := context.WithCancel(context.Background())
	return &Player{
		ID:      id,
		conn:    c,
		send:    make(chan []byte, sendBuffer),
		ctx:     ctx,
		cancel:  cancel,
		limiter: h.newLimiter(),
	}
}

func (p *Player) cleanup() {
	p.once.Do(func() {
		p.cancel() // Cancel context first
		p.conn.Close()
	})
}

// queue hands msg to the write pump without blocking; a player whose buffer
// is full misses the message.
func (p *Player) queue(msg []byte) {
	select {
	case <-p.ctx.Done():
	case p.send <- msg:
	default:
		logger.Error("player %s send buffer full, dropping message", p.ID)
	}
}

func (p *Player) ReadPump(r *Room) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("player %s readPump panic: %v", p.ID, rec)
		}
		logger.Debug("player %s readPump exiting", p.ID)
		p.cleanup()
		r.leave(p)
	}()

	for {
		_, msg, err := p.conn.ReadMessage()
		if err != nil {
			logger.Debug("read error for player %s: %v", p.ID, err)
			return
		}
		if p.ctx.Err() != nil {
			return
		}

		var wsMsg WSMessage
		if err := json.Unmarshal(msg, &wsMsg); err != nil {
			logger.Info("invalid WS message from player %s: %v", p.ID, err)
			continue
		}

		if !p.limiter.Allow() {
			r.sendError(p, errRateLimited)
			continue
		}

		p.handle(r, wsMsg)
	}
}

func (p *Player) handle(r *Room, wsMsg WSMessage) {
	engine := r.hub.engine

	switch wsMsg.Type {
	case TypeStartGame:
		s, err := engine.Session(r.ID)
		if err != nil {
			r.sendError(p, err)
			return
		}
		if s.HostID != p.ID {
			r.sendError(p, errNotHost)
			return
		}
		if _, err := engine.StartSession(p.ctx, r.ID); err != nil {
			r.sendError(p, err)
		}

	case TypeGuess:
		var payload struct {
			Guess   string `json:"guess"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(wsMsg.Data, &payload); err != nil {
			logger.Info("player %s invalid guess payload: %v", p.ID, err)
			return
		}
		text := payload.Guess
		if strings.TrimSpace(text) == "" {
			text = payload.Message
		}

		res, err := engine.SubmitGuess(p.ctx, r.ID, p.ID, text)
		if err != nil {
			r.sendError(p, err)
			return
		}
		r.WsMsgTo(p, TypeGuessResult, guessResultPayload{
			Guess:     res.Guess,
			IsCorrect: res.IsCorrect,
			Points:    res.Points,
			Session:   res.Session.ViewFor(p.ID),
		})

	case TypeSkipTurn:
		if _, err := engine.SkipTurn(p.ctx, r.ID, p.ID); err != nil {
			r.sendError(p, err)
		}

	case TypeStroke:
		if !r.isDrawer(p) {
			r.sendError(p, errNotDrawing)
			return
		}
		r.Mu.Lock()
		r.Strokes = append(r.Strokes, wsMsg.Data)
		r.Mu.Unlock()
		r.BroadcastWSExcept(p, TypeStroke, wsMsg.Data)

	case TypeDrawPoint:
		if !r.isDrawer(p) {
			return
		}
		r.BroadcastWSExcept(p, TypeDrawPoint, wsMsg.Data)

	case TypeUndo:
		if !r.isDrawer(p) {
			return
		}
		r.Mu.Lock()
		if len(r.Strokes) > 0 {
			r.Strokes = r.Strokes[:len(r.Strokes)-1]
		}
		r.Mu.Unlock()
		r.BroadcastWS(TypeUndo, struct{}{})

	case TypeClear:
		if !r.isDrawer(p) {
			return
		}
		r.Mu.Lock()
		r.Strokes = nil
		r.Mu.Unlock()
		r.BroadcastWS(TypeClear, struct{}{})

	default:
		logger.Debug("player %s sent unknown message type %q", p.ID, wsMsg.Type)
	}
}

func (p *Player) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		p.cleanup()
	}()

	for {
		select {
		case <-p.ctx.Done():
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			p.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case msg := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("write error for player %s: %v", p.ID, err)
				return
			}

		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Debug("ping error for player %s: %v", p.ID, err)
				return
			}
		}
	}
}
