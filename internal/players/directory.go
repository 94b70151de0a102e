package players

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/apper-canvas/impact-sketch-rush/pkg/utils"
)

var ErrPlayerNotFound = errors.New("player not found")

const maxNameLength = 24

var avatars = []string{
	"🎨", "🎭", "🎪", "🎯", "🎲", "🎸", "🎺", "🎹", "🎤", "🎧",
	"🏆", "🏅", "🎖️", "🏵️", "🌟", "⭐", "✨", "💫", "🔥", "💎",
}

// Player is display data only; the game engine works with IDs.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Directory is an in-memory registry of players.
type Directory struct {
	mu      sync.RWMutex
	players map[string]Player
	order   int
}

func NewDirectory() *Directory {
	return &Directory{players: make(map[string]Player)}
}

// Register creates a player. A blank name becomes "Player N".
func (d *Directory) Register(name string) (Player, error) {
	id, err := utils.ShortID(6)
	if err != nil {
		return Player{}, fmt.Errorf("register player: %w", err)
	}

	name = strings.TrimSpace(name)
	if r := []rune(name); len(r) > maxNameLength {
		name = string(r[:maxNameLength])
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.order++
	if name == "" {
		name = fmt.Sprintf("Player %d", d.order)
	}
	p := Player{
		ID:     id,
		Name:   name,
		Avatar: avatars[rand.IntN(len(avatars))],
	}
	d.players[id] = p
	return p, nil
}

func (d *Directory) Get(id string) (Player, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.players[id]
	if !ok {
		return Player{}, ErrPlayerNotFound
	}
	return p, nil
}

// GetMany returns the known players among ids, keeping the order of ids.
func (d *Directory) GetMany(ids []string) []Player {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Player, 0, len(ids))
	for _, id := range ids {
		if p, ok := d.players[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Exists reports whether id is a registered player.
func (d *Directory) Exists(_ context.Context, id string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.players[id]
	return ok
}
