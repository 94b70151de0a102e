package game

import (
	"maps"
	"slices"
	"time"
)

const (
	TotalRounds       = 3
	TurnSeconds       = 60
	DefaultMaxPlayers = 10
	MinPlayers        = 2
	MaxGuessLength    = 100

	DefaultCategory   = "all"
	DefaultDifficulty = "medium"
)

type State string

const (
	StateLobby    State = "lobby"
	StatePlaying  State = "playing"
	StateFinished State = "finished"
)

// Guess is one submission in the current turn. It never changes after it is
// recorded.
type Guess struct {
	ID       int    `json:"id"`
	PlayerID string `json:"playerId"`
	// Turn is the turn the guess was judged against. It is the previous
	// turn for a correct guess that arrived just after someone else won it.
	Turn      int       `json:"turn"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	IsCorrect bool      `json:"isCorrect"`
	// Close marks a wrong guess within a couple of edits of the word.
	Close bool `json:"close,omitempty"`
}

// Clue is the part of the current word every player may see.
type Clue struct {
	Hint     string `json:"hint,omitempty"`
	Category string `json:"category,omitempty"`
}

// Settings are chosen at creation. Zero values mean defaults.
type Settings struct {
	MaxPlayers int    `json:"maxPlayers"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

// Session is a snapshot of a game session. Snapshots are copies; mutating one
// has no effect on the engine. The secret word is kept out of the exported
// fields and out of JSON, see SecretWord and ViewFor.
type Session struct {
	ID            int64          `json:"id"`
	HostID        string         `json:"hostId"`
	Players       []string       `json:"players"`
	MaxPlayers    int            `json:"maxPlayers"`
	State         State          `json:"state"`
	CurrentRound  int            `json:"currentRound"`
	TotalRounds   int            `json:"totalRounds"`
	CurrentDrawer string         `json:"currentDrawer,omitempty"`
	Turn          int            `json:"turn"`
	TimeRemaining int            `json:"timeRemaining"`
	Guesses       []Guess        `json:"guesses"`
	Scores        map[string]int `json:"scores"`
	Category      string         `json:"category"`
	Difficulty    string         `json:"difficulty"`
	Clue          Clue           `json:"clue"`
	Version       uint64         `json:"version"`

	word string
}

// SecretWord is the drawer-only accessor for the current word. Presentation
// code must call it only when rendering for CurrentDrawer.
func (s Session) SecretWord() string {
	return s.word
}

func (s Session) IsMember(playerID string) bool {
	return slices.Contains(s.Players, playerID)
}

func (s Session) clone() Session {
	c := s
	c.Players = slices.Clone(s.Players)
	c.Guesses = slices.Clone(s.Guesses)
	c.Scores = maps.Clone(s.Scores)
	if c.Guesses == nil {
		c.Guesses = []Guess{}
	}
	return c
}

// View is what a given player is allowed to see.
type View struct {
	Session
	Viewer   string `json:"viewer,omitempty"`
	IsDrawer bool   `json:"isDrawer"`
	Word     string `json:"word,omitempty"`
}

// ViewFor projects the session for playerID: the word is included only for
// the drawer of a turn in play, and correct guesses by others lose their text.
func (s Session) ViewFor(playerID string) View {
	v := View{Session: s.clone(), Viewer: playerID}
	if s.State == StatePlaying && playerID != "" && playerID == s.CurrentDrawer {
		v.IsDrawer = true
		v.Word = s.word
		return v
	}
	for i, g := range v.Guesses {
		if g.IsCorrect && g.PlayerID != playerID {
			v.Guesses[i].Text = ""
		}
	}
	return v
}

// Points for a correct guess with secondsLeft on the clock: 1 to 10, one
// point per started six seconds, never below 1.
func Points(secondsLeft int) int {
	if secondsLeft < 0 {
		secondsLeft = 0
	}
	return max(1, (secondsLeft+5)/6)
}
