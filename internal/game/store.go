package game

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// entry is the live record of one session. mu serializes every mutation of
// the session so its invariants hold under concurrent callers.
type entry struct {
	mu       sync.Mutex
	session  Session
	credited map[string]bool

	// stopCountdown cancels the countdown of the active turn. Set when a
	// turn is armed, called and cleared when it ends.
	stopCountdown context.CancelFunc

	// ended is the previous turn when a correct guess closed it.
	ended endedTurn

	// outbox holds committed events not yet handed to the notifier, in
	// commit order. draining is set while one goroutine delivers them.
	outbox   []Event
	draining bool
}

// endedTurn remembers a turn won by a correct guess so that guesses aimed at
// it but sequenced after the winner are judged against its word.
type endedTurn struct {
	turn   int
	word   string
	drawer string
	winner string
}

// accepts reports whether normalized guess by playerID is a late correct
// guess for t.
func (t endedTurn) accepts(playerID, guess string) bool {
	return t.turn > 0 && guess != "" &&
		playerID != t.drawer && playerID != t.winner &&
		guess == normalize(t.word)
}

func (en *entry) snapshot() Session {
	return en.session.clone()
}

func (en *entry) stopTimer() {
	if en.stopCountdown != nil {
		en.stopCountdown()
		en.stopCountdown = nil
	}
}

// Store keeps sessions in memory, keyed by id. Sessions are never removed.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*entry
	lastID   int64
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[int64]*entry),
	}
}

// create assigns the next id to s and stores it.
func (st *Store) create(s Session) *entry {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.lastID++
	s.ID = st.lastID
	en := &entry{session: s, credited: make(map[string]bool)}
	st.sessions[s.ID] = en
	return en
}

func (st *Store) get(id int64) (*entry, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	en, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return en, nil
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// List returns snapshots of every session ordered by id.
func (st *Store) List() []Session {
	st.mu.RLock()
	entries := make([]*entry, 0, len(st.sessions))
	for _, en := range st.sessions {
		entries = append(entries, en)
	}
	st.mu.RUnlock()

	out := make([]Session, 0, len(entries))
	for _, en := range entries {
		en.mu.Lock()
		out = append(out, en.snapshot())
		en.mu.Unlock()
	}
	slices.SortFunc(out, func(a, b Session) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func (st *Store) each(fn func(*entry)) {
	st.mu.RLock()
	entries := make([]*entry, 0, len(st.sessions))
	for _, en := range st.sessions {
		entries = append(entries, en)
	}
	st.mu.RUnlock()
	for _, en := range entries {
		fn(en)
	}
}
