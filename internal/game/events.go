package game

type EventType string

const (
	EventSessionCreated  EventType = "session_created"
	EventPlayerJoined    EventType = "player_joined"
	EventSessionStarted  EventType = "session_started"
	EventTurnStarted     EventType = "turn_started"
	EventTick            EventType = "tick"
	EventGuess           EventType = "guess"
	EventTurnEnded       EventType = "turn_ended"
	EventSessionFinished EventType = "session_finished"
)

// AdvanceReason says why a turn ended.
type AdvanceReason string

const (
	ReasonTimeout      AdvanceReason = "timeout"
	ReasonCorrectGuess AdvanceReason = "correct_guess"
	ReasonSkipped      AdvanceReason = "skipped"
)

// Event describes a committed change to a session. Session is the snapshot
// right after the change.
type Event struct {
	Type      EventType     `json:"type"`
	SessionID int64         `json:"sessionId"`
	Session   Session       `json:"session"`
	PlayerID  string        `json:"playerId,omitempty"`
	Guess     *Guess        `json:"guess,omitempty"`
	Points    int           `json:"points,omitempty"`
	Reason    AdvanceReason `json:"reason,omitempty"`
	// Word is the word of a turn that just ended; set on turn_ended only.
	Word string `json:"word,omitempty"`
}

// Public returns a copy safe for every player: the text of a correct guess
// is blanked since it is the word.
func (ev Event) Public() Event {
	if ev.Guess != nil && ev.Guess.IsCorrect {
		g := *ev.Guess
		g.Text = ""
		ev.Guess = &g
	}
	return ev
}

// Notifier receives events after the session lock is released, in commit
// order for each session. Notify must not block for long; slow consumers
// should queue.
type Notifier interface {
	Notify(Event)
}

type NotifierFunc func(Event)

func (f NotifierFunc) Notify(ev Event) { f(ev) }

// Notifiers fans an event out to each notifier in order.
type Notifiers []Notifier

func (ns Notifiers) Notify(ev Event) {
	for _, n := range ns {
		if n != nil {
			n.Notify(ev)
		}
	}
}

func newEvent(t EventType, s Session) Event {
	return Event{Type: t, SessionID: s.ID, Session: s}
}
