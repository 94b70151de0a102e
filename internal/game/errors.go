package game

import "errors"

var (
	ErrSessionNotFound       = errors.New("session not found")
	ErrSessionFull           = errors.New("session is full")
	ErrSessionAlreadyStarted = errors.New("session already started")
	ErrInsufficientPlayers   = errors.New("need at least 2 players")
	ErrNotYourTurnToGuess    = errors.New("not your turn to guess")
	ErrPlayerNotFound        = errors.New("player not found")
	ErrGuessTooLong          = errors.New("guess is too long")
	ErrNotDrawer             = errors.New("only the current drawer can skip the turn")
	ErrSessionNotPlaying     = errors.New("session is not in play")
)

// IsTerminal reports whether err ends the caller's current flow (the
// session or player is gone) rather than being worth a retry.
func IsTerminal(err error) bool {
	return errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrPlayerNotFound)
}
