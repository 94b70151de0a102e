package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/apper-canvas/impact-sketch-rush/internal/game"
	"github.com/apper-canvas/impact-sketch-rush/internal/players"
	"github.com/apper-canvas/impact-sketch-rush/logger"
)

var (
	errBadRequest   = fiber.NewError(fiber.StatusBadRequest, "bad_request")
	errUnauthorized = fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	errNotHost      = fiber.NewError(fiber.StatusForbidden, "not_host")
	errNotMember    = fiber.NewError(fiber.StatusForbidden, "not_a_member")
)

type errorBody struct {
	Error    string `json:"error"`
	Terminal bool   `json:"terminal"`
}

var knownErrors = []struct {
	err    error
	status int
	code   string
}{
	{game.ErrSessionNotFound, fiber.StatusNotFound, "session_not_found"},
	{game.ErrPlayerNotFound, fiber.StatusNotFound, "player_not_found"},
	{players.ErrPlayerNotFound, fiber.StatusNotFound, "player_not_found"},
	{game.ErrSessionFull, fiber.StatusConflict, "session_full"},
	{game.ErrSessionAlreadyStarted, fiber.StatusConflict, "session_already_started"},
	{game.ErrSessionNotPlaying, fiber.StatusConflict, "session_not_playing"},
	{game.ErrInsufficientPlayers, fiber.StatusBadRequest, "insufficient_players"},
	{game.ErrNotYourTurnToGuess, fiber.StatusForbidden, "not_your_turn_to_guess"},
	{game.ErrNotDrawer, fiber.StatusForbidden, "not_drawer"},
	{game.ErrGuessTooLong, fiber.StatusUnprocessableEntity, "guess_too_long"},
}

func classify(err error) (int, string) {
	for _, k := range knownErrors {
		if errors.Is(err, k.err) {
			return k.status, k.code
		}
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}
	return fiber.StatusInternalServerError, "internal"
}

func errorHandler(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	if status >= fiber.StatusInternalServerError {
		logger.Error("%s %s: %v", c.Method(), c.OriginalURL(), err)
	}
	return c.Status(status).JSON(errorBody{Error: code, Terminal: game.IsTerminal(err)})
}
