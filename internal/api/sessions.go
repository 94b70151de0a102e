package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/apper-canvas/impact-sketch-rush/internal/game"
	"github.com/apper-canvas/impact-sketch-rush/internal/players"
)

type createRequest struct {
	MaxPlayers int    `json:"maxPlayers"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

type guessRequest struct {
	Text string `json:"text"`
}

type guessResponse struct {
	Guess     game.Guess `json:"guess"`
	IsCorrect bool       `json:"isCorrect"`
	Points    int        `json:"points"`
	Session   game.View  `json:"session"`
}

type sessionResponse struct {
	game.View
	Profiles []players.Player `json:"profiles"`
}

type rankedPlayer struct {
	game.LeaderboardEntry
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

func sessionID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, errBadRequest
	}
	return int64(id), nil
}

func (s *server) listSessions(c *fiber.Ctx) error {
	sessions := s.engine.Sessions()
	views := make([]game.View, 0, len(sessions))
	for _, sess := range sessions {
		views = append(views, sess.ViewFor(""))
	}
	return c.JSON(views)
}

func (s *server) createSession(c *fiber.Ctx) error {
	var req createRequest
	if err := parseOptionalBody(c, &req); err != nil {
		return err
	}

	sess, err := s.engine.CreateSession(c.UserContext(), playerID(c), game.Settings{
		MaxPlayers: req.MaxPlayers,
		Category:   req.Category,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(sess.ViewFor(playerID(c)))
}

func (s *server) getSession(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	sess, err := s.engine.Session(id)
	if err != nil {
		return err
	}
	return c.JSON(sessionResponse{
		View:     sess.ViewFor(playerID(c)),
		Profiles: s.players.GetMany(sess.Players),
	})
}

func (s *server) joinSession(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	sess, err := s.engine.JoinSession(c.UserContext(), id, playerID(c))
	if err != nil {
		return err
	}
	return c.JSON(sess.ViewFor(playerID(c)))
}

func (s *server) startSession(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	sess, err := s.engine.Session(id)
	if err != nil {
		return err
	}
	if sess.HostID != playerID(c) {
		return errNotHost
	}

	sess, err = s.engine.StartSession(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(sess.ViewFor(playerID(c)))
}

func (s *server) submitGuess(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	var req guessRequest
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest
	}

	res, err := s.engine.SubmitGuess(c.UserContext(), id, playerID(c), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(guessResponse{
		Guess:     res.Guess,
		IsCorrect: res.IsCorrect,
		Points:    res.Points,
		Session:   res.Session.ViewFor(playerID(c)),
	})
}

func (s *server) skipTurn(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	sess, err := s.engine.SkipTurn(c.UserContext(), id, playerID(c))
	if err != nil {
		return err
	}
	return c.JSON(sess.ViewFor(playerID(c)))
}

func (s *server) leaderboard(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	entries, err := s.engine.Leaderboard(id)
	if err != nil {
		return err
	}

	ranked := make([]rankedPlayer, len(entries))
	for i, e := range entries {
		ranked[i] = rankedPlayer{LeaderboardEntry: e}
		if p, err := s.players.Get(e.PlayerID); err == nil {
			ranked[i].Name = p.Name
			ranked[i].Avatar = p.Avatar
		}
	}
	return c.JSON(ranked)
}
