package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/apper-canvas/impact-sketch-rush/internal/players"
)

type registerRequest struct {
	Name string `json:"name"`
}

type registerResponse struct {
	Player players.Player `json:"player"`
	Token  string         `json:"token"`
}

func (s *server) registerPlayer(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseOptionalBody(c, &req); err != nil {
		return err
	}

	p, err := s.players.Register(req.Name)
	if err != nil {
		return err
	}
	token, err := s.tokens.Issue(p.ID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(registerResponse{Player: p, Token: token})
}

func (s *server) getPlayer(c *fiber.Ctx) error {
	p, err := s.players.Get(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (s *server) categories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"categories": s.words.Categories()})
}

// parseOptionalBody decodes a JSON body into v; an empty body leaves v as is.
func parseOptionalBody(c *fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(v); err != nil {
		return errBadRequest
	}
	return nil
}
