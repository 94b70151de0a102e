package api

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	localToken  = "user"
	localPlayer = "playerID"
	localRoom   = "sessionID"
)

// auth verifies the player token found at lookup ("header:Authorization"
// or "query:token").
func (s *server) auth(lookup string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: s.tokens.Secret()},
		TokenLookup: lookup,
		ContextKey:  localToken,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return errUnauthorized
		},
	})
}

// currentPlayer resolves the verified token to a registered player. The raw
// token is parsed again by the issuer, which also checks the issuer claim.
func (s *server) currentPlayer(c *fiber.Ctx) error {
	token, ok := c.Locals(localToken).(*jwt.Token)
	if !ok {
		return errUnauthorized
	}
	id, err := s.tokens.Parse(token.Raw)
	if err != nil {
		return errUnauthorized
	}
	if _, err := s.players.Get(id); err != nil {
		return errUnauthorized
	}
	c.Locals(localPlayer, id)
	return c.Next()
}

func playerID(c *fiber.Ctx) string {
	id, _ := c.Locals(localPlayer).(string)
	return id
}
