// Package api exposes the game engine over HTTP and upgrades websocket
// connections into the room hub.
package api

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/apper-canvas/impact-sketch-rush/internal/game"
	"github.com/apper-canvas/impact-sketch-rush/internal/players"
	"github.com/apper-canvas/impact-sketch-rush/internal/room"
	"github.com/apper-canvas/impact-sketch-rush/internal/words"
	"github.com/apper-canvas/impact-sketch-rush/logger"
)

// Deps is everything the HTTP layer talks to.
type Deps struct {
	Engine      *game.Engine
	Players     *players.Directory
	Tokens      *players.TokenIssuer
	Words       *words.Provider
	Hub         *room.Hub
	CORSOrigins string
}

type server struct {
	engine  *game.Engine
	players *players.Directory
	tokens  *players.TokenIssuer
	words   *words.Provider
	hub     *room.Hub
}

// New builds the fiber app with every route mounted.
func New(d Deps) *fiber.App {
	s := &server{
		engine:  d.Engine,
		players: d.Players,
		tokens:  d.Tokens,
		words:   d.Words,
		hub:     d.Hub,
	}

	app := fiber.New(fiber.Config{
		AppName:               "sketch-rush",
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	origins := d.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(requestLogger)

	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	app.Post("/players", s.registerPlayer)
	app.Get("/players/:id", s.getPlayer)
	app.Get("/words/categories", s.categories)

	app.Get("/sessions", s.listSessions)
	app.Get("/sessions/:id/leaderboard", s.leaderboard)

	authed := app.Group("/sessions", s.auth("header:Authorization"), s.currentPlayer)
	authed.Post("/", s.createSession)
	authed.Get("/:id", s.getSession)
	authed.Post("/:id/join", s.joinSession)
	authed.Post("/:id/start", s.startSession)
	authed.Post("/:id/guesses", s.submitGuess)
	authed.Post("/:id/skip", s.skipTurn)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/:id", s.auth("query:token"), s.currentPlayer, s.admitToRoom, websocket.New(s.serveWS))

	return app
}

// requestLogger logs one line per request with the final status.
func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	if err := c.Next(); err != nil {
		if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
			return herr
		}
	}
	logger.Debug("%s %s -> %d (%s)", c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
	return nil
}
