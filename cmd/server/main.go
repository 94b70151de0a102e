package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/apper-canvas/impact-sketch-rush/internal/api"
	"github.com/apper-canvas/impact-sketch-rush/internal/config"
	"github.com/apper-canvas/impact-sketch-rush/internal/events"
	"github.com/apper-canvas/impact-sketch-rush/internal/game"
	"github.com/apper-canvas/impact-sketch-rush/internal/players"
	"github.com/apper-canvas/impact-sketch-rush/internal/room"
	"github.com/apper-canvas/impact-sketch-rush/internal/words"
	"github.com/apper-canvas/impact-sketch-rush/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("config: %v", err)
		os.Exit(1)
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	wp := words.Default()
	if cfg.WordsFile != "" {
		if wp, err = words.LoadFile(cfg.WordsFile); err != nil {
			logger.Error("words: %v", err)
			os.Exit(1)
		}
	}

	dir := players.NewDirectory()
	tokens := players.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	var hub *room.Hub
	notifiers := game.Notifiers{game.NotifierFunc(func(ev game.Event) { hub.Notify(ev) })}

	var publisher *events.RedisPublisher
	if cfg.RedisURL != "" {
		publisher = events.NewRedisPublisher(cfg.RedisURL, cfg.RedisPrefix)
		if err := publisher.Ping(); err != nil {
			logger.Warn("redis unreachable, events will be retried per publish: %v", err)
		}
		notifiers = append(notifiers, publisher)
	}

	engine := game.NewEngine(wp, dir,
		game.WithNotifier(notifiers),
		game.WithMaxPlayers(cfg.MaxPlayers),
	)
	hub = room.NewHub(engine, cfg.GuessRate, cfg.GuessBurst)

	app := api.New(api.Deps{
		Engine:      engine,
		Players:     dir,
		Tokens:      tokens,
		Words:       wp,
		Hub:         hub,
		CORSOrigins: cfg.CORSOrigins,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			logger.Error("shutdown: %v", err)
		}
	}()

	logger.Info("Server %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		logger.Error("listen: %v", err)
	}

	engine.Close()
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("redis: %v", err)
		}
	}
}
