package api

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/apper-canvas/impact-sketch-rush/logger"
)

// admitToRoom lets only members of an existing session upgrade.
func (s *server) admitToRoom(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	sess, err := s.engine.Session(id)
	if err != nil {
		return err
	}
	if !sess.IsMember(playerID(c)) {
		return errNotMember
	}
	c.Locals(localRoom, id)
	return c.Next()
}

func (s *server) serveWS(c *websocket.Conn) {
	id, _ := c.Locals(localRoom).(int64)
	pid, _ := c.Locals(localPlayer).(string)

	p := s.hub.NewPlayer(pid, c)
	r, err := s.hub.Connect(id, p)
	if err != nil {
		logger.Error("session=%d player=%s connect: %v", id, pid, err)
		c.Close()
		return
	}
	logger.Info("session=%d player=%s connected", id, pid)

	go p.ReadPump(r)
	p.WritePump()
}
