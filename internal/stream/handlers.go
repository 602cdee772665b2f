package stream

import (
	"backend-trailblazer/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes mounts /ws, which streams the signed-in user's favorite
// events. Requests without a live session are refused before the upgrade.
func RegisterRoutes(r fiber.Router, hub *Hub, gate session.Gate) {
	r.Get("/ws", func(c *fiber.Ctx) error {
		userID, err := session.Require(c.UserContext(), gate)
		if err != nil {
			return err
		}
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		c.Locals("stream_user", userID)
		return c.Next()
	}, websocket.New(func(c *websocket.Conn) {
		userID, _ := c.Locals("stream_user").(string)
		client := hub.Register(userID)

		done := make(chan struct{})
		go func() {
			for msg := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					break
				}
			}
			close(done)
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
		hub.Unregister(client)
		<-done
	}))
}
