package navigation

import (
	"fmt"

	"backend-trailblazer/internal/apperr"
	"backend-trailblazer/internal/session"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, reg *Registry, gate session.Gate) {
	r.Get("/", func(c *fiber.Ctx) error {
		userID, ok := gate.CurrentUserID(c.UserContext())
		if !ok {
			return c.JSON(fiber.Map{"screen": LogIn})
		}
		return c.JSON(fiber.Map{"screen": reg.For(userID).Current()})
	})

	r.Post("/:event", func(c *fiber.Ctx) error {
		userID, err := session.Require(c.UserContext(), gate)
		if err != nil {
			return err
		}
		ev := Event(c.Params("event"))
		if !ev.Valid() {
			return apperr.Validation("Navigation Error", fmt.Sprintf("%q is not a navigation event", string(ev)))
		}
		return c.JSON(fiber.Map{"screen": reg.For(userID).Dispatch(ev)})
	})
}
