package trailsearch

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/search", func(c *fiber.Ctx) error {
		res, err := svc.Search(c.UserContext(), c.Query("q"))
		if err != nil {
			return err
		}
		return c.JSON(res)
	})
}
