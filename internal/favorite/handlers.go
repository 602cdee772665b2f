package favorite

import (
	"backend-trailblazer/internal/record"

	"github.com/gofiber/fiber/v2"
)

type toggleRequest struct {
	Trail record.Trail `json:"trail"`
	State State        `json:"state"`
}

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/", func(c *fiber.Ctx) error {
		trails, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"trails": trails})
	})

	r.Get("/:trailID", func(c *fiber.Ctx) error {
		state, err := svc.InitialState(c.UserContext(), c.Params("trailID"), c.QueryBool("already_added"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"state": state})
	})

	r.Post("/", func(c *fiber.Ctx) error {
		var trail record.Trail
		if err := c.BodyParser(&trail); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if err := svc.Add(c.UserContext(), trail); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"state": Favorited})
	})

	r.Delete("/:trailID", func(c *fiber.Ctx) error {
		removed, err := svc.Remove(c.UserContext(), c.Params("trailID"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"removed": removed, "state": NotFavorited})
	})

	r.Post("/toggle", func(c *fiber.Ctx) error {
		var req toggleRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		state, err := svc.Toggle(c.UserContext(), req.Trail, req.State)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"state": state})
	})
}
