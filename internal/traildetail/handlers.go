package traildetail

import (
	"backend-trailblazer/internal/record"

	"github.com/gofiber/fiber/v2"
)

type detailRequest struct {
	Trail        record.Trail `json:"trail"`
	AlreadyAdded bool         `json:"already_added"`
}

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/detail", func(c *fiber.Ctx) error {
		var req detailRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		view, err := svc.Detail(c.UserContext(), req.Trail, req.AlreadyAdded)
		if err != nil {
			return err
		}
		return c.JSON(view)
	})
}
