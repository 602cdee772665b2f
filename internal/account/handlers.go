package account

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
)

const (
	MaxImageBytes = 10 << 20
	// MaxBodyBytes leaves room for the text fields of a sign-up form.
	MaxBodyBytes = MaxImageBytes + 1<<20
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/signup", func(c *fiber.Ctx) error {
		var in SignUpInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		image, err := formImage(c)
		if err != nil {
			return err
		}
		res, err := svc.SignUp(c.UserContext(), in, image)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	})

	r.Post("/login", func(c *fiber.Ctx) error {
		var in LoginInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		res, err := svc.SignIn(c.UserContext(), in)
		if err != nil {
			return err
		}
		return c.JSON(res)
	})

	r.Post("/logout", func(c *fiber.Ctx) error {
		next, err := svc.SignOut(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"next": next})
	})

	r.Get("/profile", func(c *fiber.Ctx) error {
		p, err := svc.Profile(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(p)
	})

	r.Delete("/", func(c *fiber.Ctx) error {
		next, err := svc.DeleteAccount(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"next": next})
	})
}

// formImage reads the optional "image" part of a multipart sign-up.
func formImage(c *fiber.Ctx) (*Image, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		// no multipart body or no image part
		return nil, nil
	}
	if fh.Size > MaxImageBytes {
		return nil, fiber.NewError(fiber.StatusRequestEntityTooLarge, "image too large")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "unreadable image")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "unreadable image")
	}
	return &Image{Data: data, ContentType: fh.Header.Get("Content-Type")}, nil
}
