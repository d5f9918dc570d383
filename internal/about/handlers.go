package about

import (
	"github.com/gofiber/fiber/v2"

	"backend-tripgallery/internal/shared/httperr"
)

// RegisterRoutes serves GET /about on public and POST /about on admin.
func RegisterRoutes(public, admin fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	public.Get("/about", func(c *fiber.Ctx) error {
		content, err := svc.Get(c.Context())
		if err != nil {
			return httperr.From(err)
		}
		return c.JSON(content)
	})

	admin.Post("/about", authMiddleware, func(c *fiber.Ctx) error {
		var in Content
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid data")
		}
		if err := svc.Save(c.Context(), in); err != nil {
			return httperr.From(err)
		}
		return c.JSON(fiber.Map{"message": "Content updated"})
	})
}
