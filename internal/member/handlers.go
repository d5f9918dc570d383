package member

import (
	"github.com/gofiber/fiber/v2"

	"backend-tripgallery/internal/content"
	"backend-tripgallery/internal/shared/httperr"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		members, err := svc.List(c.Context())
		if err != nil {
			return httperr.From(err)
		}
		return c.JSON(members)
	})

	r.Get("/:slug", authMiddleware, func(c *fiber.Ctx) error {
		m, err := svc.Get(c.Context(), c.Params("slug"))
		if err != nil {
			return httperr.From(err)
		}
		return c.JSON(m)
	})

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var in content.MemberInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		slug, err := svc.Create(c.Context(), in)
		if err != nil {
			return httperr.From(err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"slug": slug})
	})

	r.Put("/:slug", authMiddleware, func(c *fiber.Ctx) error {
		var in content.MemberInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := svc.Update(c.Context(), c.Params("slug"), in); err != nil {
			return httperr.From(err)
		}
		return c.JSON(fiber.Map{"slug": c.Params("slug")})
	})

	r.Delete("/:slug", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Remove(c.Context(), c.Params("slug")); err != nil {
			return httperr.From(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
