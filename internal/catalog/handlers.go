package catalog

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/zeebo/xxh3"

	"backend-tripgallery/internal/content"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/trips", func(c *fiber.Ctx) error {
		var f Filter
		if err := c.QueryParser(&f); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		switch f.Sort {
		case "", SortNewest, SortLongest, SortElevation:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "sort must be newest, longest or elevation")
		}

		trips, tag, err := svc.ListTripsTagged(c.Context(), f)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		etag := fmt.Sprintf(`"%s-%08x"`, tag, uint32(xxh3.Hash(c.Request().URI().QueryString())))
		c.Set(fiber.HeaderETag, etag)
		if c.Get(fiber.HeaderIfNoneMatch) == etag {
			return c.SendStatus(fiber.StatusNotModified)
		}
		return c.JSON(trips)
	})

	r.Get("/trips/:slug", func(c *fiber.Ctx) error {
		trip, err := svc.GetTripBySlug(c.Context(), c.Params("slug"))
		if err != nil {
			return lookupError(err, "trip not found")
		}
		return c.JSON(trip)
	})

	r.Get("/trips/:slug/route", func(c *fiber.Ctx) error {
		raw, err := svc.Route(c.Context(), c.Params("slug"))
		if err != nil {
			return lookupError(err, "route not found")
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(raw)
	})

	r.Get("/trips/:slug/profile", func(c *fiber.Ctx) error {
		profile, err := svc.Profile(c.Context(), c.Params("slug"))
		if err != nil {
			return lookupError(err, "route not found")
		}
		return c.JSON(profile)
	})

	r.Get("/members", func(c *fiber.Ctx) error {
		members, err := svc.Members(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(members)
	})
}

func lookupError(err error, notFound string) error {
	if errors.Is(err, content.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, notFound)
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
