package trip

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"backend-tripgallery/internal/content"
	"backend-tripgallery/internal/shared/httperr"
)

// maxTrackBytes bounds an uploaded route.gpx.
const maxTrackBytes = 20 << 20

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		trips, err := svc.List(c.Context())
		if err != nil {
			return httperr.From(err)
		}
		return c.JSON(trips)
	})

	r.Get("/:slug", authMiddleware, func(c *fiber.Ctx) error {
		trip, err := svc.Get(c.Context(), c.Params("slug"))
		if err != nil {
			return httperr.From(err)
		}
		return c.JSON(trip)
	})

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		in, err := parseInput(c)
		if err != nil {
			return err
		}
		slug, err := svc.Create(c.Context(), in)
		if err != nil {
			return httperr.From(err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"slug": slug})
	})

	r.Put("/:slug", authMiddleware, func(c *fiber.Ctx) error {
		in, err := parseInput(c)
		if err != nil {
			return err
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

// parseInput accepts JSON or a multipart form with an optional gpxFile upload.
func parseInput(c *fiber.Ctx) (content.TripInput, error) {
	var in content.TripInput
	if err := c.BodyParser(&in); err != nil {
		return in, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return in, nil
	}

	fh, err := c.FormFile("gpxFile")
	if err != nil {
		return in, nil
	}
	if fh.Size > maxTrackBytes {
		return in, fiber.NewError(fiber.StatusRequestEntityTooLarge, "gpx file too large")
	}
	f, err := fh.Open()
	if err != nil {
		return in, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		return in, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	in.GPXContent = string(raw)
	return in, nil
}
