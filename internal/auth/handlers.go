package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts /login and /verify on r.
func RegisterRoutes(r fiber.Router, svc *Service, limiter *LoginLimiter) {
	login := []fiber.Handler{}
	if limiter != nil {
		login = append(login, limiter.Middleware())
	}
	login = append(login, func(c *fiber.Ctx) error {
		var req LoginRequest
		if err := c.BodyParser(&req); err != nil || req.Username == "" || req.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "username and password required")
		}
		_, resp, err := svc.Login(c.Context(), req)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidCredentials):
				return fiber.NewError(fiber.StatusUnauthorized, err.Error())
			case errors.Is(err, ErrStoreUnavailable):
				return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(resp)
	})
	r.Post("/login", login...)

	r.Get("/verify", func(c *fiber.Ctx) error {
		token := bearerFromHeader(c.Get("Authorization"))
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		claims, err := svc.ValidateAccessToken(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		return c.JSON(fiber.Map{"admin_id": claims.AdminID, "username": claims.Username})
	})
}

// RegisterAdminRoutes mounts admin user management on r.
func RegisterAdminRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		admins, err := svc.ListAdmins(c.Context())
		if err != nil {
			return adminError(err)
		}
		return c.JSON(admins)
	})

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req CreateAdminRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		admin, err := svc.CreateAdmin(c.Context(), req)
		if err != nil {
			return adminError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(admin)
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		admin, err := svc.GetAdmin(c.Context(), c.Params("id"))
		if err != nil {
			return adminError(err)
		}
		return c.JSON(admin)
	})

	r.Put("/:id", authMiddleware, func(c *fiber.Ctx) error {
		var req UpdateAdminRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		admin, err := svc.UpdateAdmin(c.Context(), c.Params("id"), req)
		if err != nil {
			return adminError(err)
		}
		return c.JSON(admin)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		requestedBy, _ := c.Locals("admin_id").(string)
		if err := svc.DeleteAdmin(c.Context(), c.Params("id"), requestedBy); err != nil {
			return adminError(err)
		}
		return c.JSON(fiber.Map{"success": true})
	})
}

func adminError(err error) error {
	switch {
	case errors.Is(err, ErrAdminNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrUsernameTaken):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, ErrMissingFields), errors.Is(err, ErrLastAdmin), errors.Is(err, ErrDeleteSelf):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrStoreUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
