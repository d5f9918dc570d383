package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestJWTMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/private", JWTMiddleware("secret"), func(c *fiber.Ctx) error {
		if c.Locals("admin_id") != "admin-1" {
			return fiber.NewError(fiber.StatusUnauthorized)
		}
		return c.SendStatus(http.StatusOK)
	})

	svc := NewService("secret", nil)

	// missing token
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized")
	}

	// valid token
	token, _ := svc.signToken(Admin{ID: "admin-1", Username: "anna"}, accessTokenTTL)
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected ok")
	}

	// garbage token
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer nope")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized for bad token")
	}
}

func TestBearerFromHeader(t *testing.T) {
	if bearerFromHeader("Bearer abc") != "abc" || bearerFromHeader("bearer abc") != "abc" {
		t.Fatalf("expected token")
	}
	if bearerFromHeader("Basic abc") != "" || bearerFromHeader("abc") != "" {
		t.Fatalf("expected empty token")
	}
}

func TestLoginLimiterSweep(t *testing.T) {
	l := NewLoginLimiter(2)
	if !l.Allow("1.2.3.4") || !l.Allow("1.2.3.4") {
		t.Fatalf("burst should allow two attempts")
	}
	if l.Allow("1.2.3.4") {
		t.Fatalf("third attempt should be throttled")
	}
	if !l.Allow("5.6.7.8") {
		t.Fatalf("other clients are not affected")
	}

	l.Sweep(-time.Second)
	if len(l.limiters) != 0 {
		t.Fatalf("expected idle clients forgotten")
	}
	if !l.Allow("1.2.3.4") {
		t.Fatalf("forgotten client starts fresh")
	}
}
