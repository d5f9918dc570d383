package trip

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newApp(t *testing.T) (*fiber.App, *fixture) {
	t.Helper()
	f := newFixture(t)
	app := fiber.New()
	RegisterRoutes(app.Group("/admin/trips"), f.svc, func(c *fiber.Ctx) error { return c.Next() })
	return app, f
}

func TestTripHandlersJSON(t *testing.T) {
	app, f := newApp(t)

	body, _ := json.Marshal(validInput())
	req := httptest.NewRequest(http.MethodPost, "/admin/trips/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status: %v %v", resp.StatusCode, err)
	}

	req = httptest.NewRequest(http.MethodPost, "/admin/trips/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected conflict, got %d", resp.StatusCode)
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/admin/trips/colle-del-nivolet", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status %d", resp.StatusCode)
	}

	update := validInput()
	update.Location = "Ceresole Reale"
	body, _ = json.Marshal(update)
	req = httptest.NewRequest(http.MethodPut, "/admin/trips/colle-del-nivolet", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status %d", resp.StatusCode)
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodDelete, "/admin/trips/colle-del-nivolet", nil))
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status %d", resp.StatusCode)
	}
	if f.store.TripExists("colle-del-nivolet") {
		t.Fatalf("trip not removed")
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodDelete, "/admin/trips/colle-del-nivolet", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestTripHandlersMultipartUpload(t *testing.T) {
	app, f := newApp(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	in := validInput()
	_ = w.WriteField("title", in.Title)
	_ = w.WriteField("date", in.Date)
	_ = w.WriteField("location", in.Location)
	_ = w.WriteField("tags", "climb, alps")
	_ = w.WriteField("coverImage", in.CoverImage)
	_ = w.WriteField("excerpt", in.Excerpt)
	part, _ := w.CreateFormFile("gpxFile", "route.gpx")
	_, _ = part.Write([]byte(routeGPX))
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/admin/trips/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status: %v %v", resp.StatusCode, err)
	}

	trip, err := f.svc.Get(req.Context(), "colle-del-nivolet")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !trip.HasTrack || len(trip.Tags) != 2 {
		t.Fatalf("unexpected trip from multipart: %+v", trip)
	}
}

func TestTripHandlersBadRequest(t *testing.T) {
	app, _ := newApp(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/trips/", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request, got %d", resp.StatusCode)
	}
}
