package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"backend-tripgallery/internal/auth"
	"backend-tripgallery/internal/config"
	"backend-tripgallery/internal/content"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	return config.Config{
		JWTSecret:       "secret",
		ServerPort:      ":0",
		ContentDir:      filepath.Join(root, "content"),
		DataDir:         filepath.Join(root, "data"),
		DataURLPrefix:   "/data",
		ElevationPolicy: "zero",
		CacheTTL:        time.Minute,
		LoginRatePerMin: 10,
		CORSOrigins:     "*",
	}
}

func newTestServer(t *testing.T, cfg config.Config) *Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	s, err := NewServer(ctx, cfg, nil, nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return s
}

func adminToken(t *testing.T, secret string) string {
	t.Helper()
	claims := auth.Claims{
		AdminID:  "admin-1",
		Username: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestHealthRoute(t *testing.T) {
	s := newTestServer(t, testConfig(t))

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 status")
	}
}

func TestInvalidElevationPolicy(t *testing.T) {
	cfg := testConfig(t)
	cfg.ElevationPolicy = "guess"
	if _, err := NewServer(context.Background(), cfg, nil, nil); err == nil {
		t.Fatalf("expected error for unknown elevation policy")
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, testConfig(t))

	for _, path := range []string{"/admin/trips/", "/admin/members/", "/admin/users/"} {
		resp, _ := s.App.Test(httptest.NewRequest(http.MethodGet, path, nil))
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, resp.StatusCode)
		}
	}
}

func TestCreateTripThenBrowse(t *testing.T) {
	cfg := testConfig(t)
	s := newTestServer(t, cfg)
	token := adminToken(t, cfg.JWTSecret)

	// an empty catalog is served before any regeneration
	resp, _ := s.App.Test(httptest.NewRequest(http.MethodGet, "/trips", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status %d", resp.StatusCode)
	}

	in := content.TripInput{
		Title:      "Colle del Nivolet",
		Date:       "2024-07-14",
		Location:   "Valle Orco",
		CoverImage: "/images/nivolet.jpg",
		Excerpt:    "Switchbacks.",
		GPXContent: `<?xml version="1.0"?><gpx version="1.1" creator="t" xmlns="http://www.topografix.com/GPX/1/1"><trk><trkseg><trkpt lat="0" lon="0"><ele>1</ele></trkpt><trkpt lat="0" lon="1"><ele>2</ele></trkpt></trkseg></trk></gpx>`,
	}
	body, _ := json.Marshal(in)
	req := httptest.NewRequest(http.MethodPost, "/admin/trips/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ = s.App.Test(req)
	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("create status %d: %s", resp.StatusCode, raw)
	}

	// the regeneration event invalidates the catalog cache
	deadline := time.Now().Add(time.Second)
	var trips []map[string]any
	for time.Now().Before(deadline) {
		resp, _ = s.App.Test(httptest.NewRequest(http.MethodGet, "/trips", nil))
		trips = nil
		_ = json.NewDecoder(resp.Body).Decode(&trips)
		if len(trips) == 1 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if len(trips) != 1 || trips[0]["slug"] != "colle-del-nivolet" {
		t.Fatalf("expected new trip listed, got %v", trips)
	}

	resp, _ = s.App.Test(httptest.NewRequest(http.MethodGet, "/data/trip-colle-del-nivolet.json", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("static artifact status %d", resp.StatusCode)
	}

	resp, _ = s.App.Test(httptest.NewRequest(http.MethodGet, "/trips/colle-del-nivolet/profile", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile status %d", resp.StatusCode)
	}
}

func TestRegenerateEndpoint(t *testing.T) {
	cfg := testConfig(t)
	s := newTestServer(t, cfg)

	dir := filepath.Join(cfg.ContentDir, "trips", "broken")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	_ = os.WriteFile(filepath.Join(dir, content.TripFileName), []byte("---\ntitle: Broken\ndate: 2024-01-01\n---\n"), 0o644)
	_ = os.WriteFile(filepath.Join(dir, content.TrackFileName), []byte("<gpx><trk>"), 0o644)

	req := httptest.NewRequest(http.MethodPost, "/admin/regenerate", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, cfg.JWTSecret))
	resp, _ := s.App.Test(req)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for partial failure, got %d", resp.StatusCode)
	}
}

func TestAboutRoute(t *testing.T) {
	s := newTestServer(t, testConfig(t))
	resp, _ := s.App.Test(httptest.NewRequest(http.MethodGet, "/about", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("about status %d", resp.StatusCode)
	}
}
