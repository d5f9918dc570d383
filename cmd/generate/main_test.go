package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"backend-tripgallery/internal/config"
	"backend-tripgallery/internal/content"
)

const validGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk><trkseg>
    <trkpt lat="0" lon="0"><ele>10</ele></trkpt>
    <trkpt lat="0" lon="1"><ele>20</ele></trkpt>
  </trkseg></trk>
</gpx>`

func testConfig(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	return config.Config{
		ContentDir:    filepath.Join(root, "content"),
		DataDir:       filepath.Join(root, "data"),
		DataURLPrefix: "/data",
	}
}

func addTrip(t *testing.T, cfg config.Config, slug, gpx string) {
	t.Helper()
	store := content.NewStore(cfg.ContentDir)
	meta := content.TripMeta{Title: slug, Date: "2024-05-01", Location: "Somewhere", Tags: []string{"gravel"}}
	if err := store.WriteTrip(slug, meta, "story\n"); err != nil {
		t.Fatalf("write trip: %v", err)
	}
	if err := store.WriteTrack(slug, []byte(gpx)); err != nil {
		t.Fatalf("write track: %v", err)
	}
}

func TestGenerateSuccess(t *testing.T) {
	cfg := testConfig(t)
	addTrip(t, cfg, "ridge", validGPX)

	if code := generate(context.Background(), cfg, nil); code != exitOK {
		t.Fatalf("expected exit %d, got %d", exitOK, code)
	}
	if _, err := os.Stat(filepath.Join(cfg.DataDir, "trips.json")); err != nil {
		t.Fatalf("expected trips index: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.DataDir, "trip-ridge.json")); err != nil {
		t.Fatalf("expected route artifact: %v", err)
	}
}

func TestGeneratePartialFailure(t *testing.T) {
	cfg := testConfig(t)
	addTrip(t, cfg, "ridge", validGPX)
	addTrip(t, cfg, "broken", "<gpx><trk>")

	if code := generate(context.Background(), cfg, nil); code != exitPartial {
		t.Fatalf("expected exit %d, got %d", exitPartial, code)
	}
}

func TestGenerateWriteFailure(t *testing.T) {
	cfg := testConfig(t)
	addTrip(t, cfg, "ridge", validGPX)
	if err := os.WriteFile(cfg.DataDir, []byte("not a directory"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if code := generate(context.Background(), cfg, nil); code != exitFatal {
		t.Fatalf("expected exit %d, got %d", exitFatal, code)
	}
}

func TestGenerateInvalidPolicy(t *testing.T) {
	cfg := testConfig(t)
	cfg.ElevationPolicy = "guess"

	if code := generate(context.Background(), cfg, nil); code != exitFatal {
		t.Fatalf("expected exit %d, got %d", exitFatal, code)
	}
}

func TestGenerateWithRedis(t *testing.T) {
	cfg := testConfig(t)
	addTrip(t, cfg, "ridge", validGPX)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	if code := generate(context.Background(), cfg, client); code != exitOK {
		t.Fatalf("expected exit %d, got %d", exitOK, code)
	}
	if mr.Exists("content:regenerate:lock") {
		t.Fatalf("expected lock to be released")
	}
}

func TestRealMainFallsBackWithoutRedis(t *testing.T) {
	cfg := testConfig(t)
	addTrip(t, cfg, "ridge", validGPX)

	deps := generateDeps{
		loadConfig: func() config.Config { return cfg },
		connectRedis: func(config.Config) *redis.Client {
			return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
		},
	}
	if code := realMain(context.Background(), deps); code != exitOK {
		t.Fatalf("expected exit %d, got %d", exitOK, code)
	}
}

func TestDefaultDeps(t *testing.T) {
	deps := defaultDeps()
	if deps.loadConfig == nil || deps.connectRedis == nil {
		t.Fatalf("expected default deps to be set")
	}
}
