package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"backend-tripgallery/internal/artifact"
	"backend-tripgallery/internal/content"
	"backend-tripgallery/internal/gpxtrack"
	"backend-tripgallery/internal/routestats"
)

type fixture struct {
	svc    *Service
	store  *content.Store
	writer *artifact.Writer
}

func trip(slug, date string, km, gain float64, tags ...string) content.TripRecord {
	return content.TripRecord{
		Slug: slug,
		TripMeta: content.TripMeta{
			Title:    "Trip " + slug,
			Date:     date,
			Location: "Piedmont",
			Tags:     tags,
		},
		Stats: routestats.TripStats{DistanceM: km * 1000, ElevationGainM: gain},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	store := content.NewStore(filepath.Join(root, "content"))
	writer := artifact.NewWriter(dataDir, "/data")

	route := gpxtrack.Track{
		{Lat: 0, Lng: 0, ElevationM: 100, HasElevation: true},
		{Lat: 0, Lng: 1, ElevationM: 180, HasElevation: true},
		{Lat: 0, Lng: 2},
	}
	url, err := writer.WriteRoute("colle", route)
	if err != nil {
		t.Fatalf("write route: %v", err)
	}

	colle := trip("colle", "2024-07-14", 120, 2100, "climb", "alps")
	colle.Author = "marco"
	colle.Type = "one-day"
	colle.Terrain = "road"
	colle.GeoJSONURL = url

	langhe := trip("langhe", "2024-03-02", 80, 900, "gravel")
	langhe.Location = "Langhe hills"
	langhe.Terrain = "gravel"

	coast := trip("coast", "2023-09-10", 210, 1500)
	coast.Type = "multi-day"

	if _, err := writer.WriteTripIndex([]content.TripRecord{coast, langhe, colle}); err != nil {
		t.Fatalf("write index: %v", err)
	}
	if _, err := writer.WriteMembers([]content.Member{{Slug: "anna", Name: "Anna"}}); err != nil {
		t.Fatalf("write members: %v", err)
	}
	if err := store.WriteTrip("colle", colle.TripMeta, "We climbed.\n"); err != nil {
		t.Fatalf("write trip: %v", err)
	}

	return &fixture{svc: NewService(dataDir, store, time.Minute), store: store, writer: writer}
}

func slugs(records []content.TripRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Slug)
	}
	return out
}

func TestListTripsFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all newest first", Filter{}, []string{"colle", "langhe", "coast"}},
		{"query matches location", Filter{Q: "HILLS"}, []string{"langhe"}},
		{"tag", Filter{Tag: "Alps"}, []string{"colle"}},
		{"author", Filter{Author: "marco"}, []string{"colle"}},
		{"type", Filter{Type: "multi-day"}, []string{"coast"}},
		{"terrain", Filter{Terrain: "gravel"}, []string{"langhe"}},
		{"min distance km", Filter{MinDistance: 100}, []string{"colle", "coast"}},
		{"min elevation", Filter{MinElevation: 1000}, []string{"colle", "coast"}},
		{"longest", Filter{Sort: SortLongest}, []string{"coast", "colle", "langhe"}},
		{"elevation", Filter{Sort: SortElevation}, []string{"colle", "coast", "langhe"}},
	}
	for _, c := range cases {
		got, err := f.svc.ListTrips(ctx, c.filter)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		gotSlugs := slugs(got)
		if len(gotSlugs) != len(c.want) {
			t.Fatalf("%s: want %v, got %v", c.name, c.want, gotSlugs)
		}
		for i := range c.want {
			if gotSlugs[i] != c.want[i] {
				t.Fatalf("%s: want %v, got %v", c.name, c.want, gotSlugs)
			}
		}
	}
}

func TestGetTripBySlug(t *testing.T) {
	f := newFixture(t)

	detail, err := f.svc.GetTripBySlug(context.Background(), "colle")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.Body != "We climbed.\n" || detail.Stats.ElevationGainM != 2100 {
		t.Fatalf("unexpected detail: %+v", detail)
	}

	// indexed but no authored file left: record is still served
	detail, err = f.svc.GetTripBySlug(context.Background(), "coast")
	if err != nil || detail.Body != "" {
		t.Fatalf("unexpected detail for coast: %+v %v", detail, err)
	}

	if _, err := f.svc.GetTripBySlug(context.Background(), "nope"); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRouteAndProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	raw, err := f.svc.Route(ctx, "colle")
	if err != nil || len(raw) == 0 {
		t.Fatalf("route: %v", err)
	}
	if _, err := f.svc.Route(ctx, "langhe"); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("trip without route should be not found, got %v", err)
	}

	profile, err := f.svc.Profile(ctx, "colle")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if len(profile.Points) != 3 {
		t.Fatalf("expected 3 profile points, got %d", len(profile.Points))
	}
	if profile.Points[2].ElevationM != 0 || profile.MaxElevationM != 180 {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if profile.TotalDistanceM < 222388 || profile.TotalDistanceM > 222391 {
		t.Fatalf("unexpected total distance %v", profile.TotalDistanceM)
	}
}

func TestCacheAndInvalidate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before, _ := f.svc.ETag(ctx)
	if _, err := f.writer.WriteTripIndex([]content.TripRecord{trip("solo", "2025-01-01", 10, 10)}); err != nil {
		t.Fatalf("rewrite index: %v", err)
	}

	cached, _ := f.svc.ListTrips(ctx, Filter{})
	if len(cached) != 3 {
		t.Fatalf("expected cached index, got %v", slugs(cached))
	}

	f.svc.Invalidate()
	fresh, _ := f.svc.ListTrips(ctx, Filter{})
	if len(fresh) != 1 || fresh[0].Slug != "solo" {
		t.Fatalf("expected fresh index, got %v", slugs(fresh))
	}
	after, _ := f.svc.ETag(ctx)
	if before == after {
		t.Fatalf("etag should change with the index")
	}
}

func TestMissingArtifacts(t *testing.T) {
	svc := NewService(t.TempDir(), nil, time.Minute)
	trips, err := svc.ListTrips(context.Background(), Filter{})
	if err != nil || len(trips) != 0 {
		t.Fatalf("expected empty list, got %v %v", trips, err)
	}
	members, err := svc.Members(context.Background())
	if err != nil || len(members) != 0 {
		t.Fatalf("expected no members, got %v %v", members, err)
	}
}

func TestListTripsTaggedReadsOneSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	trips, before, err := f.svc.ListTripsTagged(ctx, Filter{})
	if err != nil || len(trips) != 3 {
		t.Fatalf("list: %v %v", slugs(trips), err)
	}

	if _, err := f.writer.WriteTripIndex([]content.TripRecord{trip("solo", "2025-01-01", 10, 10)}); err != nil {
		t.Fatalf("rewrite index: %v", err)
	}
	f.svc.Invalidate()

	trips, after, err := f.svc.ListTripsTagged(ctx, Filter{})
	if err != nil || len(trips) != 1 || trips[0].Slug != "solo" {
		t.Fatalf("expected fresh index, got %v %v", slugs(trips), err)
	}
	if after == before {
		t.Fatalf("etag must follow the records it was read with")
	}
	if current, _ := f.svc.ETag(ctx); current != after {
		t.Fatalf("expected etag %s, got %s", after, current)
	}
}
