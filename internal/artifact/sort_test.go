package artifact

import (
	"testing"

	"backend-tripgallery/internal/content"
)

func record(slug, date string) content.TripRecord {
	return content.TripRecord{Slug: slug, TripMeta: content.TripMeta{Date: date}}
}

func TestSortTrips(t *testing.T) {
	records := []content.TripRecord{
		record("old", "2022-05-01"),
		record("broken", "someday"),
		record("tie-b", "2024-03-01"),
		record("new", "2024-06-30"),
		record("tie-a", "2024-03-01"),
	}
	SortTrips(records)

	want := []string{"new", "tie-a", "tie-b", "old", "broken"}
	for i, slug := range want {
		if records[i].Slug != slug {
			t.Fatalf("position %d: want %s, got %s", i, slug, records[i].Slug)
		}
	}
}

func TestSortTripsMixedLayouts(t *testing.T) {
	records := []content.TripRecord{
		record("morning", "2024-03-01T08:00:00Z"),
		record("evening", "2024-03-01T19:00:00Z"),
	}
	SortTrips(records)
	if records[0].Slug != "evening" {
		t.Fatalf("expected later timestamp first, got %s", records[0].Slug)
	}
}
