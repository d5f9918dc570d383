package artifact

import (
	"sort"

	"backend-tripgallery/internal/content"
)

// SortTrips orders records newest first. Equal dates fall back to slug order and
// records with unparseable dates go last.
func SortTrips(records []content.TripRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		di, okI := content.ParseDate(records[i].Date)
		dj, okJ := content.ParseDate(records[j].Date)
		switch {
		case okI != okJ:
			return okI
		case okI && !di.Equal(dj):
			return di.After(dj)
		}
		return records[i].Slug < records[j].Slug
	})
}
