package catalog

import "backend-tripgallery/internal/content"

// Filter narrows and orders the trip list. Distances are km, elevations m.
type Filter struct {
	Q            string  `query:"q"`
	Tag          string  `query:"tag"`
	Author       string  `query:"author"`
	Type         string  `query:"type"`
	Terrain      string  `query:"terrain"`
	MinDistance  float64 `query:"minDistance"`
	MinElevation float64 `query:"minElevation"`
	Sort         string  `query:"sort"`
}

const (
	SortNewest    = "newest"
	SortLongest   = "longest"
	SortElevation = "elevation"
)

// TripDetail is a trip record plus its narrative body.
type TripDetail struct {
	content.TripRecord
	Body string `json:"body"`
}

// MarshalJSON keeps the record flat and adds the body, which the record's own
// encoder would not see.
func (d TripDetail) MarshalJSON() ([]byte, error) {
	raw, err := d.TripRecord.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return content.AppendFields(raw, map[string]any{"body": d.Body}, nil)
}
