package trip

import "backend-tripgallery/internal/content"

// Trip is the authored view the admin console edits.
type Trip struct {
	Slug string `json:"slug"`
	content.TripMeta
	Body     string `json:"body,omitempty"`
	HasTrack bool   `json:"hasTrack"`
}
