package routestats

import "backend-tripgallery/internal/gpxtrack"

// ProfilePoint is one sample of the elevation chart.
type ProfilePoint struct {
	DistanceM  float64 `json:"distance"`
	ElevationM float64 `json:"elevation"`
}

type Profile struct {
	Points         []ProfilePoint `json:"points"`
	TotalDistanceM float64        `json:"totalDistance"`
	MinElevationM  float64        `json:"minElevation"`
	MaxElevationM  float64        `json:"maxElevation"`
}

// ProfileOf builds the cumulative distance / elevation series drawn by the trip page.
// Missing elevations are plotted as 0 m, the same way the chart always did.
func ProfileOf(track gpxtrack.Track) Profile {
	profile := Profile{Points: make([]ProfilePoint, 0, len(track))}
	cumulative := cumulativeDistances(track)
	for i, p := range track {
		ele := 0.0
		if p.HasElevation {
			ele = p.ElevationM
		}
		if i == 0 || ele < profile.MinElevationM {
			profile.MinElevationM = ele
		}
		if i == 0 || ele > profile.MaxElevationM {
			profile.MaxElevationM = ele
		}
		profile.Points = append(profile.Points, ProfilePoint{DistanceM: cumulative[i], ElevationM: ele})
	}
	if n := len(cumulative); n > 0 {
		profile.TotalDistanceM = cumulative[n-1]
	}
	return profile
}
