// Package routestats derives distance, elevation gain and bounding boxes from tracks.
// Everything here is a pure function of its inputs.
package routestats

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"

	"backend-tripgallery/internal/gpxtrack"
	"backend-tripgallery/internal/shared/geo"
)

// Bounds is [[minLng, minLat], [maxLng, maxLat]]: south-west corner first, longitude first.
type Bounds [2][2]float64

type TripStats struct {
	DistanceM      float64 `json:"distance"`
	ElevationGainM float64 `json:"elevationGain"`
	Bounds         *Bounds `json:"bounds"`
}

// ElevationPolicy controls how samples without an elevation take part in the gain.
type ElevationPolicy string

const (
	// ElevationZero treats a missing elevation as 0 m. Default, matches the historical output.
	ElevationZero ElevationPolicy = "zero"
	// ElevationSkip ignores samples without elevation.
	ElevationSkip ElevationPolicy = "skip"
	// ElevationInterpolate fills gaps linearly by distance between the neighbouring known samples.
	ElevationInterpolate ElevationPolicy = "interpolate"
)

func ParseElevationPolicy(s string) (ElevationPolicy, error) {
	switch p := ElevationPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return ElevationZero, nil
	case ElevationZero, ElevationSkip, ElevationInterpolate:
		return p, nil
	default:
		return "", fmt.Errorf("unknown elevation policy %q", s)
	}
}

// Derive computes the summary statistics of a track.
func Derive(track gpxtrack.Track, policy ElevationPolicy) TripStats {
	return TripStats{
		DistanceM:      Distance(track),
		ElevationGainM: ElevationGain(track, policy),
		Bounds:         BoundsOf(track),
	}
}

// Distance sums the haversine distance between consecutive points, in recording order.
func Distance(track gpxtrack.Track) float64 {
	total := 0.0
	for i := 1; i < len(track); i++ {
		prev, cur := track[i-1], track[i]
		total += geo.HaversineMeters(prev.Lat, prev.Lng, cur.Lat, cur.Lng)
	}
	return total
}

// ElevationGain sums the positive elevation deltas between consecutive samples.
func ElevationGain(track gpxtrack.Track, policy ElevationPolicy) float64 {
	gain := 0.0
	series := elevations(track, policy)
	for i := 1; i < len(series); i++ {
		if d := series[i] - series[i-1]; d > 0 {
			gain += d
		}
	}
	return gain
}

// BoundsOf returns nil for an empty track.
func BoundsOf(track gpxtrack.Track) *Bounds {
	if track.Empty() {
		return nil
	}
	mp := make(orb.MultiPoint, 0, len(track))
	for _, p := range track {
		mp = append(mp, orb.Point{p.Lng, p.Lat})
	}
	b := mp.Bound()
	return &Bounds{
		{b.Min.Lon(), b.Min.Lat()},
		{b.Max.Lon(), b.Max.Lat()},
	}
}

func elevations(track gpxtrack.Track, policy ElevationPolicy) []float64 {
	switch policy {
	case ElevationSkip:
		out := make([]float64, 0, len(track))
		for _, p := range track {
			if p.HasElevation {
				out = append(out, p.ElevationM)
			}
		}
		return out
	case ElevationInterpolate:
		return interpolated(track)
	default:
		out := make([]float64, len(track))
		for i, p := range track {
			if p.HasElevation {
				out[i] = p.ElevationM
			}
		}
		return out
	}
}

func interpolated(track gpxtrack.Track) []float64 {
	out := make([]float64, len(track))
	cumulative := cumulativeDistances(track)

	prev := -1
	for i, p := range track {
		if !p.HasElevation {
			continue
		}
		out[i] = p.ElevationM
		switch {
		case prev == -1:
			for j := 0; j < i; j++ {
				out[j] = p.ElevationM
			}
		case i-prev > 1:
			span := cumulative[i] - cumulative[prev]
			for j := prev + 1; j < i; j++ {
				if span == 0 {
					out[j] = track[prev].ElevationM
					continue
				}
				ratio := (cumulative[j] - cumulative[prev]) / span
				out[j] = track[prev].ElevationM + ratio*(p.ElevationM-track[prev].ElevationM)
			}
		}
		prev = i
	}

	if prev >= 0 {
		for j := prev + 1; j < len(track); j++ {
			out[j] = track[prev].ElevationM
		}
	}
	return out
}

func cumulativeDistances(track gpxtrack.Track) []float64 {
	out := make([]float64, len(track))
	for i := 1; i < len(track); i++ {
		prev, cur := track[i-1], track[i]
		out[i] = out[i-1] + geo.HaversineMeters(prev.Lat, prev.Lng, cur.Lat, cur.Lng)
	}
	return out
}
