// Package gpxtrack reads GPS track logs into ordered point sequences.
package gpxtrack

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/tkrajina/gpxgo/gpx"
)

// ErrMalformed marks track logs that could not be decoded at all.
var ErrMalformed = errors.New("malformed track log")

// Point is one recorded GPS sample. RecordedAt is zero when the sample carried no time.
type Point struct {
	Lat          float64
	Lng          float64
	ElevationM   float64
	HasElevation bool
	RecordedAt   time.Time
}

// Track is the ordered point sequence of a single trip, in recording order.
type Track []Point

func (t Track) Empty() bool {
	return len(t) == 0
}

// Parse decodes raw GPX content. Only the first <trk> of the file is used;
// its segments are concatenated in document order. Blank input yields an empty track.
func Parse(raw []byte) (Track, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	doc, err := gpx.ParseBytes(raw)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	if len(doc.Tracks) == 0 {
		return nil, nil
	}

	first := doc.Tracks[0]
	var track Track
	for _, segment := range first.Segments {
		for _, p := range segment.Points {
			point := Point{
				Lat:        p.Latitude,
				Lng:        p.Longitude,
				RecordedAt: p.Timestamp,
			}
			if p.Elevation.NotNull() {
				point.ElevationM = p.Elevation.Value()
				point.HasElevation = true
			}
			if err := point.validate(); err != nil {
				return nil, errors.Wrapf(ErrMalformed, "point %d: %v", len(track), err)
			}
			track = append(track, point)
		}
	}
	return track, nil
}

// validate rejects values the GPX decoder accepts but no position can have,
// such as NaN or out of range coordinates.
func (p Point) validate() error {
	switch {
	case !finite(p.Lat) || p.Lat < -90 || p.Lat > 90:
		return fmt.Errorf("latitude %v out of range", p.Lat)
	case !finite(p.Lng) || p.Lng < -180 || p.Lng > 180:
		return fmt.Errorf("longitude %v out of range", p.Lng)
	case p.HasElevation && !finite(p.ElevationM):
		return fmt.Errorf("elevation %v is not a number", p.ElevationM)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ParseFile reads and parses the track log at path. found is false when the
// file does not exist, which callers treat the same as an empty track.
func ParseFile(path string) (track Track, found bool, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "read %s", path)
	}

	track, err = Parse(raw)
	if err != nil {
		return nil, true, errors.Wrapf(err, "parse %s", path)
	}
	return track, true, nil
}
