package artifact

import (
	"bytes"
	"encoding/json"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
	"github.com/zeebo/xxh3"

	"backend-tripgallery/internal/content"
	"backend-tripgallery/internal/gpxtrack"
	"backend-tripgallery/internal/shared/fsutil"
)

const (
	TripIndexFile = "trips.json"
	MembersFile   = "members.json"

	routePrefix = "trip-"
	routeSuffix = ".json"
)

// Writer persists derived artifacts under a single output directory.
type Writer struct {
	dir       string
	urlPrefix string
}

func NewWriter(dir, urlPrefix string) *Writer {
	if urlPrefix == "" {
		urlPrefix = "/data"
	}
	return &Writer{dir: dir, urlPrefix: urlPrefix}
}

func (w *Writer) Dir() string {
	return w.dir
}

func RouteFileName(slug string) string {
	return routePrefix + slug + routeSuffix
}

func (w *Writer) RoutePath(slug string) string {
	return filepath.Join(w.dir, RouteFileName(slug))
}

// RouteURL is the public reference stored in the trip index.
func (w *Writer) RouteURL(slug string) string {
	return path.Join(w.urlPrefix, RouteFileName(slug))
}

// WriteRoute writes the route artifact for a non-empty track and returns its URL.
// An empty track has no artifact: any previous one is removed and the URL is empty.
func (w *Writer) WriteRoute(slug string, track gpxtrack.Track) (string, error) {
	if track.Empty() {
		return "", w.RemoveRoute(slug)
	}

	raw, err := MarshalRoute(slug, track)
	if err != nil {
		return "", errors.Wrapf(err, "encode route %s", slug)
	}
	if _, err := writeIfChanged(w.RoutePath(slug), raw); err != nil {
		return "", errors.Wrapf(err, "write route %s", slug)
	}
	return w.RouteURL(slug), nil
}

// MarshalRoute encodes a track as a FeatureCollection holding one LineString.
// Coordinates are [lon, lat] or [lon, lat, ele] when the point carries an elevation.
func MarshalRoute(slug string, track gpxtrack.Track) ([]byte, error) {
	coords := make([][]float64, 0, len(track))
	for _, p := range track {
		if p.HasElevation {
			coords = append(coords, []float64{p.Lng, p.Lat, p.ElevationM})
		} else {
			coords = append(coords, []float64{p.Lng, p.Lat})
		}
	}

	feature := geojson.NewLineStringFeature(coords)
	feature.SetProperty("slug", slug)
	if times := recordedTimes(track); times != nil {
		feature.SetProperty("coordTimes", times)
	}

	fc := geojson.NewFeatureCollection()
	fc.AddFeature(feature)
	return fc.MarshalJSON()
}

// recordedTimes returns nil unless every point has a timestamp.
func recordedTimes(track gpxtrack.Track) []string {
	out := make([]string, 0, len(track))
	for _, p := range track {
		if p.RecordedAt.IsZero() {
			return nil
		}
		out = append(out, p.RecordedAt.UTC().Format("2006-01-02T15:04:05Z"))
	}
	return out
}

func (w *Writer) RemoveRoute(slug string) error {
	return errors.Wrapf(fsutil.RemoveIfExists(w.RoutePath(slug)), "remove route %s", slug)
}

// RouteSlugs lists the slugs that currently have a route artifact on disk.
func (w *Writer) RouteSlugs() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "list routes")
	}

	var slugs []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, routePrefix) || !strings.HasSuffix(name, routeSuffix) {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(strings.TrimPrefix(name, routePrefix), routeSuffix))
	}
	sort.Strings(slugs)
	return slugs, nil
}

// WriteTripIndex sorts the records and replaces trips.json.
// It reports whether the file content changed.
func (w *Writer) WriteTripIndex(records []content.TripRecord) (bool, error) {
	if records == nil {
		records = []content.TripRecord{}
	}
	SortTrips(records)

	raw, err := MarshalIndex(records)
	if err != nil {
		return false, errors.Wrap(err, "encode trip index")
	}
	changed, err := writeIfChanged(filepath.Join(w.dir, TripIndexFile), raw)
	return changed, errors.Wrap(err, "write trip index")
}

// ReadTripIndex loads the last written trips.json. A missing index is empty.
func (w *Writer) ReadTripIndex() ([]content.TripRecord, error) {
	raw, err := os.ReadFile(filepath.Join(w.dir, TripIndexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read trip index")
	}
	var records []content.TripRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, errors.Wrap(err, "decode trip index")
	}
	return records, nil
}

func (w *Writer) WriteMembers(members []content.Member) (bool, error) {
	if members == nil {
		members = []content.Member{}
	}
	raw, err := MarshalIndex(members)
	if err != nil {
		return false, errors.Wrap(err, "encode members")
	}
	changed, err := writeIfChanged(filepath.Join(w.dir, MembersFile), raw)
	return changed, errors.Wrap(err, "write members")
}

// MarshalIndex formats v with two space indentation and a trailing newline.
func MarshalIndex(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeIfChanged skips the write when the file already holds identical bytes.
func writeIfChanged(path string, data []byte) (bool, error) {
	if current, err := os.ReadFile(path); err == nil {
		if len(current) == len(data) && xxh3.Hash(current) == xxh3.Hash(data) {
			return false, nil
		}
	}
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
