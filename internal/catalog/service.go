// Package catalog serves the generated artifacts. It never derives statistics;
// everything comes from the last regeneration.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/zeebo/xxh3"

	"backend-tripgallery/internal/artifact"
	"backend-tripgallery/internal/content"
	"backend-tripgallery/internal/gpxtrack"
	"backend-tripgallery/internal/routestats"
)

const (
	tripsKey   = "trips"
	membersKey = "members"
)

type tripIndex struct {
	records []content.TripRecord
	etag    string
}

type Service struct {
	dataDir string
	store   *content.Store
	cache   *cache.Cache
}

func NewService(dataDir string, store *content.Store, ttl time.Duration) *Service {
	return &Service{
		dataDir: dataDir,
		store:   store,
		cache:   cache.New(ttl, 2*ttl),
	}
}

// Invalidate drops cached indexes so the next read sees the latest regeneration.
func (s *Service) Invalidate() {
	s.cache.Flush()
}

func (s *Service) index() (*tripIndex, error) {
	if v, ok := s.cache.Get(tripsKey); ok {
		return v.(*tripIndex), nil
	}

	raw, err := os.ReadFile(filepath.Join(s.dataDir, artifact.TripIndexFile))
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrap(err, "read trip index")
		}
		raw = []byte("[]")
	}
	var records []content.TripRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, errors.Wrap(err, "decode trip index")
	}

	idx := &tripIndex{records: records, etag: fmt.Sprintf("%016x", xxh3.Hash(raw))}
	s.cache.Set(tripsKey, idx, cache.DefaultExpiration)
	return idx, nil
}

// ETag identifies the current trip index content.
func (s *Service) ETag(ctx context.Context) (string, error) {
	idx, err := s.index()
	if err != nil {
		return "", err
	}
	return idx.etag, nil
}

func (s *Service) ListTrips(ctx context.Context, f Filter) ([]content.TripRecord, error) {
	idx, err := s.index()
	if err != nil {
		return nil, err
	}
	return idx.list(f), nil
}

// ListTripsTagged returns the filtered trips together with the ETag of the
// index they were read from.
func (s *Service) ListTripsTagged(ctx context.Context, f Filter) ([]content.TripRecord, string, error) {
	idx, err := s.index()
	if err != nil {
		return nil, "", err
	}
	return idx.list(f), idx.etag, nil
}

func (idx *tripIndex) list(f Filter) []content.TripRecord {
	out := make([]content.TripRecord, 0, len(idx.records))
	for _, rec := range idx.records {
		if f.matches(rec) {
			out = append(out, rec)
		}
	}

	switch f.Sort {
	case SortLongest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Stats.DistanceM > out[j].Stats.DistanceM })
	case SortElevation:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Stats.ElevationGainM > out[j].Stats.ElevationGainM })
	}
	return out
}

func (f Filter) matches(rec content.TripRecord) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Q)); q != "" {
		if !strings.Contains(strings.ToLower(rec.Title), q) && !strings.Contains(strings.ToLower(rec.Location), q) {
			return false
		}
	}
	if f.Tag != "" && !hasTag(rec.Tags, f.Tag) {
		return false
	}
	if f.Author != "" && rec.Author != f.Author {
		return false
	}
	if f.Type != "" && rec.Type != f.Type {
		return false
	}
	if f.Terrain != "" && rec.Terrain != f.Terrain {
		return false
	}
	if f.MinDistance > 0 && rec.Stats.DistanceM/1000 < f.MinDistance {
		return false
	}
	if f.MinElevation > 0 && rec.Stats.ElevationGainM < f.MinElevation {
		return false
	}
	return true
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func (s *Service) record(slug string) (content.TripRecord, error) {
	idx, err := s.index()
	if err != nil {
		return content.TripRecord{}, err
	}
	for _, rec := range idx.records {
		if rec.Slug == slug {
			return rec, nil
		}
	}
	return content.TripRecord{}, errors.Wrapf(content.ErrNotFound, "trip %s", slug)
}

func (s *Service) GetTripBySlug(ctx context.Context, slug string) (TripDetail, error) {
	rec, err := s.record(slug)
	if err != nil {
		return TripDetail{}, err
	}

	detail := TripDetail{TripRecord: rec}
	if s.store != nil {
		_, body, err := s.store.ReadTrip(slug)
		if err != nil {
			log.Printf("catalog: narrative of %s unavailable: %v", slug, err)
		}
		detail.Body = body
	}
	return detail, nil
}

// Route returns the raw route artifact of an indexed trip.
func (s *Service) Route(ctx context.Context, slug string) ([]byte, error) {
	rec, err := s.record(slug)
	if err != nil {
		return nil, err
	}
	if rec.GeoJSONURL == "" {
		return nil, errors.Wrapf(content.ErrNotFound, "route %s", slug)
	}

	raw, err := os.ReadFile(filepath.Join(s.dataDir, artifact.RouteFileName(slug)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(content.ErrNotFound, "route %s", slug)
		}
		return nil, errors.Wrapf(err, "read route %s", slug)
	}
	return raw, nil
}

// Profile rebuilds the elevation chart series from the route artifact coordinates.
func (s *Service) Profile(ctx context.Context, slug string) (routestats.Profile, error) {
	raw, err := s.Route(ctx, slug)
	if err != nil {
		return routestats.Profile{}, err
	}
	return routestats.ProfileOf(trackFromRoute(raw)), nil
}

func trackFromRoute(raw []byte) gpxtrack.Track {
	var track gpxtrack.Track
	gjson.GetBytes(raw, "features.0.geometry.coordinates").ForEach(func(_, c gjson.Result) bool {
		values := c.Array()
		if len(values) < 2 {
			return true
		}
		p := gpxtrack.Point{Lng: values[0].Float(), Lat: values[1].Float()}
		if len(values) > 2 {
			p.ElevationM = values[2].Float()
			p.HasElevation = true
		}
		track = append(track, p)
		return true
	})
	return track
}

func (s *Service) Members(ctx context.Context) ([]content.Member, error) {
	if v, ok := s.cache.Get(membersKey); ok {
		return v.([]content.Member), nil
	}

	raw, err := os.ReadFile(filepath.Join(s.dataDir, artifact.MembersFile))
	if err != nil {
		if os.IsNotExist(err) {
			return []content.Member{}, nil
		}
		return nil, errors.Wrap(err, "read members")
	}
	var members []content.Member
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil, errors.Wrap(err, "decode members")
	}
	s.cache.Set(membersKey, members, cache.DefaultExpiration)
	return members, nil
}
