package trip

import (
	"context"
	"os"

	"github.com/pkg/errors"

	"backend-tripgallery/internal/artifact"
	"backend-tripgallery/internal/content"
	"backend-tripgallery/internal/gpxtrack"
	"backend-tripgallery/internal/pipeline"
)

// Regenerator rebuilds the derived artifacts after a content change.
type Regenerator interface {
	Regenerate(ctx context.Context) (pipeline.Report, error)
}

type Service struct {
	store  *content.Store
	writer *artifact.Writer
	regen  Regenerator
}

func NewService(store *content.Store, writer *artifact.Writer, regen Regenerator) *Service {
	return &Service{store: store, writer: writer, regen: regen}
}

// List returns every authored trip, including ones the index skipped.
func (s *Service) List(ctx context.Context) ([]Trip, error) {
	slugs, err := s.store.TripDirs()
	if err != nil {
		return nil, err
	}
	trips := make([]Trip, 0, len(slugs))
	for _, slug := range slugs {
		meta, _, err := s.store.ReadTrip(slug)
		if err != nil {
			continue
		}
		trips = append(trips, Trip{Slug: slug, TripMeta: meta, HasTrack: s.hasTrack(slug)})
	}
	return trips, nil
}

func (s *Service) Get(ctx context.Context, slug string) (Trip, error) {
	meta, body, err := s.store.ReadTrip(slug)
	if err != nil {
		return Trip{}, err
	}
	return Trip{Slug: slug, TripMeta: meta, Body: body, HasTrack: s.hasTrack(slug)}, nil
}

// Create writes a new trip whose slug comes from the title.
func (s *Service) Create(ctx context.Context, input content.TripInput) (string, error) {
	in, err := prepare(input)
	if err != nil {
		return "", err
	}
	slug := content.Slugify(in.Title)
	if s.store.TripExists(slug) {
		return "", errors.Wrapf(content.ErrExists, "trip %s", slug)
	}

	body := in.Body
	if body == "" {
		body = content.DefaultTripBody
	}
	if err := s.store.WriteTrip(slug, in.Meta(), body); err != nil {
		return "", err
	}
	if in.GPXContent != "" {
		if err := s.store.WriteTrack(slug, []byte(in.GPXContent)); err != nil {
			return "", err
		}
	}
	return slug, s.regenerate(ctx)
}

// Update replaces the metadata of an existing trip. The slug never changes,
// extra front matter keys survive, and the narrative is kept unless the input
// carries a new one.
func (s *Service) Update(ctx context.Context, slug string, input content.TripInput) error {
	current, body, err := s.store.ReadTrip(slug)
	if err != nil {
		return err
	}
	in, err := prepare(input)
	if err != nil {
		return err
	}
	if in.Body != "" {
		body = in.Body
	}

	meta := in.Meta()
	meta.Extra = current.Extra
	if err := s.store.WriteTrip(slug, meta, body); err != nil {
		return err
	}
	if in.GPXContent != "" {
		if err := s.store.WriteTrack(slug, []byte(in.GPXContent)); err != nil {
			return err
		}
	}
	return s.regenerate(ctx)
}

// Remove deletes the trip directory and its route artifact.
func (s *Service) Remove(ctx context.Context, slug string) error {
	if !s.store.TripExists(slug) {
		return errors.Wrapf(content.ErrNotFound, "trip %s", slug)
	}
	if err := s.store.RemoveTrip(slug); err != nil {
		return err
	}
	if err := s.writer.RemoveRoute(slug); err != nil {
		return err
	}
	return s.regenerate(ctx)
}

func (s *Service) hasTrack(slug string) bool {
	_, err := os.Stat(s.store.TrackPath(slug))
	return err == nil
}

func (s *Service) regenerate(ctx context.Context) error {
	if s.regen == nil {
		return nil
	}
	_, err := s.regen.Regenerate(ctx)
	return err
}

// prepare sanitizes the input and rejects track logs that would fail regeneration.
func prepare(input content.TripInput) (content.TripInput, error) {
	in, err := input.Sanitize()
	if err != nil {
		return in, err
	}
	if in.GPXContent != "" {
		if _, err := gpxtrack.Parse([]byte(in.GPXContent)); err != nil {
			return in, errors.Wrap(content.ErrInvalidInput, err.Error())
		}
	}
	return in, nil
}
