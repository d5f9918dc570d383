// Package pipeline regenerates every derived artifact from the authored content.
package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/pkg/errors"

	"backend-tripgallery/internal/artifact"
	"backend-tripgallery/internal/content"
	"backend-tripgallery/internal/gpxtrack"
	"backend-tripgallery/internal/routestats"
)

// Pipeline runs the trips, index and members stages in order.
type Pipeline struct {
	Store  *content.Store
	Writer *artifact.Writer
	Policy routestats.ElevationPolicy
}

func New(store *content.Store, writer *artifact.Writer, policy routestats.ElevationPolicy) *Pipeline {
	return &Pipeline{Store: store, Writer: writer, Policy: policy}
}

// Run rebuilds all artifacts. The returned error is fatal (I/O on the output side,
// cancelled context); per-trip track failures are collected in the report instead.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	var report Report
	log.Println("regenerate: start")

	previous, err := p.Writer.ReadTripIndex()
	if err != nil {
		log.Printf("regenerate: previous index unusable, nothing to carry forward: %v", err)
	}
	carry := map[string]content.TripRecord{}
	for _, rec := range previous {
		carry[rec.Slug] = rec
	}

	records, err := p.trips(ctx, carry, &report)
	if err != nil {
		return report, err
	}
	report.Trips = len(records)
	log.Printf("regenerate: %d trips collected, %d skipped, %d failed", len(records), len(report.Skipped), len(report.Failures))

	if err := p.pruneRoutes(records); err != nil {
		return report, err
	}

	changed, err := p.Writer.WriteTripIndex(records)
	if err != nil {
		return report, err
	}
	report.IndexChanged = changed

	members, err := p.members(ctx)
	if err != nil {
		return report, err
	}
	report.Members = len(members)
	if _, err := p.Writer.WriteMembers(members); err != nil {
		return report, err
	}

	report.Duration = time.Since(start)
	log.Printf("regenerate: done, %d trips and %d members in %v", report.Trips, report.Members, report.Duration.Round(time.Millisecond))
	return report, nil
}

func (p *Pipeline) trips(ctx context.Context, carry map[string]content.TripRecord, report *Report) ([]content.TripRecord, error) {
	slugs, err := p.Store.TripDirs()
	if err != nil {
		return nil, err
	}

	records := make([]content.TripRecord, 0, len(slugs))
	for _, slug := range slugs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		meta, _, err := p.Store.ReadTrip(slug)
		if err != nil {
			if !errors.Is(err, content.ErrNotFound) {
				log.Printf("regenerate: skip %s: %v", slug, err)
				report.Skipped = append(report.Skipped, slug)
			}
			continue
		}

		track, _, err := gpxtrack.ParseFile(p.Store.TrackPath(slug))
		if err != nil {
			log.Printf("regenerate: track of %s failed: %v", slug, err)
			report.Failures = append(report.Failures, TripFailure{Slug: slug, Err: err})
			if prev, ok := carry[slug]; ok {
				records = append(records, prev)
			}
			continue
		}

		rec, err := p.record(slug, meta, track)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// record derives stats and writes the route artifact. A missing track log is an empty track.
func (p *Pipeline) record(slug string, meta content.TripMeta, track gpxtrack.Track) (content.TripRecord, error) {
	url, err := p.Writer.WriteRoute(slug, track)
	if err != nil {
		return content.TripRecord{}, err
	}
	return content.TripRecord{
		Slug:       slug,
		TripMeta:   meta,
		Stats:      routestats.Derive(track, p.Policy),
		GeoJSONURL: url,
	}, nil
}

// pruneRoutes removes route artifacts that no indexed trip refers to.
func (p *Pipeline) pruneRoutes(records []content.TripRecord) error {
	keep := make(map[string]bool, len(records))
	for _, rec := range records {
		keep[rec.Slug] = true
	}

	existing, err := p.Writer.RouteSlugs()
	if err != nil {
		return err
	}
	for _, slug := range existing {
		if keep[slug] {
			continue
		}
		if err := p.Writer.RemoveRoute(slug); err != nil {
			return err
		}
		log.Printf("regenerate: removed orphan route %s", slug)
	}
	return nil
}

func (p *Pipeline) members(ctx context.Context) ([]content.Member, error) {
	slugs, err := p.Store.MemberSlugs()
	if err != nil {
		return nil, err
	}

	members := make([]content.Member, 0, len(slugs))
	for _, slug := range slugs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, _, err := p.Store.ReadMember(slug)
		if err != nil {
			log.Printf("regenerate: skip member %s: %v", slug, err)
			continue
		}
		members = append(members, m)
	}
	return members, nil
}
