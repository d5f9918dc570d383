package pipeline

import (
	"fmt"
	"strings"
	"time"
)

// TripFailure is a trip whose track log could not be turned into stats.
type TripFailure struct {
	Slug string
	Err  error
}

// Report summarizes one regeneration run.
type Report struct {
	Trips        int
	Members      int
	Skipped      []string
	Failures     []TripFailure
	IndexChanged bool
	Duration     time.Duration
}

// Err returns a *PartialFailure when at least one trip failed, nil otherwise.
func (r Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	return &PartialFailure{Failures: r.Failures}
}

// PartialFailure means the index was written but some trips kept stale or no data.
type PartialFailure struct {
	Failures []TripFailure
}

func (e *PartialFailure) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Slug, f.Err))
	}
	return fmt.Sprintf("regeneration failed for %d trip(s): %s", len(e.Failures), strings.Join(parts, "; "))
}

// Slugs lists the failed trips.
func (e *PartialFailure) Slugs() []string {
	out := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		out = append(out, f.Slug)
	}
	return out
}
