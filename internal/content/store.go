package content

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"backend-tripgallery/internal/shared/fsutil"
)

// Store reads and writes authored content under a root directory:
//
//	<root>/trips/<slug>/trip.mdx
//	<root>/trips/<slug>/route.gpx
//	<root>/members/<slug>.mdx
type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

func (s *Store) Root() string {
	return s.root
}

func (s *Store) tripsDir() string {
	return filepath.Join(s.root, "trips")
}

func (s *Store) membersDir() string {
	return filepath.Join(s.root, "members")
}

func (s *Store) TripDir(slug string) string {
	return filepath.Join(s.tripsDir(), slug)
}

func (s *Store) TrackPath(slug string) string {
	return filepath.Join(s.TripDir(slug), TrackFileName)
}

// TripDirs lists the directory names under trips/, sorted. A missing trips/ is empty.
func (s *Store) TripDirs() ([]string, error) {
	entries, err := os.ReadDir(s.tripsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "list trips")
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			dirs = append(dirs, e.Name())
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// ReadTrip returns ErrNotFound when trip.mdx is absent and ErrInvalidMetadata when it cannot be parsed.
func (s *Store) ReadTrip(slug string) (TripMeta, string, error) {
	if !ValidSlug(slug) {
		return TripMeta{}, "", errors.Wrapf(ErrNotFound, "trip %q", slug)
	}
	raw, err := os.ReadFile(filepath.Join(s.TripDir(slug), TripFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return TripMeta{}, "", errors.Wrapf(ErrNotFound, "trip %s", slug)
		}
		return TripMeta{}, "", errors.Wrapf(err, "read trip %s", slug)
	}
	meta, body, err := ParseTrip(raw)
	if err != nil {
		return TripMeta{}, "", errors.Wrapf(err, "trip %s", slug)
	}
	return meta, body, nil
}

func (s *Store) TripExists(slug string) bool {
	_, err := os.Stat(filepath.Join(s.TripDir(slug), TripFileName))
	return err == nil
}

func (s *Store) WriteTrip(slug string, meta TripMeta, body string) error {
	if !ValidSlug(slug) {
		return errors.Wrapf(ErrInvalidInput, "slug %q", slug)
	}
	raw, err := Render(meta, body)
	if err != nil {
		return errors.Wrapf(err, "render trip %s", slug)
	}
	return errors.Wrapf(fsutil.WriteFileAtomic(filepath.Join(s.TripDir(slug), TripFileName), raw, 0o644), "write trip %s", slug)
}

func (s *Store) WriteTrack(slug string, raw []byte) error {
	if !ValidSlug(slug) {
		return errors.Wrapf(ErrInvalidInput, "slug %q", slug)
	}
	return errors.Wrapf(fsutil.WriteFileAtomic(s.TrackPath(slug), raw, 0o644), "write track %s", slug)
}

// RemoveTrip deletes the whole trip directory. Removing a missing trip is not an error.
func (s *Store) RemoveTrip(slug string) error {
	if !ValidSlug(slug) {
		return errors.Wrapf(ErrInvalidInput, "slug %q", slug)
	}
	return errors.Wrapf(os.RemoveAll(s.TripDir(slug)), "remove trip %s", slug)
}

func (s *Store) memberPath(slug string) string {
	return filepath.Join(s.membersDir(), slug+".mdx")
}

// MemberSlugs lists members/*.mdx, sorted by slug.
func (s *Store) MemberSlugs() ([]string, error) {
	entries, err := os.ReadDir(s.membersDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "list members")
	}

	var slugs []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".mdx") {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(e.Name(), ".mdx"))
	}
	sort.Strings(slugs)
	return slugs, nil
}

func (s *Store) ReadMember(slug string) (Member, string, error) {
	if !ValidSlug(slug) {
		return Member{}, "", errors.Wrapf(ErrNotFound, "member %q", slug)
	}
	raw, err := os.ReadFile(s.memberPath(slug))
	if err != nil {
		if os.IsNotExist(err) {
			return Member{}, "", errors.Wrapf(ErrNotFound, "member %s", slug)
		}
		return Member{}, "", errors.Wrapf(err, "read member %s", slug)
	}
	m, body, err := ParseMember(raw)
	if err != nil {
		return Member{}, "", errors.Wrapf(err, "member %s", slug)
	}
	m.Slug = slug
	return m, body, nil
}

func (s *Store) MemberExists(slug string) bool {
	_, err := os.Stat(s.memberPath(slug))
	return err == nil
}

func (s *Store) WriteMember(slug string, m Member, body string) error {
	if !ValidSlug(slug) {
		return errors.Wrapf(ErrInvalidInput, "slug %q", slug)
	}
	raw, err := Render(m, body)
	if err != nil {
		return errors.Wrapf(err, "render member %s", slug)
	}
	return errors.Wrapf(fsutil.WriteFileAtomic(s.memberPath(slug), raw, 0o644), "write member %s", slug)
}

func (s *Store) RemoveMember(slug string) error {
	if !ValidSlug(slug) {
		return errors.Wrapf(ErrInvalidInput, "slug %q", slug)
	}
	return errors.Wrapf(fsutil.RemoveIfExists(s.memberPath(slug)), "remove member %s", slug)
}
