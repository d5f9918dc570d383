package member

import (
	"context"

	"github.com/pkg/errors"

	"backend-tripgallery/internal/content"
	"backend-tripgallery/internal/trip"
)

type Service struct {
	store *content.Store
	regen trip.Regenerator
}

func NewService(store *content.Store, regen trip.Regenerator) *Service {
	return &Service{store: store, regen: regen}
}

func (s *Service) List(ctx context.Context) ([]content.Member, error) {
	slugs, err := s.store.MemberSlugs()
	if err != nil {
		return nil, err
	}
	members := make([]content.Member, 0, len(slugs))
	for _, slug := range slugs {
		m, _, err := s.store.ReadMember(slug)
		if err != nil {
			continue
		}
		members = append(members, m)
	}
	return members, nil
}

func (s *Service) Get(ctx context.Context, slug string) (content.Member, error) {
	m, _, err := s.store.ReadMember(slug)
	return m, err
}

// Create adds a member whose slug comes from the name.
func (s *Service) Create(ctx context.Context, input content.MemberInput) (string, error) {
	in, err := input.Sanitize()
	if err != nil {
		return "", err
	}
	slug := content.Slugify(in.Name)
	if s.store.MemberExists(slug) {
		return "", errors.Wrapf(content.ErrExists, "member %s", slug)
	}
	if err := s.store.WriteMember(slug, in.Member(slug), content.DefaultMemberBody); err != nil {
		return "", err
	}
	return slug, s.regenerate(ctx)
}

func (s *Service) Update(ctx context.Context, slug string, input content.MemberInput) error {
	current, body, err := s.store.ReadMember(slug)
	if err != nil {
		return err
	}
	in, err := input.Sanitize()
	if err != nil {
		return err
	}
	m := in.Member(slug)
	m.Extra = current.Extra
	if err := s.store.WriteMember(slug, m, body); err != nil {
		return err
	}
	return s.regenerate(ctx)
}

func (s *Service) Remove(ctx context.Context, slug string) error {
	if !s.store.MemberExists(slug) {
		return errors.Wrapf(content.ErrNotFound, "member %s", slug)
	}
	if err := s.store.RemoveMember(slug); err != nil {
		return err
	}
	return s.regenerate(ctx)
}

func (s *Service) regenerate(ctx context.Context) error {
	if s.regen == nil {
		return nil
	}
	_, err := s.regen.Regenerate(ctx)
	return err
}
