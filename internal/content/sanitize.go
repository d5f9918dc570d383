package content

import (
	"strings"

	"github.com/pkg/errors"
)

// TripInput is what the admin console submits for a trip.
type TripInput struct {
	Title      string   `json:"title" form:"title"`
	Date       string   `json:"date" form:"date"`
	Location   string   `json:"location" form:"location"`
	Tags       []string `json:"tags" form:"tags"`
	CoverImage string   `json:"coverImage" form:"coverImage"`
	Excerpt    string   `json:"excerpt" form:"excerpt"`
	Photos     []string `json:"photos" form:"photos"`
	Author     string   `json:"author" form:"author"`
	Type       string   `json:"type" form:"type"`
	Terrain    string   `json:"terrain" form:"terrain"`
	GPXContent string   `json:"gpxContent" form:"gpxContent"`
	// Body replaces the narrative when set.
	Body string `json:"body" form:"body"`
}

type MemberInput struct {
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
	Emoji    string `json:"emoji"`
	IsAdmin  bool   `json:"isAdmin"`
}

// NormalizeImagePath turns an image reference into a site-absolute path or URL.
// Local filesystem paths are rejected.
func NormalizeImagePath(value string) (string, bool) {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return "", false
	case strings.HasPrefix(value, "http://"), strings.HasPrefix(value, "https://"):
		return value, true
	case strings.HasPrefix(value, "public/"):
		return "/" + strings.TrimPrefix(value, "public/"), true
	case strings.HasPrefix(value, "~/"), strings.HasPrefix(value, "/Users/"), strings.HasPrefix(value, "/home/"):
		return "", false
	case !strings.HasPrefix(value, "/"):
		return "/" + value, true
	}
	return value, true
}

// SplitList accepts a comma separated form value as well as repeated values.
func SplitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (in TripInput) Sanitize() (TripInput, error) {
	out := TripInput{
		Title:      strings.TrimSpace(in.Title),
		Date:       strings.TrimSpace(in.Date),
		Location:   strings.TrimSpace(in.Location),
		Excerpt:    strings.TrimSpace(in.Excerpt),
		Author:     strings.TrimSpace(in.Author),
		Type:       strings.TrimSpace(in.Type),
		Terrain:    strings.TrimSpace(in.Terrain),
		Tags:       SplitList(in.Tags),
		GPXContent: strings.TrimSpace(in.GPXContent),
		Body:       in.Body,
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}

	if out.Title == "" || out.Date == "" || out.Location == "" || strings.TrimSpace(in.CoverImage) == "" || out.Excerpt == "" {
		return TripInput{}, errors.Wrap(ErrInvalidInput, "missing required fields")
	}
	if _, ok := ParseDate(out.Date); !ok {
		return TripInput{}, errors.Wrapf(ErrInvalidInput, "invalid date %q", out.Date)
	}
	if Slugify(out.Title) == "" {
		return TripInput{}, errors.Wrap(ErrInvalidInput, "title must contain letters or digits")
	}
	if out.Type != "" && !contains(TripTypes, out.Type) {
		return TripInput{}, errors.Wrapf(ErrInvalidInput, "invalid trip type %q", out.Type)
	}
	if out.Terrain != "" && !contains(TerrainTypes, out.Terrain) {
		return TripInput{}, errors.Wrapf(ErrInvalidInput, "invalid terrain %q", out.Terrain)
	}

	cover, ok := NormalizeImagePath(in.CoverImage)
	if !ok {
		return TripInput{}, errors.Wrap(ErrInvalidInput, "invalid cover image path")
	}
	out.CoverImage = cover

	for _, photo := range SplitList(in.Photos) {
		if p, ok := NormalizeImagePath(photo); ok {
			out.Photos = append(out.Photos, p)
		}
	}
	return out, nil
}

// Meta converts sanitized input into front matter.
func (in TripInput) Meta() TripMeta {
	return TripMeta{
		Title:      in.Title,
		Date:       in.Date,
		Location:   in.Location,
		Tags:       in.Tags,
		CoverImage: in.CoverImage,
		GPXFile:    TrackFileName,
		Photos:     in.Photos,
		Excerpt:    in.Excerpt,
		Author:     in.Author,
		Type:       in.Type,
		Terrain:    in.Terrain,
	}
}

func (in MemberInput) Sanitize() (MemberInput, error) {
	out := MemberInput{
		Name:     strings.TrimSpace(in.Name),
		Nickname: strings.TrimSpace(in.Nickname),
		Role:     strings.TrimSpace(in.Role),
		Bio:      strings.TrimSpace(in.Bio),
		Emoji:    strings.TrimSpace(in.Emoji),
		IsAdmin:  in.IsAdmin,
	}
	if out.Name == "" || out.Nickname == "" || out.Role == "" || out.Bio == "" || strings.TrimSpace(in.Avatar) == "" {
		return MemberInput{}, errors.Wrap(ErrInvalidInput, "missing required fields")
	}
	if Slugify(out.Name) == "" {
		return MemberInput{}, errors.Wrap(ErrInvalidInput, "name must contain letters or digits")
	}
	avatar, ok := NormalizeImagePath(in.Avatar)
	if !ok {
		return MemberInput{}, errors.Wrap(ErrInvalidInput, "invalid avatar image path")
	}
	out.Avatar = avatar
	return out, nil
}

func (in MemberInput) Member(slug string) Member {
	return Member{
		Slug:     slug,
		Name:     in.Name,
		Nickname: in.Nickname,
		Role:     in.Role,
		Bio:      in.Bio,
		Avatar:   in.Avatar,
		Emoji:    in.Emoji,
		IsAdmin:  in.IsAdmin,
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
