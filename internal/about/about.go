// Package about stores the editable "about" page as public/data/about.json.
package about

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"backend-tripgallery/internal/artifact"
	"backend-tripgallery/internal/content"
	"backend-tripgallery/internal/shared/fsutil"
)

const FileName = "about.json"

type Value struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Content struct {
	Title       string  `json:"title"`
	Subtitle    string  `json:"subtitle"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Values      []Value `json:"values"`
}

// Default is served until an admin saves the page for the first time.
var Default = Content{
	Title:    "The Story",
	Subtitle: "We ride because it's hard.",
	Description: "Lazy Team was born from a simple idea: that the best way to see the world is at 25 kilometers per hour. " +
		"We aren't professional athletes, but we treat every climb like a world championship.\n\n" +
		"Founded in 2023, what started as a few friends meeting for Sunday coffee rides evolved into an obsession " +
		"with exploring the most challenging and beautiful terrain we could find.\n\n" +
		"Our philosophy is simple: Ride long, eat well, and never take yourself too seriously.",
	Image: "https://images.unsplash.com/photo-1518063319789-7217e6706b04?auto=format&fit=crop&q=80&w=2000",
	Values: []Value{
		{Title: "Exploration", Description: "We seek out the roads less traveled, the steepest gradients, and the most rewarding views."},
		{Title: "Community", Description: "Cycling is better together. We support each other through every mechanical and every bonk."},
		{Title: "Storytelling", Description: "Every ride is an adventure worth documenting. We share our stories to inspire others to get out and ride."},
	},
}

type Service struct {
	path string
}

func NewService(dataDir string) *Service {
	return &Service{path: filepath.Join(dataDir, FileName)}
}

func (s *Service) Get(ctx context.Context) (Content, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default, nil
		}
		return Content{}, errors.Wrap(err, "read about")
	}
	var c Content
	if err := json.Unmarshal(raw, &c); err != nil {
		return Content{}, errors.Wrap(err, "decode about")
	}
	return c, nil
}

func (s *Service) Save(ctx context.Context, c Content) error {
	if err := c.Validate(); err != nil {
		return err
	}
	raw, err := artifact.MarshalIndex(c)
	if err != nil {
		return errors.Wrap(err, "encode about")
	}
	return errors.Wrap(fsutil.WriteFileAtomic(s.path, raw, 0o644), "write about")
}

// Validate requires every field. Values may be empty but each entry needs a title.
func (c Content) Validate() error {
	if strings.TrimSpace(c.Title) == "" || strings.TrimSpace(c.Subtitle) == "" ||
		strings.TrimSpace(c.Description) == "" || strings.TrimSpace(c.Image) == "" || c.Values == nil {
		return errors.Wrap(content.ErrInvalidInput, "title, subtitle, description, image and values are required")
	}
	for _, v := range c.Values {
		if strings.TrimSpace(v.Title) == "" {
			return errors.Wrap(content.ErrInvalidInput, "every value needs a title")
		}
	}
	return nil
}
