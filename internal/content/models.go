package content

import "backend-tripgallery/internal/routestats"

// TripMeta is the authored front matter of content/trips/<slug>/trip.mdx.
type TripMeta struct {
	Title      string   `yaml:"title" json:"title"`
	Date       string   `yaml:"date" json:"date"`
	Location   string   `yaml:"location" json:"location"`
	Tags       []string `yaml:"tags" json:"tags"`
	CoverImage string   `yaml:"coverImage" json:"coverImage"`
	GPXFile    string   `yaml:"gpxFile,omitempty" json:"gpxFile,omitempty"`
	Photos     []string `yaml:"photos,omitempty" json:"photos,omitempty"`
	Excerpt    string   `yaml:"excerpt" json:"excerpt"`
	Author     string   `yaml:"author,omitempty" json:"author,omitempty"`
	Type       string   `yaml:"type,omitempty" json:"type,omitempty"`
	Terrain    string   `yaml:"terrain,omitempty" json:"terrain,omitempty"`

	Extra Extra `yaml:",inline" json:"-"`
}

// TripRecord is one entry of trips.json: authored metadata plus derived data.
type TripRecord struct {
	Slug string `json:"slug"`
	TripMeta
	Stats      routestats.TripStats `json:"stats"`
	GeoJSONURL string               `json:"geojsonUrl,omitempty"`
}

// Member is the front matter of content/members/<slug>.mdx.
type Member struct {
	Slug     string `yaml:"-" json:"slug"`
	Name     string `yaml:"name" json:"name"`
	Nickname string `yaml:"nickname" json:"nickname"`
	Role     string `yaml:"role" json:"role"`
	Bio      string `yaml:"bio" json:"bio"`
	Avatar   string `yaml:"avatar" json:"avatar"`
	Emoji    string `yaml:"emoji,omitempty" json:"emoji,omitempty"`
	IsAdmin  bool   `yaml:"isAdmin,omitempty" json:"isAdmin,omitempty"`

	Extra Extra `yaml:",inline" json:"-"`
}

const (
	TripFileName  = "trip.mdx"
	TrackFileName = "route.gpx"

	DefaultTripBody   = "# The Story\n\nWrite your adventure story here...\n"
	DefaultMemberBody = "Add optional extended bio here...\n"
)

var (
	TripTypes    = []string{"one-day", "overnight", "multi-day"}
	TerrainTypes = []string{"road", "gravel", "mtb", "mixed"}
)
