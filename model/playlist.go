package model

// Cover states for a playlist track. Generated playlists start with pending
// placeholder covers which are patched in as image generation resolves.
const (
	CoverReady       = "ready"
	CoverPending     = "pending"
	CoverUnavailable = "unavailable"
)

// Playlist sources.
const (
	SourceCatalog   = "catalog"
	SourceGenerated = "generated"
	SourceSample    = "sample"
)

// Track is one entry of a displayable playlist. Catalog-backed tracks carry
// the catalog id; generated and sample tracks are positional.
type Track struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Src         string `json:"src"`
	Cover       string `json:"cover,omitempty"`
	CoverStatus string `json:"coverStatus"`
}

// Playlist is the ordered track list resolved for one mood. Track order is
// the source's insertion order and defines next/previous navigation.
type Playlist struct {
	Mood       string         `json:"mood"`
	Definition MoodDefinition `json:"definition"`
	Source     string         `json:"source"`
	Tracks     []Track        `json:"tracks"`
}
