package model

import "time"

// Song is one curated catalog track, scoped to a single mood.
type Song struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	Src       string    `json:"src"`
	Cover     string    `json:"cover"`
	Emotion   string    `json:"emotion"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SongInput carries the writable fields of a Song for create/update requests.
type SongInput struct {
	Title   string `json:"title"`
	Artist  string `json:"artist"`
	Src     string `json:"src"`
	Cover   string `json:"cover"`
	Emotion string `json:"emotion"`
}
