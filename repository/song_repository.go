package repository

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"moodyo/db"
	"moodyo/logger"
	"moodyo/model"

	"github.com/google/uuid"
)

// SongRepository defines the catalog accessor contract. Reads return empty
// slices (not errors) when nothing matches; writes validate their input and
// fail with *model.ValidationError or model.ErrSongNotFound.
type SongRepository interface {
	ListByMood(ctx context.Context, mood string) ([]model.Song, error)
	ListAll(ctx context.Context) ([]model.Song, error)
	Create(ctx context.Context, input model.SongInput) (model.Song, error)
	Update(ctx context.Context, id string, input model.SongInput) (model.Song, error)
	Delete(ctx context.Context, id string) error
}

// mysqlSongRepository implements SongRepository for MySQL.
type mysqlSongRepository struct {
	DB *sql.DB
}

// NewMySQLSongRepository creates a new instance of mysqlSongRepository.
func NewMySQLSongRepository() SongRepository {
	return &mysqlSongRepository{DB: db.DB}
}

// NewMySQLSongRepositoryWithDB creates a repository bound to an explicit handle.
func NewMySQLSongRepositoryWithDB(database *sql.DB) SongRepository {
	return &mysqlSongRepository{DB: database}
}

const songColumns = "id, title, artist, src, cover, emotion, created_at, updated_at"

// ValidateSongInput checks the writable fields of a song. All fields are
// required, src and cover must be absolute URLs, emotion must be one of the
// fixed moods. The error messages match the public API responses.
func ValidateSongInput(input model.SongInput) error {
	if strings.TrimSpace(input.Title) == "" ||
		strings.TrimSpace(input.Artist) == "" ||
		strings.TrimSpace(input.Src) == "" ||
		strings.TrimSpace(input.Cover) == "" ||
		strings.TrimSpace(input.Emotion) == "" {
		return model.NewValidationError("", "All fields are required")
	}
	if !model.IsPredefinedMood(input.Emotion) {
		return model.NewValidationError("emotion", "Invalid emotion")
	}
	if !isAbsoluteURL(input.Src) || !isAbsoluteURL(input.Cover) {
		return model.NewValidationError("", "Invalid URL format for audio or cover")
	}
	return nil
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// ListByMood returns tracks for one mood, ordered by creation time ascending.
func (r *mysqlSongRepository) ListByMood(ctx context.Context, mood string) ([]model.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE emotion = ? ORDER BY created_at ASC, id ASC`
	rows, err := r.DB.QueryContext(ctx, query, mood)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs for mood %s: %w", mood, err)
	}
	defer rows.Close()

	return scanSongs(rows)
}

// ListAll returns every track, newest first, for administrative display.
func (r *mysqlSongRepository) ListAll(ctx context.Context) ([]model.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs ORDER BY created_at DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query all songs: %w", err)
	}
	defer rows.Close()

	return scanSongs(rows)
}

func scanSongs(rows *sql.Rows) ([]model.Song, error) {
	songs := make([]model.Song, 0)
	for rows.Next() {
		var s model.Song
		if err := rows.Scan(&s.ID, &s.Title, &s.Artist, &s.Src, &s.Cover, &s.Emotion, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan song row: %w", err)
		}
		songs = append(songs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during song rows iteration: %w", err)
	}
	return songs, nil
}

// Create validates and inserts a new song, assigning id and timestamps.
func (r *mysqlSongRepository) Create(ctx context.Context, input model.SongInput) (model.Song, error) {
	if err := ValidateSongInput(input); err != nil {
		return model.Song{}, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	song := model.Song{
		ID:        uuid.NewString(),
		Title:     input.Title,
		Artist:    input.Artist,
		Src:       input.Src,
		Cover:     input.Cover,
		Emotion:   input.Emotion,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `INSERT INTO songs (id, title, artist, src, cover, emotion, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.DB.ExecContext(ctx, query, song.ID, song.Title, song.Artist, song.Src, song.Cover, song.Emotion, song.CreatedAt, song.UpdatedAt); err != nil {
		return model.Song{}, fmt.Errorf("failed to insert song: %w", err)
	}

	logger.Info("song created",
		logger.String("id", song.ID),
		logger.String("title", song.Title),
		logger.String("emotion", song.Emotion))
	return song, nil
}

// Update validates and rewrites an existing song's fields.
func (r *mysqlSongRepository) Update(ctx context.Context, id string, input model.SongInput) (model.Song, error) {
	if err := ValidateSongInput(input); err != nil {
		return model.Song{}, err
	}

	existing, err := r.getByID(ctx, id)
	if err != nil {
		return model.Song{}, err
	}
	if existing == nil {
		return model.Song{}, model.ErrSongNotFound
	}

	now := time.Now().UTC().Truncate(time.Second)
	query := `UPDATE songs SET title = ?, artist = ?, src = ?, cover = ?, emotion = ?, updated_at = ? WHERE id = ?`
	if _, err := r.DB.ExecContext(ctx, query, input.Title, input.Artist, input.Src, input.Cover, input.Emotion, now, id); err != nil {
		return model.Song{}, fmt.Errorf("failed to update song %s: %w", id, err)
	}

	updated := *existing
	updated.Title = input.Title
	updated.Artist = input.Artist
	updated.Src = input.Src
	updated.Cover = input.Cover
	updated.Emotion = input.Emotion
	updated.UpdatedAt = now
	return updated, nil
}

// Delete removes a song by id.
func (r *mysqlSongRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete song %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for song %s: %w", id, err)
	}
	if affected == 0 {
		return model.ErrSongNotFound
	}
	logger.Info("song deleted", logger.String("id", id))
	return nil
}

func (r *mysqlSongRepository) getByID(ctx context.Context, id string) (*model.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE id = ?`
	row := r.DB.QueryRowContext(ctx, query, id)

	var s model.Song
	err := row.Scan(&s.ID, &s.Title, &s.Artist, &s.Src, &s.Cover, &s.Emotion, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // song not found
		}
		return nil, fmt.Errorf("failed to scan song by id %s: %w", id, err)
	}
	return &s, nil
}
