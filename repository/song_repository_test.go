package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"moodyo/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

func validInput() model.SongInput {
	return model.SongInput{
		Title:   "Sunny Days",
		Artist:  "MoodyO Mix",
		Src:     "https://audio.example/sunny.mp3",
		Cover:   "https://img.example/sunny.jpg",
		Emotion: model.MoodHappy,
	}
}

func TestValidateSongInput(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.SongInput)
		wantMsg string
	}{
		{name: "valid", mutate: func(in *model.SongInput) {}},
		{
			name:    "missing title",
			mutate:  func(in *model.SongInput) { in.Title = "  " },
			wantMsg: "All fields are required",
		},
		{
			name:    "missing cover",
			mutate:  func(in *model.SongInput) { in.Cover = "" },
			wantMsg: "All fields are required",
		},
		{
			name:    "unknown emotion",
			mutate:  func(in *model.SongInput) { in.Emotion = "ecstatic" },
			wantMsg: "Invalid emotion",
		},
		{
			name:    "relative src url",
			mutate:  func(in *model.SongInput) { in.Src = "/local/sunny.mp3" },
			wantMsg: "Invalid URL format for audio or cover",
		},
		{
			name:    "cover without scheme",
			mutate:  func(in *model.SongInput) { in.Cover = "img.example/sunny.jpg" },
			wantMsg: "Invalid URL format for audio or cover",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)

			err := ValidateSongInput(input)
			if tc.wantMsg == "" {
				if err != nil {
					t.Fatalf("expected valid input, got %v", err)
				}
				return
			}

			var vErr *model.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
			if vErr.Message != tc.wantMsg {
				t.Fatalf("expected message %q, got %q", tc.wantMsg, vErr.Message)
			}
		})
	}
}

func TestCreateSong(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer mockDB.Close()

	repo := NewMySQLSongRepositoryWithDB(mockDB)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO songs (id, title, artist, src, cover, emotion, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)).
		WithArgs(sqlmock.AnyArg(), "Sunny Days", "MoodyO Mix", "https://audio.example/sunny.mp3", "https://img.example/sunny.jpg", model.MoodHappy, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	song, err := repo.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := uuid.Parse(song.ID); err != nil {
		t.Fatalf("created song must get a UUID id, got %q", song.ID)
	}
	if song.CreatedAt.IsZero() || !song.CreatedAt.Equal(song.UpdatedAt) {
		t.Fatalf("timestamps not assigned: %+v", song)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateSongInvalidInputSkipsDB(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer mockDB.Close()

	repo := NewMySQLSongRepositoryWithDB(mockDB)

	input := validInput()
	input.Emotion = "meh"
	if _, err := repo.Create(context.Background(), input); err == nil {
		t.Fatal("expected validation error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no queries expected: %v", err)
	}
}

func songRows(songs ...model.Song) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "title", "artist", "src", "cover", "emotion", "created_at", "updated_at"})
	for _, s := range songs {
		rows.AddRow(s.ID, s.Title, s.Artist, s.Src, s.Cover, s.Emotion, s.CreatedAt, s.UpdatedAt)
	}
	return rows
}

func TestListByMood(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer mockDB.Close()

	repo := NewMySQLSongRepositoryWithDB(mockDB)

	now := time.Now().UTC().Truncate(time.Second)
	stored := model.Song{
		ID: uuid.NewString(), Title: "Bloom", Artist: "Bedroom Pop",
		Src: "https://a/b.mp3", Cover: "https://a/b.jpg",
		Emotion: model.MoodHappy, CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, title, artist, src, cover, emotion, created_at, updated_at FROM songs WHERE emotion = ? ORDER BY created_at ASC, id ASC`)).
		WithArgs(model.MoodHappy).
		WillReturnRows(songRows(stored))

	songs, err := repo.ListByMood(context.Background(), model.MoodHappy)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(songs) != 1 || songs[0].Title != "Bloom" {
		t.Fatalf("unexpected songs: %+v", songs)
	}
}

func TestListByMoodEmptyIsNotError(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer mockDB.Close()

	repo := NewMySQLSongRepositoryWithDB(mockDB)

	mock.ExpectQuery("SELECT .+ FROM songs WHERE emotion").
		WithArgs(model.MoodSad).
		WillReturnRows(songRows())

	songs, err := repo.ListByMood(context.Background(), model.MoodSad)
	if err != nil {
		t.Fatalf("empty result must not error: %v", err)
	}
	if songs == nil || len(songs) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", songs)
	}
}

func TestUpdateSongNotFound(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer mockDB.Close()

	repo := NewMySQLSongRepositoryWithDB(mockDB)
	id := uuid.NewString()

	mock.ExpectQuery("SELECT .+ FROM songs WHERE id").
		WithArgs(id).
		WillReturnRows(songRows())

	_, err = repo.Update(context.Background(), id, validInput())
	if !errors.Is(err, model.ErrSongNotFound) {
		t.Fatalf("expected ErrSongNotFound, got %v", err)
	}
}

func TestUpdateSongMergesFields(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer mockDB.Close()

	repo := NewMySQLSongRepositoryWithDB(mockDB)

	created := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	id := uuid.NewString()
	existing := model.Song{
		ID: id, Title: "Old", Artist: "Old Artist",
		Src: "https://a/old.mp3", Cover: "https://a/old.jpg",
		Emotion: model.MoodSad, CreatedAt: created, UpdatedAt: created,
	}

	mock.ExpectQuery("SELECT .+ FROM songs WHERE id").
		WithArgs(id).
		WillReturnRows(songRows(existing))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE songs SET title = ?, artist = ?, src = ?, cover = ?, emotion = ?, updated_at = ? WHERE id = ?`)).
		WithArgs("Sunny Days", "MoodyO Mix", "https://audio.example/sunny.mp3", "https://img.example/sunny.jpg", model.MoodHappy, sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := repo.Update(context.Background(), id, validInput())
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != id || !updated.CreatedAt.Equal(created) {
		t.Fatalf("identity fields must be preserved: %+v", updated)
	}
	if updated.Title != "Sunny Days" || updated.Emotion != model.MoodHappy {
		t.Fatalf("writable fields not applied: %+v", updated)
	}
	if !updated.UpdatedAt.After(created) {
		t.Fatalf("updated_at not refreshed: %+v", updated)
	}
}

func TestDeleteSong(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer mockDB.Close()

	repo := NewMySQLSongRepositoryWithDB(mockDB)
	id := uuid.NewString()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM songs WHERE id = ?`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), id); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestDeleteSongNotFound(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer mockDB.Close()

	repo := NewMySQLSongRepositoryWithDB(mockDB)
	id := uuid.NewString()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM songs WHERE id = ?`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if !errors.Is(repo.Delete(context.Background(), id), model.ErrSongNotFound) {
		t.Fatal("expected ErrSongNotFound for missing row")
	}
}
