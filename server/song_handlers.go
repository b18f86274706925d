package server

import (
	"errors"
	"net/http"

	"moodyo/logger"
	"moodyo/model"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// GetSongsByMoodHandler serves the mood-filtered catalog listing backed by
// the Redis read-through cache.
// GET /api/songs/{mood}
func (h *APIHandler) GetSongsByMoodHandler(w http.ResponseWriter, r *http.Request) {
	mood := mux.Vars(r)["mood"]
	if !model.IsPredefinedMood(mood) {
		respondError(w, http.StatusBadRequest, "Invalid emotion")
		return
	}

	if songs, ok := h.songCache.Get(r.Context(), mood); ok {
		respondJSON(w, http.StatusOK, songs)
		return
	}

	songs, err := h.songRepo.ListByMood(r.Context(), mood)
	if err != nil {
		logger.Error("failed to list songs by mood", logger.String("mood", mood), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch songs")
		return
	}

	h.songCache.Set(r.Context(), mood, songs)
	respondJSON(w, http.StatusOK, songs)
}

// ListAllSongsHandler serves the full catalog for the admin table.
// GET /api/admin/songs
func (h *APIHandler) ListAllSongsHandler(w http.ResponseWriter, r *http.Request) {
	songs, err := h.songRepo.ListAll(r.Context())
	if err != nil {
		logger.Error("failed to list songs", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch songs")
		return
	}
	respondJSON(w, http.StatusOK, songs)
}

// CreateSongHandler inserts a catalog entry.
// POST /api/admin/songs
func (h *APIHandler) CreateSongHandler(w http.ResponseWriter, r *http.Request) {
	var input model.SongInput
	if !decodeJSONBody(w, r, &input) {
		return
	}

	song, err := h.songRepo.Create(r.Context(), input)
	if err != nil {
		h.writeSongError(w, err)
		return
	}

	h.invalidateMood(r, song.Emotion)
	respondJSON(w, http.StatusCreated, song)
}

// UpdateSongHandler rewrites a catalog entry's fields.
// PUT /api/admin/songs/{id}
func (h *APIHandler) UpdateSongHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid song ID")
		return
	}

	var input model.SongInput
	if !decodeJSONBody(w, r, &input) {
		return
	}

	song, err := h.songRepo.Update(r.Context(), id, input)
	if err != nil {
		h.writeSongError(w, err)
		return
	}

	// The update may have moved the song between moods and the returned row
	// only carries the new one; drop every mood listing so the old mood stops
	// serving the moved song.
	for _, mood := range model.PredefinedMoods {
		h.invalidateMood(r, mood)
	}
	respondJSON(w, http.StatusOK, song)
}

// DeleteSongHandler removes a catalog entry.
// DELETE /api/admin/songs/{id}
func (h *APIHandler) DeleteSongHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid song ID")
		return
	}

	if err := h.songRepo.Delete(r.Context(), id); err != nil {
		h.writeSongError(w, err)
		return
	}

	// The deleted row's mood is unknown here; drop every mood listing.
	for _, mood := range model.PredefinedMoods {
		h.invalidateMood(r, mood)
	}
	respondMessage(w, http.StatusOK, "Song deleted successfully")
}

// writeSongError maps repository errors onto catalog API responses.
func (h *APIHandler) writeSongError(w http.ResponseWriter, err error) {
	var vErr *model.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondError(w, http.StatusBadRequest, vErr.Message)
	case errors.Is(err, model.ErrSongNotFound):
		respondError(w, http.StatusNotFound, "Song not found")
	default:
		logger.Error("catalog write failed", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// invalidateMood drops the cached song list and resolved playlist for a mood
// so the next read observes the catalog write.
func (h *APIHandler) invalidateMood(r *http.Request, mood string) {
	h.songCache.Invalidate(r.Context(), mood)
	h.resolver.Evict(mood)
}
