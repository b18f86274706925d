package server

import (
	"errors"
	"net/http"
	"strings"

	"moodyo/logger"
	"moodyo/model"

	"github.com/gorilla/mux"
)

// ListMoodsHandler serves the fixed mood cards for the home page.
// GET /api/moods
func (h *APIHandler) ListMoodsHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, model.PredefinedDefinitions())
}

// GetMoodPlaylistHandler resolves and serves the playlist for a mood. The
// mood segment may be one of the fixed identifiers or a previously created
// custom mood slug.
// GET /api/moods/{mood}/playlist
func (h *APIHandler) GetMoodPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	moodID := mux.Vars(r)["mood"]

	var mood model.Mood
	if model.IsPredefinedMood(moodID) {
		mood = model.Predefined(moodID)
	} else {
		// Custom slugs resolve only after POST /api/moods/custom created them;
		// a bare GET never triggers generation.
		if pl, ok := h.resolver.Lookup(r.Context(), moodID); ok {
			respondJSON(w, http.StatusOK, pl)
			return
		}
		respondError(w, http.StatusNotFound, "Unknown mood")
		return
	}

	pl, err := h.resolver.Resolve(r.Context(), mood)
	if err != nil {
		h.writeResolveError(w, moodID, err)
		return
	}
	respondJSON(w, http.StatusOK, pl)
}

// customMoodRequest is the body of a custom mood creation.
type customMoodRequest struct {
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
}

// CreateCustomMoodHandler creates a custom mood and resolves its generated
// playlist. The response is displayable immediately; cover art arrives later
// over the cover patch feed.
// POST /api/moods/custom
func (h *APIHandler) CreateCustomMoodHandler(w http.ResponseWriter, r *http.Request) {
	var req customMoodRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "Mood name is required")
		return
	}

	mood := model.CustomMood(req.Name, req.Emoji, req.Description)
	if mood.ID == "" {
		respondError(w, http.StatusBadRequest, "Mood name is required")
		return
	}
	if model.IsPredefinedMood(mood.ID) {
		// Redirect clashes with the fixed moods to the canonical page.
		mood = model.Predefined(mood.ID)
	}

	pl, err := h.resolver.Resolve(r.Context(), mood)
	if err != nil {
		h.writeResolveError(w, mood.ID, err)
		return
	}
	respondJSON(w, http.StatusCreated, pl)
}

// writeResolveError maps resolver errors onto playlist API responses.
func (h *APIHandler) writeResolveError(w http.ResponseWriter, mood string, err error) {
	var exhausted *model.GenerationExhaustedError
	if errors.As(err, &exhausted) {
		logger.Warn("playlist generation exhausted",
			logger.String("mood", mood),
			logger.Int("attempts", exhausted.Attempts))
		respondError(w, http.StatusBadGateway, "Playlist generation failed, please try again")
		return
	}
	logger.Error("mood resolution failed", logger.String("mood", mood), logger.ErrorField(err))
	respondError(w, http.StatusInternalServerError, "Failed to resolve mood")
}
