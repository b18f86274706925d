package server

import (
	"context"
	"net/http"

	"moodyo/core/player"
	"moodyo/logger"
	"moodyo/model"
)

// sessionHeader carries the client-chosen playback session identifier. Each
// session gets its own transport; an absent header shares the default one.
const sessionHeader = "X-Session-ID"

// transportFor returns the session's transport, creating it on first use.
func (h *APIHandler) transportFor(r *http.Request) *player.Transport {
	session := r.Header.Get(sessionHeader)
	if session == "" {
		session = "default"
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.transports[session]
	if !ok {
		t = player.NewTransport(h.resolver)
		h.transports[session] = t
	}
	return t
}

// GetPlayerStateHandler returns the current playback snapshot.
// GET /api/player
func (h *APIHandler) GetPlayerStateHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.transportFor(r).State())
}

// playerOpenRequest selects the track to load.
type playerOpenRequest struct {
	Mood  string `json:"mood"`
	Index int    `json:"index"`
}

// OpenPlayerHandler loads a resolved playlist into the session's transport
// and starts playback.
// POST /api/player/open
func (h *APIHandler) OpenPlayerHandler(w http.ResponseWriter, r *http.Request) {
	var req playerOpenRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	state, err := h.transportFor(r).Open(r.Context(), req.Mood, req.Index)
	if err != nil {
		logger.Warn("player open rejected",
			logger.String("mood", req.Mood),
			logger.Int("index", req.Index),
			logger.ErrorField(err))
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// TogglePlayPauseHandler flips between playing and paused.
// POST /api/player/toggle
func (h *APIHandler) TogglePlayPauseHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.transportFor(r).TogglePlayPause())
}

// ToggleMuteHandler flips the mute setting.
// POST /api/player/mute
func (h *APIHandler) ToggleMuteHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.transportFor(r).ToggleMute())
}

// playerSeekRequest carries the requested play position in seconds.
type playerSeekRequest struct {
	Time float64 `json:"time"`
}

// SeekHandler moves the play position, clamped into the known track bounds.
// POST /api/player/seek
func (h *APIHandler) SeekHandler(w http.ResponseWriter, r *http.Request) {
	var req playerSeekRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	respondJSON(w, http.StatusOK, h.transportFor(r).Seek(req.Time))
}

// NextTrackHandler advances one track with wraparound.
// POST /api/player/next
func (h *APIHandler) NextTrackHandler(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, (*player.Transport).Next)
}

// PreviousTrackHandler steps back one track with wraparound.
// POST /api/player/previous
func (h *APIHandler) PreviousTrackHandler(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, (*player.Transport).Previous)
}

func (h *APIHandler) step(w http.ResponseWriter, r *http.Request, fn func(*player.Transport, context.Context) (model.PlaybackState, error)) {
	state, err := fn(h.transportFor(r), r.Context())
	if err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// playerEventRequest reports an audio element event to the transport.
type playerEventRequest struct {
	Type     string  `json:"type"` // ended | metadata | timeupdate | error
	Duration float64 `json:"duration,omitempty"`
	Time     float64 `json:"time,omitempty"`
	Message  string  `json:"message,omitempty"`
}

// PlayerEventHandler applies audio element events: end-of-track auto-advance,
// duration metadata, position updates and playback errors.
// POST /api/player/event
func (h *APIHandler) PlayerEventHandler(w http.ResponseWriter, r *http.Request) {
	var req playerEventRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	t := h.transportFor(r)
	switch req.Type {
	case "ended":
		state, err := t.OnTrackEnded(r.Context())
		if err != nil {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, state)
	case "metadata":
		respondJSON(w, http.StatusOK, t.OnMetadata(req.Duration))
	case "timeupdate":
		respondJSON(w, http.StatusOK, t.OnTimeUpdate(req.Time))
	case "error":
		if req.Message != "" {
			logger.Warn("client reported playback error", logger.String("message", req.Message))
		}
		respondJSON(w, http.StatusOK, t.OnPlaybackError())
	default:
		respondError(w, http.StatusBadRequest, "Unknown player event type")
	}
}

// ClosePlayerHandler returns the session's transport to the idle state.
// POST /api/player/close
func (h *APIHandler) ClosePlayerHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.transportFor(r).Close())
}
