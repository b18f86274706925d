package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"moodyo/cache"
	"moodyo/config"
	"moodyo/core/player"
	"moodyo/core/playlist"
	"moodyo/logger"
	"moodyo/repository"
)

// APIHandler 处理所有API请求
type APIHandler struct {
	songRepo  repository.SongRepository
	songCache *cache.SongCache
	resolver  *playlist.Resolver
	coverFeed *CoverFeed
	cfg       *config.Config

	mu         sync.Mutex
	transports map[string]*player.Transport // keyed by session id
}

// NewAPIHandler 创建新的API处理器
func NewAPIHandler(
	songRepo repository.SongRepository,
	songCache *cache.SongCache,
	resolver *playlist.Resolver,
	coverFeed *CoverFeed,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		songRepo:   songRepo,
		songCache:  songCache,
		resolver:   resolver,
		coverFeed:  coverFeed,
		cfg:        cfg,
		transports: make(map[string]*player.Transport),
	}
}

// respondJSON writes a JSON body with the given status code.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

// respondError writes a JSON error body: {"error": "..."}.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondMessage writes a JSON message body: {"message": "..."}.
func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// decodeJSONBody decodes a request body into dst. On malformed JSON it writes
// the 400 response and returns false.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}
