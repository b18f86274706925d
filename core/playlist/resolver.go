// Package playlist contains the mood resolution orchestrator: it decides how
// each mood's playlist is sourced (catalog, AI generation, or the built-in
// samples), caches resolved playlists for the session, and enriches generated
// playlists with cover art without blocking their display.
package playlist

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"moodyo/logger"
	"moodyo/model"
)

// SongCatalog is the read side of the catalog consumed during resolution.
type SongCatalog interface {
	ListByMood(ctx context.Context, mood string) ([]model.Song, error)
}

// Generator produces title/artist pairs for a mood descriptor.
type Generator interface {
	Generate(ctx context.Context, mood string, targetLength int) ([]model.Track, error)
}

// CoverGenerator produces one cover reference per request, soft-failing to
// (_, false) when no image is available.
type CoverGenerator interface {
	Generate(ctx context.Context, hint string) (string, bool)
}

// DefinitionStore persists custom mood definitions across sessions. May be nil.
type DefinitionStore interface {
	Get(ctx context.Context, mood string) (*model.MoodDefinition, error)
	Save(ctx context.Context, def model.MoodDefinition) error
}

// PatchListener observes cover patches as they are applied to cached
// playlists, e.g. to push them to connected clients.
type PatchListener func(mood string, index int, cover, status string)

// Resolver is the mood resolution orchestrator. Cached playlists are mutated
// only here: the initial write on resolution and field-level cover patches.
type Resolver struct {
	catalog      SongCatalog
	generator    Generator
	covers       CoverGenerator
	defs         DefinitionStore
	targetLength int

	mu        sync.Mutex
	playlists map[string]*model.Playlist
	defCache  map[string]model.MoodDefinition
	listeners []PatchListener
}

// NewResolver wires the orchestrator. defs may be nil.
func NewResolver(catalog SongCatalog, generator Generator, covers CoverGenerator, defs DefinitionStore, targetLength int) *Resolver {
	if targetLength < 1 {
		targetLength = 10
	}
	return &Resolver{
		catalog:      catalog,
		generator:    generator,
		covers:       covers,
		defs:         defs,
		targetLength: targetLength,
		playlists:    make(map[string]*model.Playlist),
		defCache:     make(map[string]model.MoodDefinition),
	}
}

// Subscribe registers a listener for cover patches.
func (r *Resolver) Subscribe(l PatchListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

// Resolve returns the playlist for a mood, building it on first request and
// serving the session cache afterwards. For custom moods a generation failure
// propagates as *model.GenerationExhaustedError and nothing is cached.
func (r *Resolver) Resolve(ctx context.Context, mood model.Mood) (model.Playlist, error) {
	r.mu.Lock()
	if cached, ok := r.playlists[mood.ID]; ok {
		snapshot := clonePlaylist(cached)
		r.mu.Unlock()
		return snapshot, nil
	}
	r.mu.Unlock()

	if mood.Kind == model.MoodKindCustom {
		return r.resolveCustom(ctx, mood)
	}
	return r.resolvePredefined(ctx, mood)
}

// Lookup returns the cached playlist for a mood identifier, resolving
// predefined moods on demand. Custom moods that were never resolved return
// false rather than triggering generation.
func (r *Resolver) Lookup(ctx context.Context, moodID string) (model.Playlist, bool) {
	r.mu.Lock()
	if cached, ok := r.playlists[moodID]; ok {
		snapshot := clonePlaylist(cached)
		r.mu.Unlock()
		return snapshot, true
	}
	r.mu.Unlock()

	if !model.IsPredefinedMood(moodID) {
		return model.Playlist{}, false
	}
	pl, err := r.resolvePredefined(ctx, model.Predefined(moodID))
	if err != nil {
		return model.Playlist{}, false
	}
	return pl, true
}

// Evict drops a cached playlist. In-flight cover patches targeting the
// evicted entry become no-ops.
func (r *Resolver) Evict(moodID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.playlists, moodID)
}

// resolvePredefined serves the catalog when it has tracks for the mood and
// the built-in sample set otherwise. The catalog is authoritative: the AI
// generator is never invoked for a predefined mood.
func (r *Resolver) resolvePredefined(ctx context.Context, mood model.Mood) (model.Playlist, error) {
	def, _ := model.PredefinedDefinition(mood.ID)

	songs, err := r.catalog.ListByMood(ctx, mood.ID)
	if err != nil {
		logger.Warn("catalog unavailable, falling back to sample tracks",
			logger.String("mood", mood.ID),
			logger.ErrorField(err))
		songs = nil
	}

	pl := &model.Playlist{Mood: mood.ID, Definition: def}
	if len(songs) > 0 {
		pl.Source = model.SourceCatalog
		pl.Tracks = make([]model.Track, 0, len(songs))
		for _, s := range songs {
			pl.Tracks = append(pl.Tracks, model.Track{
				ID:          s.ID,
				Title:       s.Title,
				Artist:      s.Artist,
				Src:         s.Src,
				Cover:       s.Cover,
				CoverStatus: model.CoverReady,
			})
		}
	} else {
		pl.Source = model.SourceSample
		pl.Tracks = SampleTracks(mood.ID)
	}

	r.mu.Lock()
	// Another resolution may have raced us; first write wins.
	if existing, ok := r.playlists[mood.ID]; ok {
		pl = existing
	} else {
		r.playlists[mood.ID] = pl
	}
	snapshot := clonePlaylist(pl)
	r.mu.Unlock()

	logger.Info("mood resolved",
		logger.String("mood", mood.ID),
		logger.String("source", snapshot.Source),
		logger.Int("tracks", len(snapshot.Tracks)))
	return snapshot, nil
}

// resolveCustom builds a playlist from AI generation. The playlist is cached
// and returned as soon as titles and artists are known; cover art is patched
// in afterwards, one concurrent request per track.
func (r *Resolver) resolveCustom(ctx context.Context, mood model.Mood) (model.Playlist, error) {
	def := r.definition(ctx, mood)

	descriptor := def.Description
	if strings.TrimSpace(descriptor) == "" {
		descriptor = def.Title
	}

	tracks, err := r.generator.Generate(ctx, descriptor, r.targetLength)
	if err != nil {
		logger.Error("custom mood playlist generation failed",
			logger.String("mood", mood.ID),
			logger.ErrorField(err))
		return model.Playlist{}, err
	}

	for i := range tracks {
		tracks[i].Src = SampleAudioSrc(i)
		tracks[i].Cover = PlaceholderCover(mood.ID, i)
		tracks[i].CoverStatus = model.CoverPending
	}

	pl := &model.Playlist{
		Mood:       mood.ID,
		Definition: def,
		Source:     model.SourceGenerated,
		Tracks:     tracks,
	}

	r.mu.Lock()
	if existing, ok := r.playlists[mood.ID]; ok {
		snapshot := clonePlaylist(existing)
		r.mu.Unlock()
		return snapshot, nil
	}
	r.playlists[mood.ID] = pl
	snapshot := clonePlaylist(pl)
	r.mu.Unlock()

	logger.Info("custom mood resolved",
		logger.String("mood", mood.ID),
		logger.Int("tracks", len(snapshot.Tracks)))

	// Fire-and-patch enrichment: one request and one write per index. The
	// playlist is already displayable, so these never block the caller.
	for i, t := range snapshot.Tracks {
		hint := fmt.Sprintf("%s by %s — %s", t.Title, t.Artist, descriptor)
		go r.enrichCover(mood.ID, i, hint)
	}

	return snapshot, nil
}

// enrichCover runs one cover generation and applies its patch. Detached from
// the request context: enrichment outlives the resolving request.
func (r *Resolver) enrichCover(moodID string, index int, hint string) {
	cover, ok := r.covers.Generate(context.Background(), hint)
	status := model.CoverReady
	if !ok {
		status = model.CoverUnavailable
	}
	r.applyCoverPatch(moodID, index, cover, status)
}

// applyCoverPatch patches a single track's cover in the cached playlist.
// Idempotent; a patch for an evicted playlist or out-of-range index is a
// no-op. Only the addressed track is touched.
func (r *Resolver) applyCoverPatch(moodID string, index int, cover, status string) {
	r.mu.Lock()
	pl, ok := r.playlists[moodID]
	if !ok || index < 0 || index >= len(pl.Tracks) {
		r.mu.Unlock()
		return
	}
	if cover != "" {
		pl.Tracks[index].Cover = cover
	}
	pl.Tracks[index].CoverStatus = status
	applied := pl.Tracks[index].Cover
	listeners := make([]PatchListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	logger.Debug("cover patch applied",
		logger.String("mood", moodID),
		logger.Int("index", index),
		logger.String("status", status))
	for _, l := range listeners {
		l(moodID, index, applied, status)
	}
}

// definition returns the display metadata for a mood, consulting the session
// cache, then the store, then the user-supplied definition.
func (r *Resolver) definition(ctx context.Context, mood model.Mood) model.MoodDefinition {
	if mood.Kind == model.MoodKindPredefined {
		def, _ := model.PredefinedDefinition(mood.ID)
		return def
	}

	r.mu.Lock()
	if def, ok := r.defCache[mood.ID]; ok {
		r.mu.Unlock()
		return def
	}
	r.mu.Unlock()

	if mood.Def == nil && r.defs != nil {
		if stored, err := r.defs.Get(ctx, mood.ID); err != nil {
			logger.Warn("mood definition lookup failed", logger.String("mood", mood.ID), logger.ErrorField(err))
		} else if stored != nil {
			r.cacheDefinition(*stored)
			return *stored
		}
	}

	def := model.MoodDefinition{Mood: mood.ID, Title: mood.ID}
	if mood.Def != nil {
		def = *mood.Def
		if r.defs != nil {
			if err := r.defs.Save(ctx, def); err != nil {
				logger.Warn("mood definition save failed", logger.String("mood", mood.ID), logger.ErrorField(err))
			}
		}
	}
	r.cacheDefinition(def)
	return def
}

// Definition exposes the resolved display metadata for a mood.
func (r *Resolver) Definition(ctx context.Context, mood model.Mood) model.MoodDefinition {
	return r.definition(ctx, mood)
}

func (r *Resolver) cacheDefinition(def model.MoodDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defCache[def.Mood] = def
}

func clonePlaylist(pl *model.Playlist) model.Playlist {
	out := *pl
	out.Tracks = make([]model.Track, len(pl.Tracks))
	copy(out.Tracks, pl.Tracks)
	return out
}
