package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"moodyo/logger"
	"moodyo/model"
)

// playlistAttempts bounds generation: 3 total attempts, strictly sequential.
const playlistAttempts = 3

const curatorSystemPrompt = `You are a music curator. Given a mood, produce a playlist of real songs that match it.

Respond with a single JSON object of the form {"songs": [{"title": "...", "artist": "..."}]} and nothing else. Every entry must have a non-empty title and artist.`

// PlaylistGenerator turns a mood descriptor into title/artist pairs via the
// external text-generation capability, with bounded retries.
type PlaylistGenerator struct {
	provider ChatProvider
	attempts int
}

// NewPlaylistGenerator builds a generator with the fixed retry bound.
func NewPlaylistGenerator(provider ChatProvider) *PlaylistGenerator {
	return &PlaylistGenerator{provider: provider, attempts: playlistAttempts}
}

// Generate requests targetLength songs for the mood. A provider error, an
// undecodable response, or a list that is empty after filtering malformed
// entries each consume one attempt; attempts run sequentially. When every
// attempt fails the returned error is a *model.GenerationExhaustedError.
// A shorter-than-requested but non-empty list is accepted as-is.
func (g *PlaylistGenerator) Generate(ctx context.Context, mood string, targetLength int) ([]model.Track, error) {
	if targetLength < 1 {
		targetLength = 1
	}
	userPrompt := fmt.Sprintf("Generate a list of %d songs for the mood: %s.\n\nReturn the list of songs in the requested JSON format.", targetLength, mood)

	var lastErr error
	for attempt := 1; attempt <= g.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := g.provider.ChatJSON(ctx, curatorSystemPrompt, userPrompt)
		if err != nil {
			lastErr = err
			logger.Warn("playlist generation attempt failed",
				logger.String("mood", mood),
				logger.Int("attempt", attempt),
				logger.ErrorField(err))
			continue
		}

		tracks, err := parseSongList(content)
		if err != nil {
			lastErr = err
			logger.Warn("playlist generation returned no usable songs",
				logger.String("mood", mood),
				logger.Int("attempt", attempt),
				logger.ErrorField(err))
			continue
		}

		logger.Info("playlist generated",
			logger.String("mood", mood),
			logger.Int("attempt", attempt),
			logger.Int("tracks", len(tracks)))
		return tracks, nil
	}

	return nil, &model.GenerationExhaustedError{Mood: mood, Attempts: g.attempts, LastErr: lastErr}
}

// parseSongList decodes provider output into playlist tracks. Structured JSON
// is the contract; plain "Title by Artist" lines are a legacy fallback held to
// the same validation rules.
func parseSongList(content string) ([]model.Track, error) {
	content = strings.TrimSpace(content)

	var payload struct {
		Songs []struct {
			Title  string `json:"title"`
			Artist string `json:"artist"`
		} `json:"songs"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err == nil {
		tracks := make([]model.Track, 0, len(payload.Songs))
		for _, s := range payload.Songs {
			if strings.TrimSpace(s.Title) == "" || strings.TrimSpace(s.Artist) == "" {
				continue // malformed entry, drop it
			}
			tracks = append(tracks, model.Track{
				Title:  strings.TrimSpace(s.Title),
				Artist: strings.TrimSpace(s.Artist),
			})
		}
		if len(tracks) == 0 {
			return nil, errors.New("song list empty after filtering")
		}
		return tracks, nil
	}

	tracks := parseLegacySongList(content)
	if len(tracks) == 0 {
		return nil, errors.New("provider returned no usable songs")
	}
	return tracks, nil
}

// parseLegacySongList handles free-text "Title by Artist" output, separated
// by newlines or commas.
func parseLegacySongList(content string) []model.Track {
	split := func(r rune) bool { return r == '\n' || r == ',' }

	var tracks []model.Track
	for _, line := range strings.FieldsFunc(content, split) {
		line = strings.TrimSpace(line)
		idx := strings.LastIndex(line, " by ")
		if idx <= 0 {
			continue
		}
		title := strings.TrimSpace(line[:idx])
		artist := strings.TrimSpace(line[idx+len(" by "):])
		if title == "" || artist == "" {
			continue
		}
		tracks = append(tracks, model.Track{Title: title, Artist: artist})
	}
	return tracks
}
