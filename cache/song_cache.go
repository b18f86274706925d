package cache

import (
	"context"
	"encoding/json"
	"time"

	"moodyo/logger"
	"moodyo/model"

	"github.com/go-redis/redis/v8"
)

// SongCache is a Redis read-through cache for mood-filtered catalog queries.
// The catalog stays authoritative: any cache failure is treated as a miss and
// logged, never surfaced to the caller.
type SongCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSongCache creates a cache over the given client. A nil client yields a
// cache where every lookup misses.
func NewSongCache(client *redis.Client, ttl time.Duration) *SongCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SongCache{client: client, ttl: ttl}
}

func songsKey(mood string) string {
	return "songs:" + mood
}

// Get returns the cached song list for a mood and whether it was present.
func (c *SongCache) Get(ctx context.Context, mood string) ([]model.Song, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, songsKey(mood)).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("song cache read failed", logger.String("mood", mood), logger.ErrorField(err))
		}
		return nil, false
	}

	var songs []model.Song
	if err := json.Unmarshal([]byte(raw), &songs); err != nil {
		logger.Warn("song cache entry corrupt, dropping", logger.String("mood", mood), logger.ErrorField(err))
		c.Invalidate(ctx, mood)
		return nil, false
	}
	return songs, true
}

// Set stores the song list for a mood with the configured TTL.
func (c *SongCache) Set(ctx context.Context, mood string, songs []model.Song) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(songs)
	if err != nil {
		logger.Warn("song cache marshal failed", logger.String("mood", mood), logger.ErrorField(err))
		return
	}
	if err := c.client.Set(ctx, songsKey(mood), raw, c.ttl).Err(); err != nil {
		logger.Warn("song cache write failed", logger.String("mood", mood), logger.ErrorField(err))
	}
}

// Invalidate drops the cached list for a mood. Called after admin writes.
func (c *SongCache) Invalidate(ctx context.Context, mood string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, songsKey(mood)).Err(); err != nil {
		logger.Warn("song cache invalidate failed", logger.String("mood", mood), logger.ErrorField(err))
	}
}
