// Package player implements the playback transport: the single writer of
// playback state for one listening session.
package player

import (
	"context"
	"fmt"
	"sync"

	"moodyo/logger"
	"moodyo/model"
)

// PlaylistSource supplies already-resolved playlists. The transport never
// triggers playlist generation; it only plays what the resolver has cached.
type PlaylistSource interface {
	Lookup(ctx context.Context, mood string) (model.Playlist, bool)
}

// Transport is the playback state machine for one session. All mutation goes
// through its methods under a single lock; every command returns the state
// after the transition so callers never observe an intermediate value.
type Transport struct {
	mu     sync.Mutex
	source PlaylistSource
	state  model.PlaybackState
	length int
}

// NewTransport starts a transport in the idle state: no mood, index -1,
// paused and unmuted.
func NewTransport(source PlaylistSource) *Transport {
	return &Transport{
		source: source,
		state:  model.PlaybackState{Index: -1},
	}
}

// State returns a copy of the current playback state.
func (t *Transport) State() model.PlaybackState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Open loads a mood's playlist at the given index and starts playing.
// The mute setting survives across opens; timing resets to zero.
func (t *Transport) Open(ctx context.Context, mood string, index int) (model.PlaybackState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.openLocked(ctx, mood, index, true)
}

func (t *Transport) openLocked(ctx context.Context, mood string, index int, play bool) (model.PlaybackState, error) {
	pl, ok := t.source.Lookup(ctx, mood)
	if !ok {
		return t.state, fmt.Errorf("no playlist resolved for mood %q", mood)
	}
	if len(pl.Tracks) == 0 {
		return t.state, fmt.Errorf("playlist for mood %q is empty", mood)
	}
	if index < 0 || index >= len(pl.Tracks) {
		return t.state, fmt.Errorf("track index %d out of range for mood %q", index, mood)
	}

	t.length = len(pl.Tracks)
	t.state = model.PlaybackState{
		Mood:      mood,
		Index:     index,
		IsPlaying: play,
		IsMuted:   t.state.IsMuted,
	}
	logger.Debug("transport opened",
		logger.String("mood", mood),
		logger.Int("index", index))
	return t.state, nil
}

// TogglePlayPause flips between playing and paused. A no-op while idle.
func (t *Transport) TogglePlayPause() model.PlaybackState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Index < 0 {
		return t.state
	}
	t.state.IsPlaying = !t.state.IsPlaying
	return t.state
}

// ToggleMute flips the mute setting. Valid even while idle; the setting is
// carried into the next Open.
func (t *Transport) ToggleMute() model.PlaybackState {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.IsMuted = !t.state.IsMuted
	return t.state
}

// Seek moves the play position. Negative positions clamp to zero; when the
// duration is known, positions past the end clamp to it. A no-op while idle.
func (t *Transport) Seek(position float64) model.PlaybackState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Index < 0 {
		return t.state
	}
	if position < 0 {
		position = 0
	}
	if t.state.Duration > 0 && position > t.state.Duration {
		position = t.state.Duration
	}
	t.state.CurrentTime = position
	return t.state
}

// Next advances to the following track, wrapping from the last back to the
// first. Navigation always starts playback, even from a paused session.
func (t *Transport) Next(ctx context.Context) (model.PlaybackState, error) {
	return t.step(ctx, 1, true)
}

// Previous steps back one track, wrapping from the first to the last.
// Starts playback like Next.
func (t *Transport) Previous(ctx context.Context) (model.PlaybackState, error) {
	return t.step(ctx, -1, true)
}

// OnTrackEnded is the audio element's end-of-track signal: auto-advance to
// the next track (with wraparound) and keep playing.
func (t *Transport) OnTrackEnded(ctx context.Context) (model.PlaybackState, error) {
	return t.step(ctx, 1, true)
}

// OnPlaybackError handles an unplayable current track: playback stops and the
// state stays on the failed track so the listener can pick another. The error
// is logged, never propagated.
func (t *Transport) OnPlaybackError() model.PlaybackState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Index < 0 {
		return t.state
	}
	logger.Warn("playback error, pausing",
		logger.String("mood", t.state.Mood),
		logger.Int("index", t.state.Index))
	t.state.IsPlaying = false
	return t.state
}

// step re-opens the playlist at the neighbouring index. The re-lookup picks
// up cover patches applied since the playlist was opened.
func (t *Transport) step(ctx context.Context, delta int, play bool) (model.PlaybackState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Index < 0 || t.length == 0 {
		return t.state, nil
	}
	next := (t.state.Index + delta + t.length) % t.length
	return t.openLocked(ctx, t.state.Mood, next, play)
}

// OnMetadata records the duration reported by the audio element once a track
// is loaded, clamping the play position into the new bounds.
func (t *Transport) OnMetadata(duration float64) model.PlaybackState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Index < 0 || duration < 0 {
		return t.state
	}
	t.state.Duration = duration
	if duration > 0 && t.state.CurrentTime > duration {
		t.state.CurrentTime = duration
	}
	return t.state
}

// OnTimeUpdate records the current play position reported by the audio
// element. Out-of-range values are clamped the same way Seek clamps.
func (t *Transport) OnTimeUpdate(position float64) model.PlaybackState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Index < 0 {
		return t.state
	}
	if position < 0 {
		position = 0
	}
	if t.state.Duration > 0 && position > t.state.Duration {
		position = t.state.Duration
	}
	t.state.CurrentTime = position
	return t.state
}

// Close returns the transport to the idle state. Mute survives, matching the
// behaviour of Open.
func (t *Transport) Close() model.PlaybackState {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.length = 0
	t.state = model.PlaybackState{Index: -1, IsMuted: t.state.IsMuted}
	return t.state
}
