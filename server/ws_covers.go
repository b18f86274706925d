package server

import (
	"net/http"
	"sync"
	"time"

	"moodyo/logger"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// coverPatchEvent is one cover update pushed to subscribed clients. The
// client applies it to the track at index without reloading the playlist.
type coverPatchEvent struct {
	Mood   string `json:"mood"`
	Index  int    `json:"index"`
	Cover  string `json:"cover,omitempty"`
	Status string `json:"status"`
}

// CoverFeed fans cover patches out to websocket subscribers, one channel per
// connection, keyed by mood. Slow subscribers drop patches rather than block
// the resolver; the client falls back to refetching the playlist.
type CoverFeed struct {
	mu   sync.Mutex
	subs map[string]map[chan coverPatchEvent]struct{}
}

// NewCoverFeed creates an empty feed. Wire it to the resolver with Publish.
func NewCoverFeed() *CoverFeed {
	return &CoverFeed{subs: make(map[string]map[chan coverPatchEvent]struct{})}
}

// Publish is a playlist.PatchListener: it forwards one applied patch to every
// subscriber of the mood.
func (f *CoverFeed) Publish(mood string, index int, cover, status string) {
	event := coverPatchEvent{Mood: mood, Index: index, Cover: cover, Status: status}

	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs[mood] {
		select {
		case ch <- event:
		default:
			// Subscriber buffer full; drop instead of blocking the patch path.
		}
	}
}

func (f *CoverFeed) subscribe(mood string) chan coverPatchEvent {
	ch := make(chan coverPatchEvent, 16)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subs[mood] == nil {
		f.subs[mood] = make(map[chan coverPatchEvent]struct{})
	}
	f.subs[mood][ch] = struct{}{}
	return ch
}

func (f *CoverFeed) unsubscribe(mood string, ch chan coverPatchEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if set, ok := f.subs[mood]; ok {
		delete(set, ch)
		if len(set) == 0 {
			delete(f.subs, mood)
		}
	}
}

// CoverFeedHandler upgrades the connection and streams cover patches for one
// mood until the client disconnects.
// GET /api/moods/{mood}/covers/ws
func (h *APIHandler) CoverFeedHandler(w http.ResponseWriter, r *http.Request) {
	mood := mux.Vars(r)["mood"]

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", logger.ErrorField(err))
		return
	}
	defer conn.Close()

	ch := h.coverFeed.subscribe(mood)
	defer h.coverFeed.unsubscribe(mood, ch)

	logger.Debug("cover feed subscribed", logger.String("mood", mood))

	// Reader goroutine only watches for the client closing the connection.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	pingTicker := time.NewTicker(30 * time.Second)
	defer pingTicker.Stop()

	for {
		select {
		case event := <-ch:
			if err := conn.WriteJSON(event); err != nil {
				logger.Debug("cover feed write failed", logger.ErrorField(err))
				return
			}
		case <-pingTicker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
