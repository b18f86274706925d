package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"moodyo/config"
	"moodyo/model"
)

func testClient(baseURL string) *Client {
	return NewClient(&config.Config{
		AIBaseURL:     baseURL,
		AIAPIKey:      "test-key",
		AIChatModel:   "test-chat",
		AIImageModel:  "test-image",
		AIMaxTokens:   256,
		AITemperature: 0.5,
		AITimeoutSec:  5,
	})
}

func TestClient_ChatJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("missing bearer auth, got %q", got)
		}

		var req model.OpenAIChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_object" {
			t.Errorf("expected json_object response format, got %+v", req.ResponseFormat)
		}
		if req.Stream {
			t.Error("requests must be non-streaming")
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"{\"songs\":[]}"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	content, err := testClient(srv.URL).ChatJSON(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("ChatJSON: %v", err)
	}
	if content != `{"songs":[]}` {
		t.Fatalf("unexpected content %q", content)
	}
}

func TestClient_ChatJSONHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).ChatJSON(context.Background(), "sys", "user"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestClient_GenerateImage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "url result",
			body: `{"created":1,"data":[{"url":"https://img.example/c.png"}]}`,
			want: "https://img.example/c.png",
		},
		{
			name: "b64 result becomes data uri",
			body: `{"created":1,"data":[{"b64_json":"aGVsbG8="}]}`,
			want: "data:image/png;base64,aGVsbG8=",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/images/generations" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				var req model.OpenAIImageRequest
				json.NewDecoder(r.Body).Decode(&req)
				if req.N != 1 || req.ResponseFormat != "b64_json" {
					t.Errorf("unexpected image request: %+v", req)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			ref, err := testClient(srv.URL).GenerateImage(context.Background(), "hint")
			if err != nil {
				t.Fatalf("GenerateImage: %v", err)
			}
			if ref != tc.want {
				t.Fatalf("got %q, want %q", ref, tc.want)
			}
		})
	}
}

// The retry bound holds end to end: a dead provider is hit exactly three
// times before the generator gives up.
func TestPlaylistGenerator_ThreeHTTPAttempts(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := NewPlaylistGenerator(testClient(srv.URL))
	_, err := g.Generate(context.Background(), "doomed", 10)

	var exhausted *model.GenerationExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected GenerationExhaustedError, got %v", err)
	}
	if n := atomic.LoadInt64(&hits); n != 3 {
		t.Fatalf("expected exactly 3 HTTP attempts, got %d", n)
	}
}
