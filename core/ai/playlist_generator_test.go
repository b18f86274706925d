package ai

import (
	"context"
	"errors"
	"testing"

	"moodyo/model"
)

// mockChatProvider returns canned responses per call.
type mockChatProvider struct {
	responses []string
	errs      []error
	calls     int
}

func (m *mockChatProvider) ChatJSON(ctx context.Context, system, user string) (string, error) {
	i := m.calls
	m.calls++
	var resp string
	var err error
	if i < len(m.responses) {
		resp = m.responses[i]
	}
	if i < len(m.errs) {
		err = m.errs[i]
	}
	return resp, err
}

func TestPlaylistGenerator_SuccessFirstAttempt(t *testing.T) {
	provider := &mockChatProvider{
		responses: []string{`{"songs": [{"title": "Golden Hour", "artist": "Indie Pop"}, {"title": "Bloom", "artist": "Bedroom Pop"}]}`},
	}
	g := NewPlaylistGenerator(provider)

	tracks, err := g.Generate(context.Background(), "rainy afternoon", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.calls != 1 {
		t.Fatalf("expected 1 provider call, got %d", provider.calls)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	if tracks[0].Title != "Golden Hour" || tracks[0].Artist != "Indie Pop" {
		t.Fatalf("unexpected first track: %+v", tracks[0])
	}
}

func TestPlaylistGenerator_RetriesThenSucceeds(t *testing.T) {
	provider := &mockChatProvider{
		responses: []string{"", "not json at all", `{"songs": [{"title": "Radiant", "artist": "Dance"}]}`},
		errs:      []error{errors.New("provider down"), nil, nil},
	}
	g := NewPlaylistGenerator(provider)

	tracks, err := g.Generate(context.Background(), "sunset drive", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.calls != 3 {
		t.Fatalf("expected 3 provider calls, got %d", provider.calls)
	}
	if len(tracks) != 1 {
		t.Fatalf("expected 1 track, got %d", len(tracks))
	}
}

func TestPlaylistGenerator_ExhaustsAfterThreeAttempts(t *testing.T) {
	provider := &mockChatProvider{
		errs: []error{errors.New("boom"), errors.New("boom"), errors.New("boom"), errors.New("boom")},
	}
	g := NewPlaylistGenerator(provider)

	_, err := g.Generate(context.Background(), "stormy night", 10)
	if err == nil {
		t.Fatal("expected error after exhausted attempts")
	}
	if provider.calls != 3 {
		t.Fatalf("expected exactly 3 provider calls, got %d", provider.calls)
	}

	var exhausted *model.GenerationExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected GenerationExhaustedError, got %T: %v", err, err)
	}
	if exhausted.Attempts != 3 {
		t.Fatalf("expected Attempts=3, got %d", exhausted.Attempts)
	}
	if exhausted.Mood != "stormy night" {
		t.Fatalf("expected mood in error, got %q", exhausted.Mood)
	}
	if exhausted.LastErr == nil {
		t.Fatal("expected wrapped last error")
	}
}

func TestPlaylistGenerator_EmptyAfterFilteringConsumesAttempt(t *testing.T) {
	// All entries malformed on attempt one; usable list on attempt two.
	provider := &mockChatProvider{
		responses: []string{
			`{"songs": [{"title": "", "artist": "Ghost"}, {"title": "Untitled", "artist": "  "}]}`,
			`{"songs": [{"title": "Hummingbird", "artist": "Chillhop"}]}`,
		},
	}
	g := NewPlaylistGenerator(provider)

	tracks, err := g.Generate(context.Background(), "focus", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.calls != 2 {
		t.Fatalf("expected 2 provider calls, got %d", provider.calls)
	}
	if len(tracks) != 1 || tracks[0].Title != "Hummingbird" {
		t.Fatalf("unexpected tracks: %+v", tracks)
	}
}

func TestPlaylistGenerator_AcceptsShortList(t *testing.T) {
	provider := &mockChatProvider{
		responses: []string{`{"songs": [{"title": "Sparkle", "artist": "Indie Pop"}, {"title": "Lemonade", "artist": "Electro Pop"}]}`},
	}
	g := NewPlaylistGenerator(provider)

	tracks, err := g.Generate(context.Background(), "picnic", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("short list should be accepted as-is, got %d tracks", len(tracks))
	}
}

func TestPlaylistGenerator_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := &mockChatProvider{}
	g := NewPlaylistGenerator(provider)

	_, err := g.Generate(ctx, "anything", 5)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if provider.calls != 0 {
		t.Fatalf("expected no provider calls after cancel, got %d", provider.calls)
	}
}

func TestParseSongList(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantCount  int
		wantErr    bool
		wantFirst  string
		wantArtist string
	}{
		{
			name:       "structured json",
			content:    `{"songs": [{"title": "Warm Breeze", "artist": "Lo-Fi"}]}`,
			wantCount:  1,
			wantFirst:  "Warm Breeze",
			wantArtist: "Lo-Fi",
		},
		{
			name:      "json with whitespace padding",
			content:   "\n  {\"songs\": [{\"title\": \"A\", \"artist\": \"B\"}]}  \n",
			wantCount: 1,
			wantFirst: "A",
		},
		{
			name:       "legacy newline separated",
			content:    "Sunny Days by MoodyO Mix\nGolden Hour by Acoustic",
			wantCount:  2,
			wantFirst:  "Sunny Days",
			wantArtist: "MoodyO Mix",
		},
		{
			name:      "legacy comma separated",
			content:   "Brightside by Folk, Candy Skies by Indie",
			wantCount: 2,
			wantFirst: "Brightside",
		},
		{
			name:       "legacy keeps last by as separator",
			content:    "Stand by Me by Ben E. King",
			wantCount:  1,
			wantFirst:  "Stand by Me",
			wantArtist: "Ben E. King",
		},
		{
			name:    "empty songs array",
			content: `{"songs": []}`,
			wantErr: true,
		},
		{
			name:    "free text without by",
			content: "here are some songs you might like",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			tracks, err := parseSongList(tc.content)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", tracks)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(tracks) != tc.wantCount {
				t.Fatalf("expected %d tracks, got %d: %+v", tc.wantCount, len(tracks), tracks)
			}
			if tc.wantFirst != "" && tracks[0].Title != tc.wantFirst {
				t.Fatalf("expected first title %q, got %q", tc.wantFirst, tracks[0].Title)
			}
			if tc.wantArtist != "" && tracks[0].Artist != tc.wantArtist {
				t.Fatalf("expected first artist %q, got %q", tc.wantArtist, tracks[0].Artist)
			}
		})
	}
}
