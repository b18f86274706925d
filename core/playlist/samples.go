package playlist

import (
	"fmt"

	"moodyo/model"
)

// Built-in fallback tracks shown when the catalog has nothing for a
// predefined mood. The set is fixed and deterministic so the mood pages are
// never empty.
var sampleTitles = [10]string{
	"Sunny Days", "Golden Hour", "Sparkle", "Warm Breeze", "Lemonade",
	"Candy Skies", "Bloom", "Brightside", "Hummingbird", "Radiant",
}

var sampleArtists = [10]string{
	"MoodyO Mix", "Acoustic", "Indie Pop", "Lo-Fi", "Electro Pop",
	"Indie", "Bedroom Pop", "Folk", "Chillhop", "Dance",
}

// Each mood gets its own slice of the shared audio/cover pool.
var sampleBase = map[string]int{
	model.MoodHappy:      0,
	model.MoodJoyful:     4,
	model.MoodSad:        8,
	model.MoodDepression: 12,
}

// SampleTracks returns the deterministic ten-track fallback set for a mood.
func SampleTracks(mood string) []model.Track {
	base := sampleBase[mood]
	tracks := make([]model.Track, 0, len(sampleTitles))
	for i := 0; i < len(sampleTitles); i++ {
		tracks = append(tracks, model.Track{
			Title:       sampleTitles[i],
			Artist:      sampleArtists[i],
			Src:         SampleAudioSrc(base + i),
			Cover:       fmt.Sprintf("https://picsum.photos/seed/m%d/200/200", base+i),
			CoverStatus: model.CoverReady,
		})
	}
	return tracks
}

// SampleAudioSrc maps an index onto the stable pool of playable demo streams.
// Generated playlists use it so every track has a working audio source.
func SampleAudioSrc(i int) string {
	return fmt.Sprintf("https://www.soundhelix.com/examples/mp3/SoundHelix-Song-%d.mp3", i%16+1)
}

// PlaceholderCover is the seeded cover shown until image generation resolves.
func PlaceholderCover(mood string, index int) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s%d/300/300", mood, index)
}
