package model

// PlaybackState is the transport's view of the audio session. It has exactly
// one writer, the player transport. Index is -1 when nothing is loaded;
// Duration is 0 until the audio element reports metadata.
type PlaybackState struct {
	Mood        string  `json:"mood,omitempty"`
	Index       int     `json:"index"`
	IsPlaying   bool    `json:"isPlaying"`
	IsMuted     bool    `json:"isMuted"`
	CurrentTime float64 `json:"currentTime"`
	Duration    float64 `json:"duration"`
}
