package model

import (
	"regexp"
	"strings"
)

// Predefined mood identifiers accepted by catalog validation.
const (
	MoodHappy      = "happy"
	MoodJoyful     = "joyful"
	MoodSad        = "sad"
	MoodDepression = "depression"
)

// PredefinedMoods lists the fixed moods in home-page order.
var PredefinedMoods = []string{MoodHappy, MoodJoyful, MoodSad, MoodDepression}

// IsPredefinedMood reports whether id is one of the four fixed moods.
func IsPredefinedMood(id string) bool {
	switch id {
	case MoodHappy, MoodJoyful, MoodSad, MoodDepression:
		return true
	}
	return false
}

// MoodKind distinguishes the closed predefined set from user-created moods.
type MoodKind int

const (
	MoodKindPredefined MoodKind = iota
	MoodKindCustom
)

// Mood is a tagged union: one of the four predefined moods, or a custom mood
// carrying its own definition.
type Mood struct {
	Kind MoodKind
	ID   string
	Def  *MoodDefinition // set for custom moods
}

// Predefined wraps a fixed mood identifier.
func Predefined(id string) Mood {
	return Mood{Kind: MoodKindPredefined, ID: id}
}

// CustomMood builds a custom mood from user input. The identifier is derived
// deterministically from the name.
func CustomMood(name, emoji, description string) Mood {
	id := Slugify(name)
	return Mood{
		Kind: MoodKindCustom,
		ID:   id,
		Def: &MoodDefinition{
			Mood:        id,
			Title:       strings.TrimSpace(name),
			Emoji:       emoji,
			Description: description,
		},
	}
}

// MoodDefinition is the display metadata shown for a mood page.
// Custom definitions are persisted once and cached for the session.
type MoodDefinition struct {
	Mood        string `json:"mood" gorm:"primaryKey;size:64"`
	Title       string `json:"title" gorm:"size:255"`
	Emoji       string `json:"emoji" gorm:"size:16"`
	Description string `json:"description" gorm:"size:512"`
	Gradient    string `json:"gradient" gorm:"size:255"`
}

var predefinedDefinitions = map[string]MoodDefinition{
	MoodHappy: {
		Mood:        MoodHappy,
		Title:       "Happy",
		Emoji:       "😊",
		Description: "Let positive vibes flow!",
		Gradient:    "linear-gradient(135deg, #FFD700, #FFA500)",
	},
	MoodJoyful: {
		Mood:        MoodJoyful,
		Title:       "Joyful",
		Emoji:       "😄",
		Description: "Embrace the joy within!",
		Gradient:    "linear-gradient(135deg, #FF69B4, #00CED1)",
	},
	MoodSad: {
		Mood:        MoodSad,
		Title:       "Sad",
		Emoji:       "😔",
		Description: "Find comfort in gentle melodies",
		Gradient:    "linear-gradient(135deg, #1e3a8a, #3b82f6)",
	},
	MoodDepression: {
		Mood:        MoodDepression,
		Title:       "Depression",
		Emoji:       "😩",
		Description: "Healing through sound waves",
		Gradient:    "linear-gradient(135deg, #6b7280, #6d5bd0)",
	},
}

// PredefinedDefinition returns the static definition for a fixed mood.
func PredefinedDefinition(id string) (MoodDefinition, bool) {
	def, ok := predefinedDefinitions[id]
	return def, ok
}

// PredefinedDefinitions returns the definitions of all fixed moods in order.
func PredefinedDefinitions() []MoodDefinition {
	defs := make([]MoodDefinition, 0, len(PredefinedMoods))
	for _, id := range PredefinedMoods {
		defs = append(defs, predefinedDefinitions[id])
	}
	return defs
}

var slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a stable mood identifier from a user-entered name:
// lower-cased, runs of non-alphanumeric characters collapsed to "-".
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugSeparators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
