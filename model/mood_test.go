package model

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "Rainy Tuesday", want: "rainy-tuesday"},
		{name: "extra whitespace", in: "  Late   Night  ", want: "late-night"},
		{name: "punctuation collapsed", in: "Coffee & Code!", want: "coffee-code"},
		{name: "leading and trailing separators", in: "---vibes---", want: "vibes"},
		{name: "digits kept", in: "3am thoughts", want: "3am-thoughts"},
		{name: "only punctuation", in: "!!!", want: ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := Slugify(tc.in); got != tc.want {
				t.Fatalf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestIsPredefinedMood(t *testing.T) {
	for _, id := range PredefinedMoods {
		if !IsPredefinedMood(id) {
			t.Fatalf("%q should be predefined", id)
		}
	}
	if IsPredefinedMood("ecstatic") {
		t.Fatal("unknown mood accepted")
	}
	if IsPredefinedMood("Happy") {
		t.Fatal("mood identifiers are case sensitive")
	}
}

func TestCustomMoodDerivesSlug(t *testing.T) {
	m := CustomMood(" Foggy Morning ", "🌫", "slow ambient for fog")
	if m.Kind != MoodKindCustom {
		t.Fatalf("expected custom kind, got %v", m.Kind)
	}
	if m.ID != "foggy-morning" {
		t.Fatalf("unexpected slug %q", m.ID)
	}
	if m.Def == nil || m.Def.Title != "Foggy Morning" {
		t.Fatalf("definition not populated: %+v", m.Def)
	}
}

func TestPredefinedDefinitionsOrder(t *testing.T) {
	defs := PredefinedDefinitions()
	if len(defs) != 4 {
		t.Fatalf("expected 4 definitions, got %d", len(defs))
	}
	for i, id := range PredefinedMoods {
		if defs[i].Mood != id {
			t.Fatalf("definition %d out of order: got %q want %q", i, defs[i].Mood, id)
		}
		if defs[i].Emoji == "" || defs[i].Gradient == "" {
			t.Fatalf("definition %q incomplete: %+v", id, defs[i])
		}
	}
}
