package engine

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestBuildContextDefaults(t *testing.T) {
	ec, err := BuildContext(
		Episode{Title: "Pilot", Scenes: []Scene{{Summary: "Cold open."}}},
		StoryBible{MainCharacters: []Character{{Name: "Ada"}}},
	)
	if err != nil {
		t.Fatalf("BuildContext: %v", err)
	}

	if ec.SeriesTitle != defaultSeriesTitle {
		t.Errorf("SeriesTitle = %q, want default", ec.SeriesTitle)
	}
	if ec.Synopsis != defaultSynopsis {
		t.Errorf("Synopsis = %q, want default", ec.Synopsis)
	}
	if ec.Genre != defaultGenre {
		t.Errorf("Genre = %q, want default", ec.Genre)
	}
	if ec.Tone != defaultTone || ec.Theme != defaultTheme {
		t.Errorf("Tone/Theme = %q/%q, want defaults", ec.Tone, ec.Theme)
	}

	scene := ec.Scenes[0]
	if scene.Number != 1 || scene.Title != "Scene 1" || scene.Location != defaultFieldValue {
		t.Errorf("scene defaults not applied: %+v", scene)
	}

	ch := ec.Characters[0]
	if ch.Name != "Ada" {
		t.Errorf("Name = %q, want preserved", ch.Name)
	}
	for field, value := range map[string]string{
		"Archetype":        ch.Archetype,
		"Arc":              ch.Arc,
		"Relationships":    ch.Relationships,
		"Motivation":       ch.Motivation,
		"InternalConflict": ch.InternalConflict,
		"Voice":            ch.Voice,
	} {
		if value != defaultFieldValue {
			t.Errorf("character %s = %q, want default", field, value)
		}
	}
}

func TestBuildContextJoinsGenres(t *testing.T) {
	ec, err := BuildContext(
		Episode{Title: "Pilot"},
		StoryBible{Genre: GenreList{"horror", "mystery"}},
	)
	if err != nil {
		t.Fatalf("BuildContext: %v", err)
	}
	if ec.Genre != "horror, mystery" {
		t.Errorf("Genre = %q, want joined list", ec.Genre)
	}
}

func TestBuildContextEmptyEpisode(t *testing.T) {
	if _, err := BuildContext(Episode{}, StoryBible{SeriesTitle: "Something"}); err == nil {
		t.Error("expected error for an episode with no usable content")
	}
}

func TestGenreListUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want GenreList
	}{
		{"single string", `"horror"`, GenreList{"horror"}},
		{"list", `["horror","mystery"]`, GenreList{"horror", "mystery"}},
		{"empty string", `""`, nil},
		{"empty list", `[]`, GenreList{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got GenreList
			if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}

	var g GenreList
	if err := json.Unmarshal([]byte(`42`), &g); err == nil {
		t.Error("expected error for non-string genre")
	}
}
