package engine

import (
	"fmt"
	"strings"
)

// Context is the per-run snapshot handed to every engine. It is built
// once per orchestrator run with every optional field defaulted, then
// shared read-only across all concurrent engine calls.
type Context struct {
	SeriesTitle   string
	EpisodeTitle  string
	EpisodeNumber int
	Synopsis      string
	Genre         string
	Theme         string
	Tone          string
	Scenes        []Scene
	Characters    []Character
	WorldBuilding string
	Callbacks     []string
	Foreshadowing []string
	Motifs        []string
}

// Context field defaults. The prompt builder never sees an empty field.
const (
	defaultSeriesTitle   = "Untitled Series"
	defaultEpisodeTitle  = "Untitled Episode"
	defaultSynopsis      = "No synopsis provided."
	defaultGenre         = "drama"
	defaultTheme         = "Not specified"
	defaultTone          = "Not specified"
	defaultWorldBuilding = "No world-building details provided."
	defaultFieldValue    = "Not specified"
)

// BuildContext assembles the shared engine context from an episode draft
// and its story bible. It fails only when the episode carries nothing an
// engine could work with; that is the batch-level error path, everything
// after it is per-engine.
func BuildContext(episode Episode, bible StoryBible) (*Context, error) {
	if episode.Title == "" && episode.Synopsis == "" && len(episode.Scenes) == 0 {
		return nil, fmt.Errorf("episode has no title, synopsis, or scenes to work with")
	}

	ec := &Context{
		SeriesTitle:   orDefault(bible.SeriesTitle, defaultSeriesTitle),
		EpisodeTitle:  orDefault(episode.Title, defaultEpisodeTitle),
		EpisodeNumber: episode.EpisodeNumber,
		Synopsis:      orDefault(episode.Synopsis, defaultSynopsis),
		Genre:         orDefault(strings.Join(bible.Genre, ", "), defaultGenre),
		Theme:         orDefault(bible.Theme, defaultTheme),
		Tone:          orDefault(bible.Tone, defaultTone),
		WorldBuilding: orDefault(bible.WorldBuilding, defaultWorldBuilding),
		Scenes:        make([]Scene, len(episode.Scenes)),
		Characters:    make([]Character, len(bible.MainCharacters)),
		Callbacks:     copyStrings(bible.NarrativeElements.Callbacks),
		Foreshadowing: copyStrings(bible.NarrativeElements.Foreshadowing),
		Motifs:        copyStrings(bible.NarrativeElements.Motifs),
	}

	for i, s := range episode.Scenes {
		if s.Number == 0 {
			s.Number = i + 1
		}
		s.Title = orDefault(s.Title, fmt.Sprintf("Scene %d", s.Number))
		s.Summary = orDefault(s.Summary, "No summary provided.")
		s.Location = orDefault(s.Location, defaultFieldValue)
		ec.Scenes[i] = s
	}

	for i, ch := range bible.MainCharacters {
		ch.Name = orDefault(ch.Name, fmt.Sprintf("Character %d", i+1))
		ch.Archetype = orDefault(ch.Archetype, defaultFieldValue)
		ch.Description = orDefault(ch.Description, defaultFieldValue)
		ch.Arc = orDefault(ch.Arc, defaultFieldValue)
		ch.Relationships = orDefault(ch.Relationships, defaultFieldValue)
		ch.Motivation = orDefault(ch.Motivation, defaultFieldValue)
		ch.InternalConflict = orDefault(ch.InternalConflict, defaultFieldValue)
		ch.Voice = orDefault(ch.Voice, defaultFieldValue)
		ec.Characters[i] = ch
	}

	return ec, nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func copyStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
