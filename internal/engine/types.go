package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// NotAvailable is the sentinel value for note fields whose engine was
// never dispatched. Fallback content is real text, never this sentinel.
const NotAvailable = "N/A"

// Mode selects the generation quality/cost tier forwarded to the
// generation endpoint.
type Mode string

const (
	ModeBeast  Mode = "beast"
	ModeStable Mode = "stable"
)

// GenerateOptions carries per-request generation parameters.
type GenerateOptions struct {
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
	Mode         Mode
}

// Generator is the single external dependency of the engine subsystem:
// an opaque asynchronous call to a hosted completion service. It may
// fail, exceed the caller's deadline, or return low-quality text.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	return f(ctx, prompt, opts)
}

// Episode is the caller-supplied draft for one episode.
type Episode struct {
	Title         string  `json:"title"`
	EpisodeNumber int     `json:"episodeNumber"`
	Synopsis      string  `json:"synopsis"`
	Scenes        []Scene `json:"scenes"`
}

type Scene struct {
	Number   int    `json:"number"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Location string `json:"location"`
}

// GenreList tolerates both a single string and a list in source JSON,
// since story bibles in the wild use either form.
type GenreList []string

func (g *GenreList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*g = nil
		} else {
			*g = GenreList{single}
		}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("genre must be a string or a list of strings: %w", err)
	}
	*g = GenreList(many)
	return nil
}

// StoryBible holds series-level metadata consumed as read-only context.
type StoryBible struct {
	SeriesTitle       string            `json:"seriesTitle"`
	Genre             GenreList         `json:"genre"`
	Theme             string            `json:"theme"`
	Tone              string            `json:"tone"`
	MainCharacters    []Character       `json:"mainCharacters"`
	WorldBuilding     string            `json:"worldBuilding"`
	NarrativeElements NarrativeElements `json:"narrativeElements"`
}

type Character struct {
	Name             string `json:"name"`
	Archetype        string `json:"archetype"`
	Description      string `json:"description"`
	Arc              string `json:"arc"`
	Relationships    string `json:"relationships"`
	Motivation       string `json:"motivation"`
	InternalConflict string `json:"internalConflict"`
	Voice            string `json:"voice"`
}

type NarrativeElements struct {
	Callbacks     []string `json:"callbacks"`
	Foreshadowing []string `json:"foreshadowing"`
	Motifs        []string `json:"motifs"`
}

// Result is the per-engine outcome. It is created once by the executor
// and owned by the caller that receives it.
type Result struct {
	Engine   string        `json:"engine"`
	Success  bool          `json:"success"`
	Content  string        `json:"content"`
	Duration time.Duration `json:"duration"`
	Attempts int           `json:"retryCount"`
	Quality  int           `json:"qualityScore"`
	Error    string        `json:"error,omitempty"`
}

// Notes is the output aggregate: one named field per mandatory engine
// plus optional fields populated only when a conditional engine ran.
// Every field starts at NotAvailable and is overwritten at most once.
type Notes struct {
	CharacterDepth     string `json:"characterDepth"`
	Dialogue           string `json:"dialogue"`
	Pacing             string `json:"pacing"`
	PlotStructure      string `json:"plotStructure"`
	WorldBuilding      string `json:"worldBuilding"`
	ThemeIntegration   string `json:"themeIntegration"`
	EmotionalResonance string `json:"emotionalResonance"`
	ConflictEscalation string `json:"conflictEscalation"`
	Foreshadowing      string `json:"foreshadowing"`
	Continuity         string `json:"continuity"`
	GenreMastery       string `json:"genreMastery"`
	SceneTransitions   string `json:"sceneTransitions"`
	Stakes             string `json:"stakes"`
	Subtext            string `json:"subtext"`
	OpeningHook        string `json:"openingHook"`

	ComedyTiming     string `json:"comedyTiming"`
	Horror           string `json:"horror"`
	RomanceChemistry string `json:"romanceChemistry"`
	Mystery          string `json:"mystery"`
}

// NewNotes returns a Notes with every field at the sentinel value.
func NewNotes() *Notes {
	return &Notes{
		CharacterDepth:     NotAvailable,
		Dialogue:           NotAvailable,
		Pacing:             NotAvailable,
		PlotStructure:      NotAvailable,
		WorldBuilding:      NotAvailable,
		ThemeIntegration:   NotAvailable,
		EmotionalResonance: NotAvailable,
		ConflictEscalation: NotAvailable,
		Foreshadowing:      NotAvailable,
		Continuity:         NotAvailable,
		GenreMastery:       NotAvailable,
		SceneTransitions:   NotAvailable,
		Stakes:             NotAvailable,
		Subtext:            NotAvailable,
		OpeningHook:        NotAvailable,
		ComedyTiming:       NotAvailable,
		Horror:             NotAvailable,
		RomanceChemistry:   NotAvailable,
		Mystery:            NotAvailable,
	}
}

// field maps an engine name to the note field it populates. Returns nil
// for engines with no note slot, which is a catalog authoring error.
func (n *Notes) field(engineName string) *string {
	switch engineName {
	case EngineCharacterDepth:
		return &n.CharacterDepth
	case EngineDialogue:
		return &n.Dialogue
	case EnginePacing:
		return &n.Pacing
	case EnginePlotStructure:
		return &n.PlotStructure
	case EngineWorldBuilding:
		return &n.WorldBuilding
	case EngineThemeIntegration:
		return &n.ThemeIntegration
	case EngineEmotionalResonance:
		return &n.EmotionalResonance
	case EngineConflictEscalation:
		return &n.ConflictEscalation
	case EngineForeshadowing:
		return &n.Foreshadowing
	case EngineContinuity:
		return &n.Continuity
	case EngineGenreMastery:
		return &n.GenreMastery
	case EngineSceneTransitions:
		return &n.SceneTransitions
	case EngineStakes:
		return &n.Stakes
	case EngineSubtext:
		return &n.Subtext
	case EngineOpeningHook:
		return &n.OpeningHook
	case EngineComedyTiming:
		return &n.ComedyTiming
	case EngineHorror:
		return &n.Horror
	case EngineRomanceChemistry:
		return &n.RomanceChemistry
	case EngineMystery:
		return &n.Mystery
	}
	return nil
}

// Metadata is the run-level aggregate, finalized once at the end of a run.
type Metadata struct {
	RunID              string            `json:"runId"`
	TotalEnginesRun    int               `json:"totalEnginesRun"`
	SuccessfulEngines  int               `json:"successfulEngines"`
	FailedEngines      int               `json:"failedEngines"`
	TotalExecutionTime time.Duration     `json:"totalExecutionTime"`
	SuccessRate        float64           `json:"successRate"`
	Errors             []string          `json:"errors"`
	EnginePerformance  map[string]Result `json:"enginePerformance"`
}

// Report is what every orchestrator run returns: a fully populated Notes
// (real content or fallback content for each dispatched engine) plus the
// run metadata.
type Report struct {
	Notes    *Notes    `json:"notes"`
	Metadata *Metadata `json:"metadata"`
}
