package engine

import "time"

// Engine names. The mandatory set runs on every orchestration; the
// conditional set is added by the genre selector.
const (
	EngineCharacterDepth     = "CharacterDepthEngine"
	EngineDialogue           = "DialogueEngine"
	EnginePacing             = "PacingEngine"
	EnginePlotStructure      = "PlotStructureEngine"
	EngineWorldBuilding      = "WorldBuildingEngine"
	EngineThemeIntegration   = "ThemeIntegrationEngine"
	EngineEmotionalResonance = "EmotionalResonanceEngine"
	EngineConflictEscalation = "ConflictEscalationEngine"
	EngineForeshadowing      = "ForeshadowingEngine"
	EngineContinuity         = "ContinuityEngine"
	EngineGenreMastery       = "GenreMasteryEngine"
	EngineSceneTransitions   = "SceneTransitionEngine"
	EngineStakes             = "StakesEngine"
	EngineSubtext            = "SubtextEngine"
	EngineOpeningHook        = "OpeningHookEngine"

	EngineComedyTiming     = "ComedyTimingEngine"
	EngineHorror           = "HorrorEngineV2"
	EngineRomanceChemistry = "RomanceChemistryEngine"
	EngineMystery          = "MysteryEngine"
)

// EngineConfig is the immutable descriptor for one engine. Configs are
// created once at catalog construction and shared read-only across all
// concurrent invocations.
type EngineConfig struct {
	Name         string
	Category     string
	Priority     int
	Timeout      time.Duration
	MaxRetries   int
	Temperature  float64
	MaxTokens    int
	SystemPrompt string
	TaskPrompt   string
	Instructions string
}

// Catalog maps engine names to their configurations. Populated once at
// startup from the hand-authored list below and never mutated afterward.
type Catalog struct {
	configs     map[string]EngineConfig
	mandatory   []string
	conditional []string
}

// CatalogOption customizes catalog-wide defaults before the entries are
// built.
type CatalogOption func(*catalogDefaults)

type catalogDefaults struct {
	timeout time.Duration
	retries int
}

// WithDefaultTimeout overrides the per-attempt timeout applied to every
// engine entry.
func WithDefaultTimeout(d time.Duration) CatalogOption {
	return func(c *catalogDefaults) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithDefaultRetries overrides the retry budget applied to every engine
// entry.
func WithDefaultRetries(n int) CatalogOption {
	return func(c *catalogDefaults) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// NewCatalog builds the static engine catalog.
func NewCatalog(opts ...CatalogOption) *Catalog {
	defaults := catalogDefaults{
		timeout: 60 * time.Second,
		retries: 2,
	}
	for _, opt := range opts {
		opt(&defaults)
	}
	return newCatalog(engineConfigs(defaults))
}

func newCatalog(configs []EngineConfig) *Catalog {
	c := &Catalog{
		configs: make(map[string]EngineConfig, len(configs)),
	}
	for _, cfg := range configs {
		c.configs[cfg.Name] = cfg
		switch cfg.Category {
		case CategoryConditional:
			c.conditional = append(c.conditional, cfg.Name)
		default:
			c.mandatory = append(c.mandatory, cfg.Name)
		}
	}
	return c
}

// Lookup returns the configuration for an engine name. A missing entry
// is a configuration error, not a runtime failure of the call itself.
func (c *Catalog) Lookup(name string) (EngineConfig, bool) {
	cfg, ok := c.configs[name]
	return cfg, ok
}

// Mandatory returns the fixed mandatory engine set in dispatch order.
func (c *Catalog) Mandatory() []string {
	out := make([]string, len(c.mandatory))
	copy(out, c.mandatory)
	return out
}

// Conditional returns the conditional engine set in catalog order.
func (c *Catalog) Conditional() []string {
	out := make([]string, len(c.conditional))
	copy(out, c.conditional)
	return out
}

// Size returns the total number of catalog entries.
func (c *Catalog) Size() int {
	return len(c.configs)
}

// Engine categories.
const (
	CategoryCharacter   = "character"
	CategoryStructure   = "structure"
	CategoryAtmosphere  = "atmosphere"
	CategoryContinuity  = "continuity"
	CategoryConditional = "conditional"
)

const defaultSystemPrompt = "You are a veteran television story editor. " +
	"You give concrete, episode-specific notes that a working screenwriter " +
	"can act on immediately. You never pad your answers with generalities."

func engineConfigs(d catalogDefaults) []EngineConfig {
	base := func(name, category string, priority int, temp float64, tokens int, task, instructions string) EngineConfig {
		return EngineConfig{
			Name:         name,
			Category:     category,
			Priority:     priority,
			Timeout:      d.timeout,
			MaxRetries:   d.retries,
			Temperature:  temp,
			MaxTokens:    tokens,
			SystemPrompt: defaultSystemPrompt,
			TaskPrompt:   task,
			Instructions: instructions,
		}
	}

	return []EngineConfig{
		base(EngineCharacterDepth, CategoryCharacter, 10, 0.7, 1200,
			"Deepen every main character in this episode: hidden wounds, contradictions, and the gap between what they say and what they want.",
			"For each character produce MOTIVE, MASK, and CRACK bullets. Tie each note to a specific scene."),
		base(EngineDialogue, CategoryCharacter, 9, 0.8, 1200,
			"Sharpen the dialogue of this episode so every line carries voice, intent, and subtext.",
			"Flag exchanges that sound interchangeable between characters. Propose replacement lines in each character's established voice."),
		base(EnginePacing, CategoryStructure, 9, 0.6, 1000,
			"Diagnose the pacing of this episode scene by scene: where momentum stalls, where beats land too fast to register.",
			"Label each scene FAST, STEADY, or DRAG and give one concrete cut or extension per problem scene."),
		base(EnginePlotStructure, CategoryStructure, 10, 0.6, 1200,
			"Audit the plot structure of this episode: setup, escalation, midpoint reversal, climax, and button.",
			"Identify the act breaks. If a structural beat is missing or mislocated, say which scene should carry it."),
		base(EngineWorldBuilding, CategoryAtmosphere, 7, 0.7, 1000,
			"Enrich the world of this episode with sensory and institutional detail consistent with the series bible.",
			"Propose details that can be shown on screen within the existing scene list, not new locations."),
		base(EngineThemeIntegration, CategoryStructure, 8, 0.7, 1000,
			"Weave the series theme through this episode so it is dramatized, never stated.",
			"For each proposed thematic beat name the scene, the character carrying it, and the image or action that expresses it."),
		base(EngineEmotionalResonance, CategoryCharacter, 8, 0.8, 1000,
			"Locate the emotional peaks of this episode and amplify them.",
			"Name the intended audience emotion per peak and the smallest change that would double its impact."),
		base(EngineConflictEscalation, CategoryStructure, 8, 0.7, 1000,
			"Escalate the central conflict across the episode so each confrontation raises the cost of losing.",
			"Map the escalation ladder scene by scene. Flag any rung that repeats a previous level of intensity."),
		base(EngineForeshadowing, CategoryContinuity, 6, 0.7, 800,
			"Plant foreshadowing for upcoming arcs and pay off seeds planted in earlier episodes.",
			"Use the continuity notes. Every plant must have a named payoff target; every listed seed must be paid or deferred explicitly."),
		base(EngineContinuity, CategoryContinuity, 7, 0.5, 800,
			"Check this episode against the series bible for continuity breaks: character knowledge, timeline, world rules, running motifs.",
			"Report each break as SCENE, CONTRADICTS, FIX. If there are no breaks, confirm the three riskiest points you checked."),
		base(EngineGenreMastery, CategoryAtmosphere, 8, 0.7, 1000,
			"Apply the conventions of this series' genre deliberately: honor the obligatory beats, subvert the stale ones.",
			"List the genre conventions in play, mark each HONOR or SUBVERT, and justify the subversions."),
		base(EngineSceneTransitions, CategoryStructure, 6, 0.7, 800,
			"Improve the transitions between scenes: match cuts, sound bridges, ironic juxtapositions.",
			"Propose one specific transition per adjacent scene pair that currently hard-cuts."),
		base(EngineStakes, CategoryStructure, 8, 0.7, 800,
			"Raise the stakes of this episode: what each character stands to lose must be visible and personal.",
			"For each main character state the stake, where it is established on screen, and where it is threatened."),
		base(EngineSubtext, CategoryCharacter, 7, 0.8, 800,
			"Add subtext to on-the-nose moments: characters should pursue objectives obliquely.",
			"Quote or paraphrase the on-the-nose beat, then give the oblique version and what it leaves unsaid."),
		base(EngineOpeningHook, CategoryStructure, 9, 0.8, 800,
			"Strengthen the opening of this episode so the first ninety seconds pose a question the audience must see answered.",
			"Offer three alternative cold opens built from existing scene material, ranked, with the question each one poses."),

		base(EngineComedyTiming, CategoryConditional, 5, 0.9, 800,
			"Punch up the comedy of this episode: setups, escalations, toppers, and the timing of each laugh.",
			"Mark each joke SETUP, TURN, or TOPPER. Flag laughs that arrive before their setup has landed."),
		base(EngineHorror, CategoryConditional, 5, 0.8, 800,
			"Intensify the horror of this episode: dread before shock, the unseen before the seen.",
			"Identify where the audience knows too much too early. Propose what to withhold and for how long."),
		base(EngineRomanceChemistry, CategoryConditional, 5, 0.85, 800,
			"Heighten the romantic chemistry in this episode: attraction through obstacle, intimacy through specificity.",
			"For each romantic pairing name the obstacle currently between them and the beat where it should tighten, not resolve."),
		base(EngineMystery, CategoryConditional, 5, 0.7, 800,
			"Tighten the mystery mechanics of this episode: clues, red herrings, and the fairness of the reveal.",
			"List every clue with the scene that plants it. Flag reveals the audience could not have anticipated from planted evidence."),
	}
}
