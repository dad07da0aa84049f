package engine

// Static fallback content, substituted when every attempt for an engine
// has failed. Each engine slot always yields usable text, so downstream
// consumers never special-case missing output; the NotAvailable sentinel
// is reserved for engines that were never dispatched.
var fallbackContent = map[string]string{
	EngineCharacterDepth: `- Give each main character one desire they state and one they hide
- Let a secondary character notice the gap between the two
- End one scene on a choice that costs the character something personal`,
	EngineDialogue: `- Cut any line that merely confirms what the audience already saw
- Give each character one verbal habit and keep it consistent
- Replace direct statements of feeling with deflection or action`,
	EnginePacing: `- Open each scene as late as possible and leave it early
- Alternate high-intensity scenes with one quieter beat
- Cut or merge any scene that does not change a character's situation`,
	EnginePlotStructure: `- Confirm the inciting incident lands inside the first act
- Place a reversal at the midpoint that reframes the protagonist's goal
- End on a button that opens the next episode's question`,
	EngineWorldBuilding: `- Ground each location in one sensory detail the camera can hold
- Show one rule of this world being enforced rather than explained
- Reuse an established location under changed circumstances`,
	EngineThemeIntegration: `- Express the theme through a choice, not a line of dialogue
- Give the antagonist a credible counter-position to the theme
- Let one image recur with shifted meaning by the final scene`,
	EngineEmotionalResonance: `- Anchor the biggest emotional beat in a specific physical object
- Hold one beat of silence after the hardest line
- Let a character almost say the important thing, and stop`,
	EngineConflictEscalation: `- Raise the cost of losing in every confrontation
- Remove one escape route the protagonist relied on earlier
- Force allies into disagreement before the climax`,
	EngineForeshadowing: `- Plant one detail this episode that pays off within two episodes
- Pay off one seed from an earlier episode visibly
- Keep plants innocuous on first viewing, obvious on rewatch`,
	EngineContinuity: `- Verify who knows what before each revelation scene
- Check timeline references against the series bible
- Keep recurring props and injuries consistent across scenes`,
	EngineGenreMastery: `- Deliver the genre's obligatory beat, but stage it in a fresh setting
- Subvert one tired convention with a grounded alternative
- Match the opening's tone to the genre promise within the first scene`,
	EngineSceneTransitions: `- Bridge one hard cut with a sound that carries across the edit
- Use a visual match between adjacent scenes once
- Let one transition create irony between what was said and what is shown`,
	EngineStakes: `- State what the protagonist loses if this episode's plan fails
- Make at least one stake personal rather than global
- Threaten the stake on screen before the climax`,
	EngineSubtext: `- Replace one on-the-nose exchange with an oblique negotiation
- Let characters talk about a small thing while meaning a large one
- Trust a look or gesture to carry one key admission`,
	EngineOpeningHook: `- Open on a question the audience must see answered
- Start inside motion, not inside explanation
- Withhold one piece of context until after the title card`,
	EngineComedyTiming: `- Let each setup breathe before the turn
- Build one runner that escalates on each appearance
- Cut any joke that needs explanation to land`,
	EngineHorror: `- Build dread through what is withheld, not what is shown
- Break one safe space the characters trusted
- Let the audience see the threat before the characters do, once`,
	EngineRomanceChemistry: `- Keep one concrete obstacle between the pairing
- Express attraction through specificity, not declaration
- Tighten the obstacle at the moment closeness seems possible`,
	EngineMystery: `- Plant every clue on screen before the reveal that uses it
- Give the red herring an innocent explanation that holds up
- Let the detective be wrong once, visibly`,
}

const genericFallback = `- Keep every note tied to a specific scene in this episode
- Prefer concrete, shootable changes over abstract advice
- Preserve established character voice and series continuity`

// FallbackContent returns the static guidance for an engine, or a
// generic set of notes for names outside the catalog.
func FallbackContent(engineName string) string {
	if content, ok := fallbackContent[engineName]; ok {
		return content
	}
	return genericFallback
}
