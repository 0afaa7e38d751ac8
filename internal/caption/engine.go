package caption

// Correction is the outcome of running the engine over one description.
type Correction struct {
	Text  string
	Notes []string
}

// Engine folds a description through an ordered list of steps.
type Engine struct {
	steps []Step
}

// EngineOption customizes engine construction.
type EngineOption func(*engineConfig)

type engineConfig struct {
	trigger      string
	hasTrigger   bool
	replacements []Replacement
}

// WithTrigger enables trigger enforcement for token.
func WithTrigger(token string) EngineOption {
	return func(c *engineConfig) {
		c.trigger = token
		c.hasTrigger = true
	}
}

// WithReplacements adds literal phrase replacements, applied in order after
// article restoration.
func WithReplacements(replacements []Replacement) EngineOption {
	return func(c *engineConfig) {
		c.replacements = append(c.replacements, replacements...)
	}
}

// NewEngine assembles the step list. Without WithTrigger the trigger step is
// omitted.
func NewEngine(opts ...EngineOption) *Engine {
	var cfg engineConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	steps := make([]Step, 0, len(CanonicalPhrases)+len(cfg.replacements)+4)
	if cfg.hasTrigger {
		steps = append(steps, TriggerStep(cfg.trigger))
	}
	steps = append(steps, ArticleSteps()...)
	for _, r := range cfg.replacements {
		steps = append(steps, ReplacementStep(r))
	}
	steps = append(steps, ClauseStep(), AuxiliaryStep(), RepeatStep())
	return &Engine{steps: steps}
}

// Steps returns a copy of the ordered step list.
func (e *Engine) Steps() []Step {
	out := make([]Step, len(e.steps))
	copy(out, e.steps)
	return out
}

// Correct applies every step to description, then normalizes whitespace.
// The clarity note is added once when the final text differs from the input.
func (e *Engine) Correct(description string) Correction {
	text := description
	var notes []string
	for _, step := range e.steps {
		next, applied := step.Apply(text)
		if !applied {
			continue
		}
		text = next
		notes = append(notes, step.Note)
	}

	text = NormalizeWhitespace(text)
	if text != description {
		notes = append(notes, NoteClarity)
	}
	return Correction{Text: text, Notes: notes}
}
