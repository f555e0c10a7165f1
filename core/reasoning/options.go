package reasoning

// PromptOptions is the resolved option set for one engine generation.
type PromptOptions struct {
	Instructions string
	Turns        []Turn
	Tools        []Tool
	Model        string
	Temperature  *float64
}

type PromptOption func(*PromptOptions)

// WithSystemPrompt sets the system prompt for the generation. Repeating this
// option overwrites the previous system prompt.
func WithSystemPrompt(prompt string) PromptOption {
	return func(opts *PromptOptions) {
		opts.Instructions = prompt
	}
}

// WithTurns adds conversation history to the generation. Repeating this
// option sequentially adds more turns.
func WithTurns(turns ...Turn) PromptOption {
	return func(opts *PromptOptions) {
		opts.Turns = append(opts.Turns, turns...)
	}
}

// WithTools adds tools the engine may call during the generation.
func WithTools(tools ...Tool) PromptOption {
	return func(opts *PromptOptions) {
		opts.Tools = append(opts.Tools, tools...)
	}
}

// WithModel sets the model name for the generation.
func WithModel(model string) PromptOption {
	return func(opts *PromptOptions) {
		opts.Model = model
	}
}

// WithTemperature sets the sampling temperature for the generation.
func WithTemperature(temperature float64) PromptOption {
	return func(opts *PromptOptions) {
		opts.Temperature = &temperature
	}
}
