package orchestration

import (
	"github.com/ralfpopescu/scribe-core/core/agents"
	"github.com/ralfpopescu/scribe-core/core/reasoning"
)

type OrchestratorOption func(*Orchestrator)

// WithEngine sets the reasoning engine that backs every agent turn.
func WithEngine(engine reasoning.Engine) OrchestratorOption {
	return func(o *Orchestrator) {
		o.config.Engine = engine
	}
}

// WithRunnerStrategy selects how turns are driven. Defaults to the flat
// tool-calling loop.
func WithRunnerStrategy(strategy agents.Strategy) OrchestratorOption {
	return func(o *Orchestrator) {
		o.config.Strategy = strategy
	}
}

// WithModel sets the model name passed through to the engine.
func WithModel(model string) OrchestratorOption {
	return func(o *Orchestrator) {
		o.config.Model = model
	}
}

// WithTemperature sets the sampling temperature passed through to the
// engine.
func WithTemperature(temperature float64) OrchestratorOption {
	return func(o *Orchestrator) {
		o.config.Temperature = &temperature
	}
}

// WithMaxIterations caps the reasoning rounds of a single turn.
func WithMaxIterations(maxIterations int) OrchestratorOption {
	return func(o *Orchestrator) {
		o.config.MaxIterations = maxIterations
	}
}

// WithSystemPrompt replaces the default document assistant instructions.
func WithSystemPrompt(prompt string) OrchestratorOption {
	return func(o *Orchestrator) {
		o.config.SystemPrompt = prompt
	}
}
