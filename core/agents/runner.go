// Package agents drives one conversational turn against a reasoning engine:
// stream tokens, execute requested tools, feed the results back, and repeat
// until the engine produces a plain answer. Two interchangeable strategies
// implement the same contract.
package agents

import (
	"context"
	"errors"
	"fmt"

	"github.com/ralfpopescu/scribe-core/core/reasoning"
)

// Strategy selects how a runner sequences reasoning and tool execution.
type Strategy string

const (
	// StrategyLoop asks the engine for the next action in a flat loop until
	// a round produces no tool calls.
	StrategyLoop Strategy = "loop"
	// StrategyGraph routes each turn through an explicit two-node machine
	// alternating between a reasoning step and a tool execution step.
	StrategyGraph Strategy = "graph"
)

// DefaultMaxIterations caps how many reasoning rounds a single turn may
// take before the runner gives up.
const DefaultMaxIterations = 25

var (
	// ErrIterationLimit is returned when a turn exhausts its reasoning
	// round budget without producing a final answer.
	ErrIterationLimit = errors.New("iteration limit reached")
	// ErrUnknownStrategy is returned by New for a strategy it cannot build.
	ErrUnknownStrategy = errors.New("unknown runner strategy")
)

type Config struct {
	Strategy     Strategy
	Engine       reasoning.Engine
	Model        string
	Temperature  *float64
	SystemPrompt string
	// MaxIterations overrides DefaultMaxIterations when positive.
	MaxIterations int
}

// Hooks are per-turn callbacks the runner fires while the turn is in
// flight. Nil callbacks are skipped. OnToken fires for every streamed
// content fragment and never after OnComplete.
type Hooks struct {
	OnToken     func(token string)
	OnToolStart func(name string, arguments string)
	OnComplete  func()
}

// Result is the outcome of a completed turn.
type Result struct {
	// FinalText is the concatenation of every content fragment the engine
	// streamed during the turn.
	FinalText string
	// ToolCalls lists every tool invocation the turn made, in execution
	// order, with responses and failure flags filled in.
	ToolCalls []reasoning.ToolCall
}

// Runner executes one conversational turn to completion.
type Runner interface {
	Run(ctx context.Context, input string, history []reasoning.Turn, tools []reasoning.Tool, hooks Hooks) (*Result, error)
}

// New builds a runner for the configured strategy. An empty strategy
// defaults to StrategyLoop.
func New(config Config) (Runner, error) {
	if config.Engine == nil {
		return nil, errors.New("runner requires a reasoning engine")
	}
	if config.MaxIterations <= 0 {
		config.MaxIterations = DefaultMaxIterations
	}

	switch config.Strategy {
	case StrategyLoop, "":
		return &loopRunner{config: config}, nil
	case StrategyGraph:
		return &graphRunner{config: config}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, config.Strategy)
	}
}
