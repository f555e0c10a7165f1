package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/ralfpopescu/scribe-core/core/reasoning"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// graphRunner routes a turn through an explicit state machine that
// alternates between a reasoning node and a tool execution node. The
// observable behavior matches loopRunner exactly; only the control flow
// representation differs.
type graphRunner struct {
	config Config
}

type graphNode int

const (
	nodeReason graphNode = iota
	nodeExecuteTools
	nodeDone
)

// graphState is the mutable state threaded through the node transitions.
type graphState struct {
	turns     []reasoning.Turn
	current   reasoning.Turn
	pending   []reasoning.ToolCall
	finalText strings.Builder
	rounds    int
}

func (r *graphRunner) Run(ctx context.Context, input string, history []reasoning.Turn, tools []reasoning.Tool, hooks Hooks) (*Result, error) {
	ctx, span := tracer.Start(ctx, "run agent turn", trace.WithAttributes(
		attribute.String("runner.strategy", string(StrategyGraph)),
	))
	defer span.End()

	state := &graphState{current: reasoning.Turn{Role: reasoning.RoleAssistant}}
	copier.Copy(&state.turns, history)
	state.turns = append(state.turns, reasoning.Turn{Role: reasoning.RoleUser, Content: input})

	node := nodeReason
	for node != nodeDone {
		var err error
		switch node {
		case nodeReason:
			node, err = r.reason(ctx, state, tools, hooks)
		case nodeExecuteTools:
			node = r.executeTools(ctx, state, tools, hooks)
		}
		if err != nil {
			return nil, err
		}
	}

	if hooks.OnComplete != nil {
		hooks.OnComplete()
	}
	return &Result{
		FinalText: state.finalText.String(),
		ToolCalls: state.current.ToolCalls,
	}, nil
}

// reason runs one engine generation and routes to tool execution when the
// engine requested tools, or finishes the turn otherwise.
func (r *graphRunner) reason(ctx context.Context, state *graphState, tools []reasoning.Tool, hooks Hooks) (graphNode, error) {
	if state.rounds >= r.config.MaxIterations {
		return nodeDone, fmt.Errorf("%w after %d rounds", ErrIterationLimit, r.config.MaxIterations)
	}
	state.rounds++

	outcome, err := plan(ctx, r.config, append(state.turns, state.current), tools, hooks)
	if err != nil {
		return nodeDone, err
	}
	state.finalText.WriteString(outcome.content)
	state.current.Content += outcome.content

	if len(outcome.toolCalls) == 0 {
		return nodeDone, nil
	}
	state.pending = outcome.toolCalls
	return nodeExecuteTools, nil
}

// executeTools drains the pending tool calls and routes back to reasoning.
func (r *graphRunner) executeTools(ctx context.Context, state *graphState, tools []reasoning.Tool, hooks Hooks) graphNode {
	state.current.ToolCalls = append(state.current.ToolCalls, executeToolCalls(ctx, tools, state.pending, hooks)...)
	state.pending = nil
	return nodeReason
}
