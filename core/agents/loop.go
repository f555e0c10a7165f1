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

// loopRunner repeatedly asks the engine for the next action and executes
// it, flat, until a round comes back with no tool calls.
type loopRunner struct {
	config Config
}

func (r *loopRunner) Run(ctx context.Context, input string, history []reasoning.Turn, tools []reasoning.Tool, hooks Hooks) (*Result, error) {
	ctx, span := tracer.Start(ctx, "run agent turn", trace.WithAttributes(
		attribute.String("runner.strategy", string(StrategyLoop)),
	))
	defer span.End()

	turns := []reasoning.Turn{}
	copier.Copy(&turns, history)
	turns = append(turns, reasoning.Turn{Role: reasoning.RoleUser, Content: input})

	current := reasoning.Turn{Role: reasoning.RoleAssistant}
	var finalText strings.Builder
	for iteration := 0; ; iteration++ {
		if iteration >= r.config.MaxIterations {
			return nil, fmt.Errorf("%w after %d rounds", ErrIterationLimit, r.config.MaxIterations)
		}

		outcome, err := plan(ctx, r.config, append(turns, current), tools, hooks)
		if err != nil {
			return nil, err
		}
		finalText.WriteString(outcome.content)
		current.Content += outcome.content

		if len(outcome.toolCalls) == 0 {
			if hooks.OnComplete != nil {
				hooks.OnComplete()
			}
			return &Result{
				FinalText: finalText.String(),
				ToolCalls: current.ToolCalls,
			}, nil
		}

		current.ToolCalls = append(current.ToolCalls, executeToolCalls(ctx, tools, outcome.toolCalls, hooks)...)
	}
}
