package orchestration

import (
	"context"
	"errors"
	"fmt"

	"github.com/ralfpopescu/scribe-core/core/agents"
	"github.com/ralfpopescu/scribe-core/core/events"
	"github.com/ralfpopescu/scribe-core/core/reasoning"
	"github.com/ralfpopescu/scribe-core/core/sessions"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const defaultSystemPrompt = "You are a document writing assistant. You maintain an HTML document " +
	"for the user. Use the append_node tool to add content to the document when the user asks " +
	"for it, then confirm briefly what you changed."

// ErrTurnAlreadyActive is returned when a turn is requested for a session
// that already has one in flight.
var ErrTurnAlreadyActive = errors.New("turn already active")

func (o *Orchestrator) beginTurn(sessionID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.activeTurns[sessionID] {
		return fmt.Errorf("%w for session %s", ErrTurnAlreadyActive, sessionID)
	}
	o.activeTurns[sessionID] = true
	return nil
}

func (o *Orchestrator) endTurn(sessionID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.activeTurns, sessionID)
}

// runTurn drives one agent turn to its terminal state. The session's
// turn_state topic always sees exactly one terminal event per started
// turn, published after every other event of that turn.
func (o *Orchestrator) runTurn(ctx context.Context, sessionID string, input string) error {
	if err := o.beginTurn(sessionID); err != nil {
		return err
	}
	defer o.endTurn(sessionID)

	ctx, span := tracer.Start(ctx, "run turn", trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	o.bus.Publish(turnStateTopic(sessionID), events.NewTurnStarted(sessionID))

	result, err := o.runner.Run(ctx, input, o.turnHistory(sessionID), o.sessionTools(sessionID), agents.Hooks{
		OnToken: func(token string) {
			o.bus.Publish(tokenTopic(sessionID), events.NewMessageTokenDelta(token))
		},
	})
	if err != nil {
		outcome := "fault"
		if errors.Is(err, agents.ErrIterationLimit) {
			outcome = "iteration_limit"
		}
		turnOutcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("turn.outcome", outcome)))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		o.bus.Publish(turnStateTopic(sessionID), events.NewTurnFailed(sessionID, err.Error()))
		return err
	}

	o.store.AppendMessage(sessionID, sessions.RoleModel, result.FinalText)
	turnOutcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("turn.outcome", "completed")))

	o.bus.Publish(turnStateTopic(sessionID), events.NewTurnCompleted(sessionID))
	return nil
}

// turnHistory converts the session's recorded messages into engine turns,
// excluding the just-appended user message that is passed to the runner as
// the new input.
func (o *Orchestrator) turnHistory(sessionID string) []reasoning.Turn {
	messages := o.store.Messages(sessionID)
	if len(messages) > 0 {
		messages = messages[:len(messages)-1]
	}

	turns := make([]reasoning.Turn, 0, len(messages))
	for _, message := range messages {
		role := reasoning.RoleUser
		if message.Role == sessions.RoleModel {
			role = reasoning.RoleAssistant
		}
		turns = append(turns, reasoning.Turn{Role: role, Content: message.Content})
	}
	return turns
}
