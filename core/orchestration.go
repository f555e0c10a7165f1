// Package orchestration coordinates session-scoped agent turns over a
// shared document: it records conversation state, drives a reasoning agent
// with a document mutation tool, and fans the resulting token, tool,
// document, and turn lifecycle events out to per-session subscribers.
package orchestration

import (
	"context"
	"fmt"
	"sync"

	"github.com/ralfpopescu/scribe-core/core/agents"
	"github.com/ralfpopescu/scribe-core/core/eventbus"
	"github.com/ralfpopescu/scribe-core/core/sessions"
)

type Orchestrator struct {
	store  *sessions.Store
	bus    *eventbus.Bus
	runner agents.Runner
	config agents.Config

	mu          sync.Mutex
	activeTurns map[string]bool
}

// NewOrchestrator builds an orchestrator from static configuration. An
// engine must be provided; an unknown runner strategy is rejected here
// rather than surfacing per turn.
func NewOrchestrator(opts ...OrchestratorOption) (*Orchestrator, error) {
	o := &Orchestrator{
		store:       sessions.NewStore(),
		bus:         eventbus.New(),
		activeTurns: map[string]bool{},
		config: agents.Config{
			SystemPrompt: defaultSystemPrompt,
		},
	}

	for _, opt := range opts {
		opt(o)
	}

	runner, err := agents.New(o.config)
	if err != nil {
		return nil, fmt.Errorf("failed to build agent runner: %w", err)
	}
	o.runner = runner

	return o, nil
}

// EnsureSession returns the id of an existing session, creating an empty
// one first if needed. An empty id asks for a freshly generated session.
func (o *Orchestrator) EnsureSession(id string) string {
	return o.store.Ensure(id)
}

// SendMessage records text as a user message and kicks off an agent turn
// for the session in the background. It returns as soon as the message is
// stored; turn progress and failure are observable only through the
// session's event subscriptions and telemetry.
func (o *Orchestrator) SendMessage(ctx context.Context, sessionID string, text string) sessions.Message {
	sessionID = o.store.Ensure(sessionID)
	message := o.store.AppendMessage(sessionID, sessions.RoleUser, text)

	turnCtx := context.WithoutCancel(ctx)
	go func() {
		if err := o.runTurn(turnCtx, sessionID, text); err != nil {
			logger.ErrorContext(turnCtx, "Turn failed", "session", sessionID, "error", err)
		}
	}()

	return message
}

// Document returns the session's current document.
func (o *Orchestrator) Document(sessionID string) sessions.Document {
	return o.store.Document(sessionID)
}

// Messages returns the session's message log in append order.
func (o *Orchestrator) Messages(sessionID string) []sessions.Message {
	return o.store.Messages(sessionID)
}

// Session is a point-in-time snapshot of one session's state.
type Session struct {
	Messages []sessions.Message
	Document sessions.Document
}

func (o *Orchestrator) Session(sessionID string) Session {
	return Session{
		Messages: o.store.Messages(sessionID),
		Document: o.store.Document(sessionID),
	}
}

// SubscribeTokens streams the session's model token deltas. The cursor
// starts at subscription time; earlier events are not replayed.
func (o *Orchestrator) SubscribeTokens(sessionID string) *eventbus.Subscription {
	return o.bus.Subscribe(tokenTopic(sessionID))
}

// SubscribeToolCalls streams the session's tool invocation lifecycle
// events.
func (o *Orchestrator) SubscribeToolCalls(sessionID string) *eventbus.Subscription {
	return o.bus.Subscribe(toolCallTopic(sessionID))
}

// SubscribeDocument streams the session's committed document deltas.
func (o *Orchestrator) SubscribeDocument(sessionID string) *eventbus.Subscription {
	return o.bus.Subscribe(documentTopic(sessionID))
}

// SubscribeTurnState streams the session's turn lifecycle markers. A
// turn's terminal marker is always the last event that turn publishes on
// any of the session's topics.
func (o *Orchestrator) SubscribeTurnState(sessionID string) *eventbus.Subscription {
	return o.bus.Subscribe(turnStateTopic(sessionID))
}

const (
	topicKindMessageToken = "message_token"
	topicKindToolCall     = "tool_call"
	topicKindDocument     = "document"
	topicKindTurnState    = "turn_state"
)

func tokenTopic(sessionID string) eventbus.Topic {
	return eventbus.Topic{Kind: topicKindMessageToken, SessionID: sessionID}
}

func toolCallTopic(sessionID string) eventbus.Topic {
	return eventbus.Topic{Kind: topicKindToolCall, SessionID: sessionID}
}

func documentTopic(sessionID string) eventbus.Topic {
	return eventbus.Topic{Kind: topicKindDocument, SessionID: sessionID}
}

func turnStateTopic(sessionID string) eventbus.Topic {
	return eventbus.Topic{Kind: topicKindTurnState, SessionID: sessionID}
}
