package orchestration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ralfpopescu/scribe-core/core/agents"
	"github.com/ralfpopescu/scribe-core/core/eventbus"
	"github.com/ralfpopescu/scribe-core/core/events"
	"github.com/ralfpopescu/scribe-core/core/reasoning"
	"github.com/ralfpopescu/scribe-core/core/sessions"
)

func collect(s *eventbus.Subscription) <-chan events.Event {
	out := make(chan events.Event, 64)
	go func() {
		defer close(out)
		s.Events(func(event events.Event) bool {
			out <- event
			return true
		})
	}()
	return out
}

func receive(t *testing.T, ch <-chan events.Event) events.Event {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
		return nil
	}
}

func expectNoEvent(t *testing.T, ch <-chan events.Event) {
	t.Helper()
	select {
	case event := <-ch:
		t.Fatalf("unexpected event: %s", event.Kind())
	case <-time.After(100 * time.Millisecond):
	}
}

func newTestOrchestrator(t *testing.T, opts ...OrchestratorOption) *Orchestrator {
	t.Helper()
	orchestrator, err := NewOrchestrator(opts...)
	if err != nil {
		t.Fatalf("failed to build orchestrator: %v", err)
	}
	return orchestrator
}

func TestSendMessageStreamsTokensThenCompletionMarker(t *testing.T) {
	engine := reasoning.NewScriptedEngine(reasoning.ScriptedRound{
		Chunks: []reasoning.StreamChunk{
			reasoning.ContentChunk("Hello"),
			reasoning.ContentChunk(", world"),
		},
	})
	orchestrator := newTestOrchestrator(t, WithEngine(engine))
	sessionID := orchestrator.EnsureSession("")

	turnState := collect(orchestrator.SubscribeTurnState(sessionID))
	tokens := collect(orchestrator.SubscribeTokens(sessionID))
	toolCalls := collect(orchestrator.SubscribeToolCalls(sessionID))
	document := collect(orchestrator.SubscribeDocument(sessionID))

	message := orchestrator.SendMessage(context.Background(), sessionID, "hi")
	if message.Role != sessions.RoleUser || message.Content != "hi" {
		t.Fatalf("unexpected recorded user message: %+v", message)
	}

	if event := receive(t, turnState); event.Kind() != events.KindTurnStarted {
		t.Fatalf("expected turn start, got %s", event.Kind())
	}
	if delta := receive(t, tokens).(events.MessageTokenDelta); delta.ContentDelta != "Hello" {
		t.Errorf("unexpected first token: %q", delta.ContentDelta)
	}
	if delta := receive(t, tokens).(events.MessageTokenDelta); delta.ContentDelta != ", world" {
		t.Errorf("unexpected second token: %q", delta.ContentDelta)
	}
	if event := receive(t, turnState); event.Kind() != events.KindTurnCompleted {
		t.Fatalf("expected turn completion, got %s", event.Kind())
	}

	messages := orchestrator.Messages(sessionID)
	if len(messages) != 2 {
		t.Fatalf("expected user and model messages, got %d", len(messages))
	}
	if messages[1].Role != sessions.RoleModel || messages[1].Content != "Hello, world" {
		t.Errorf("unexpected model message: %+v", messages[1])
	}

	expectNoEvent(t, toolCalls)
	expectNoEvent(t, document)
}

func TestAppendNodeToolLifecycle(t *testing.T) {
	for _, strategy := range []agents.Strategy{agents.StrategyLoop, agents.StrategyGraph} {
		t.Run(string(strategy), func(t *testing.T) {
			engine := reasoning.NewScriptedEngine(
				reasoning.ScriptedRound{Chunks: []reasoning.StreamChunk{
					reasoning.ToolCallChunk(reasoning.ToolCall{
						ID:        "call_1",
						Name:      "append_node",
						Arguments: `{"tag":"div","text":"hi","attributes":{"class":"x\"y"}}`,
					}),
				}},
				reasoning.ScriptedRound{Chunks: []reasoning.StreamChunk{
					reasoning.ContentChunk("Added a div."),
				}},
			)
			orchestrator := newTestOrchestrator(t, WithEngine(engine), WithRunnerStrategy(strategy))
			sessionID := orchestrator.EnsureSession("")

			turnState := collect(orchestrator.SubscribeTurnState(sessionID))
			toolCalls := collect(orchestrator.SubscribeToolCalls(sessionID))
			document := collect(orchestrator.SubscribeDocument(sessionID))

			orchestrator.SendMessage(context.Background(), sessionID, "add a div")

			wantFragment := `<div class="x&quot;y">hi</div>`

			started := receive(t, toolCalls).(events.ToolCallStarted)
			if started.Name != "append_node" {
				t.Errorf("unexpected tool name: %q", started.Name)
			}
			progress := receive(t, toolCalls).(events.ToolCallProgress)
			if progress.Preview != wantFragment {
				t.Errorf("expected preview %q, got %q", wantFragment, progress.Preview)
			}
			delta := receive(t, document).(events.DocumentDelta)
			if delta.HTML != wantFragment || delta.Index != 0 {
				t.Errorf("unexpected document delta: %+v", delta)
			}
			completed := receive(t, toolCalls).(events.ToolCallCompleted)
			if completed.Index != 0 {
				t.Errorf("expected completed index 0, got %d", completed.Index)
			}

			if started.ID != progress.ID || progress.ID != completed.ID {
				t.Errorf("lifecycle events do not share an invocation id: %q %q %q",
					started.ID, progress.ID, completed.ID)
			}

			if event := receive(t, turnState); event.Kind() != events.KindTurnStarted {
				t.Fatalf("expected turn start, got %s", event.Kind())
			}
			if event := receive(t, turnState); event.Kind() != events.KindTurnCompleted {
				t.Fatalf("expected turn completion, got %s", event.Kind())
			}

			if body := orchestrator.Document(sessionID).Body; body != wantFragment {
				t.Errorf("expected document body %q, got %q", wantFragment, body)
			}
		})
	}
}

func TestIterationCapFailsTurnWithoutRollingBackMutations(t *testing.T) {
	rounds := []reasoning.ScriptedRound{
		{Chunks: []reasoning.StreamChunk{
			reasoning.ToolCallChunk(reasoning.ToolCall{
				ID:        "call_1",
				Name:      "append_node",
				Arguments: `{"tag":"p","text":"one"}`,
			}),
		}},
		{Chunks: []reasoning.StreamChunk{
			reasoning.ToolCallChunk(reasoning.ToolCall{
				ID:        "call_2",
				Name:      "append_node",
				Arguments: `{"tag":"p","text":"two"}`,
			}),
		}},
	}
	engine := reasoning.NewScriptedEngine(rounds...)
	orchestrator := newTestOrchestrator(t, WithEngine(engine), WithMaxIterations(2))
	sessionID := orchestrator.EnsureSession("")

	turnState := collect(orchestrator.SubscribeTurnState(sessionID))

	orchestrator.SendMessage(context.Background(), sessionID, "keep going")

	if event := receive(t, turnState); event.Kind() != events.KindTurnStarted {
		t.Fatalf("expected turn start, got %s", event.Kind())
	}
	failed := receive(t, turnState)
	if failed.Kind() != events.KindTurnFailed {
		t.Fatalf("expected turn failure, got %s", failed.Kind())
	}
	expectNoEvent(t, turnState)

	messages := orchestrator.Messages(sessionID)
	if len(messages) != 1 || messages[0].Role != sessions.RoleUser {
		t.Fatalf("expected only the user message after a failed turn, got %+v", messages)
	}

	if body := orchestrator.Document(sessionID).Body; body != "<p>one</p><p>two</p>" {
		t.Errorf("expected committed mutations to survive turn failure, got %q", body)
	}
}

// echoEngine answers every generation with the latest user turn, so tests
// can tell which session a token belongs to.
type echoEngine struct{}

func (echoEngine) Stream(_ context.Context, _ *string, opts ...reasoning.PromptOption) reasoning.Stream {
	options := reasoning.PromptOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	content := ""
	for i := len(options.Turns) - 1; i >= 0; i-- {
		if options.Turns[i].Role == reasoning.RoleUser {
			content = "echo: " + options.Turns[i].Content
			break
		}
	}
	return echoStream{content: content}
}

type echoStream struct {
	content string
}

func (s echoStream) Chunks(context.Context) func(func(reasoning.StreamChunk, error) bool) {
	return func(yield func(reasoning.StreamChunk, error) bool) {
		yield(reasoning.ContentChunk(s.content), nil)
	}
}

func TestConcurrentSessionsDoNotShareTokenStreams(t *testing.T) {
	orchestrator := newTestOrchestrator(t, WithEngine(echoEngine{}))
	sessionA := orchestrator.EnsureSession("")
	sessionB := orchestrator.EnsureSession("")

	tokensA := collect(orchestrator.SubscribeTokens(sessionA))
	turnStateA := collect(orchestrator.SubscribeTurnState(sessionA))
	turnStateB := collect(orchestrator.SubscribeTurnState(sessionB))

	orchestrator.SendMessage(context.Background(), sessionA, "alpha")
	orchestrator.SendMessage(context.Background(), sessionB, "beta")

	if delta := receive(t, tokensA).(events.MessageTokenDelta); delta.ContentDelta != "echo: alpha" {
		t.Errorf("unexpected token on session A: %q", delta.ContentDelta)
	}

	for _, turnState := range []<-chan events.Event{turnStateA, turnStateB} {
		if event := receive(t, turnState); event.Kind() != events.KindTurnStarted {
			t.Fatalf("expected turn start, got %s", event.Kind())
		}
		if event := receive(t, turnState); event.Kind() != events.KindTurnCompleted {
			t.Fatalf("expected turn completion, got %s", event.Kind())
		}
	}
	expectNoEvent(t, tokensA)
}

func TestEnsureSessionIsIdempotent(t *testing.T) {
	engine := reasoning.NewScriptedEngine(reasoning.ScriptedRound{
		Chunks: []reasoning.StreamChunk{reasoning.ContentChunk("ok")},
	})
	orchestrator := newTestOrchestrator(t, WithEngine(engine))
	sessionID := orchestrator.EnsureSession("")

	turnState := collect(orchestrator.SubscribeTurnState(sessionID))
	orchestrator.SendMessage(context.Background(), sessionID, "hi")
	receive(t, turnState)
	receive(t, turnState)

	if got := orchestrator.EnsureSession(sessionID); got != sessionID {
		t.Fatalf("expected ensure to return %q, got %q", sessionID, got)
	}
	if messages := orchestrator.Messages(sessionID); len(messages) != 2 {
		t.Errorf("expected ensure to preserve messages, got %d", len(messages))
	}
}

func TestNewOrchestratorRejectsUnknownStrategy(t *testing.T) {
	_, err := NewOrchestrator(
		WithEngine(reasoning.NewScriptedEngine()),
		WithRunnerStrategy(agents.Strategy("recursive")),
	)
	if !errors.Is(err, agents.ErrUnknownStrategy) {
		t.Fatalf("expected unknown strategy error, got: %v", err)
	}
}

func TestNewOrchestratorRequiresEngine(t *testing.T) {
	if _, err := NewOrchestrator(); err == nil {
		t.Fatal("expected an error when no engine is configured")
	}
}

// gatedEngine blocks every generation until released, letting tests hold a
// turn open.
type gatedEngine struct {
	release chan struct{}
}

func (e *gatedEngine) Stream(context.Context, *string, ...reasoning.PromptOption) reasoning.Stream {
	return gatedStream{release: e.release}
}

type gatedStream struct {
	release chan struct{}
}

func (s gatedStream) Chunks(context.Context) func(func(reasoning.StreamChunk, error) bool) {
	return func(yield func(reasoning.StreamChunk, error) bool) {
		<-s.release
		yield(reasoning.ContentChunk("done"), nil)
	}
}

func TestSecondConcurrentTurnForSameSessionIsRejected(t *testing.T) {
	engine := &gatedEngine{release: make(chan struct{})}
	orchestrator := newTestOrchestrator(t, WithEngine(engine))
	sessionID := orchestrator.EnsureSession("")

	turnState := collect(orchestrator.SubscribeTurnState(sessionID))

	orchestrator.SendMessage(context.Background(), sessionID, "first")
	if event := receive(t, turnState); event.Kind() != events.KindTurnStarted {
		t.Fatalf("expected turn start, got %s", event.Kind())
	}

	err := orchestrator.runTurn(context.Background(), sessionID, "second")
	if !errors.Is(err, ErrTurnAlreadyActive) {
		t.Fatalf("expected active turn rejection, got: %v", err)
	}

	close(engine.release)
	if event := receive(t, turnState); event.Kind() != events.KindTurnCompleted {
		t.Fatalf("expected turn completion, got %s", event.Kind())
	}
	expectNoEvent(t, turnState)
}
