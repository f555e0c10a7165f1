package reasoning

import (
	"context"
	"sync"
)

// ScriptedEngine is an Engine that replays pre-recorded generations, one
// round per Stream call. Rounds past the script produce empty generations.
// It exists for tests and local wiring without a live engine.
type ScriptedEngine struct {
	mu     sync.Mutex
	rounds []ScriptedRound
	calls  int
}

// ScriptedRound is the chunk sequence of a single generation. A non-nil Err
// is yielded after the chunks, simulating a mid-stream engine fault.
type ScriptedRound struct {
	Chunks []StreamChunk
	Err    error
}

func NewScriptedEngine(rounds ...ScriptedRound) *ScriptedEngine {
	return &ScriptedEngine{rounds: rounds}
}

// Calls reports how many generations have been requested so far.
func (e *ScriptedEngine) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

func (e *ScriptedEngine) Stream(_ context.Context, _ *string, _ ...PromptOption) Stream {
	e.mu.Lock()
	defer e.mu.Unlock()

	var round ScriptedRound
	if e.calls < len(e.rounds) {
		round = e.rounds[e.calls]
	}
	e.calls++
	return scriptedStream{round: round}
}

type scriptedStream struct {
	round ScriptedRound
}

func (s scriptedStream) Chunks(context.Context) func(func(StreamChunk, error) bool) {
	return func(yield func(StreamChunk, error) bool) {
		for _, chunk := range s.round.Chunks {
			if !yield(chunk, nil) {
				return
			}
		}
		if s.round.Err != nil {
			yield(nil, s.round.Err)
		}
	}
}

// ContentChunk builds a scripted content chunk.
func ContentChunk(content string) StreamChunk {
	return scriptedContentChunk{content: content}
}

// ToolCallChunk builds a scripted tool call chunk.
func ToolCallChunk(toolCall ToolCall) StreamChunk {
	return scriptedToolCallChunk{toolCall: toolCall}
}

type scriptedContentChunk struct {
	content string
}

func (s scriptedContentChunk) FinishReason() *string { return nil }
func (s scriptedContentChunk) Content() string       { return s.content }

type scriptedToolCallChunk struct {
	toolCall ToolCall
}

func (s scriptedToolCallChunk) FinishReason() *string { return nil }
func (s scriptedToolCallChunk) ToolCall() ToolCall    { return s.toolCall }
