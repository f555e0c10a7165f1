// Package reasoning defines the contract between the orchestrator and the
// external natural-language planning capability, plus the typed tool surface
// the engine is allowed to call.
package reasoning

import "context"

// Engine is a streaming reasoning engine. One Stream call is one model
// generation: it may interleave content and tool call chunks, and it ends
// once the engine has nothing further to emit for that generation.
type Engine interface {
	Stream(ctx context.Context, prompt *string, opts ...PromptOption) Stream
}

type Stream interface {
	Chunks(context.Context) func(func(StreamChunk, error) bool)
}

type StreamChunk interface {
	FinishReason() *string
}

type StreamContentChunk interface {
	StreamChunk
	Content() string
}

type StreamToolCallChunk interface {
	StreamChunk
	ToolCall() ToolCall
}
