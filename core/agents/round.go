package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/ralfpopescu/scribe-core/core/reasoning"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// round is the outcome of a single engine generation: the content streamed
// during it and the tool calls the engine requested.
type round struct {
	content   string
	toolCalls []reasoning.ToolCall
}

// plan runs one engine generation over the accumulated turns, relaying
// content fragments through hooks.OnToken as they arrive.
func plan(ctx context.Context, config Config, turns []reasoning.Turn, tools []reasoning.Tool, hooks Hooks) (*round, error) {
	span := trace.SpanFromContext(ctx)

	opts := []reasoning.PromptOption{
		reasoning.WithTurns(turns...),
		reasoning.WithTools(tools...),
	}
	if config.SystemPrompt != "" {
		opts = append(opts, reasoning.WithSystemPrompt(config.SystemPrompt))
	}
	if config.Model != "" {
		opts = append(opts, reasoning.WithModel(config.Model))
	}
	if config.Temperature != nil {
		opts = append(opts, reasoning.WithTemperature(*config.Temperature))
	}

	stream := config.Engine.Stream(ctx, nil, opts...)

	var content strings.Builder
	toolCalls := []reasoning.ToolCall{}
	for chunk, err := range stream.Chunks(ctx) {
		if err != nil {
			err = fmt.Errorf("failed to stream engine response: %w", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		switch chunk := chunk.(type) {
		case reasoning.StreamContentChunk:
			content.WriteString(chunk.Content())
			if hooks.OnToken != nil {
				hooks.OnToken(chunk.Content())
			}

		case reasoning.StreamToolCallChunk:
			toolCalls = append(toolCalls, chunk.ToolCall())
		}
	}

	return &round{content: content.String(), toolCalls: toolCalls}, nil
}

// executeToolCalls runs every requested tool call against the available
// tools. A tool that errors does not abort the turn: the error text is
// recorded as a failed result so the engine can see it and recover.
func executeToolCalls(ctx context.Context, tools []reasoning.Tool, toolCalls []reasoning.ToolCall, hooks Hooks) []reasoning.ToolCall {
	executed := make([]reasoning.ToolCall, 0, len(toolCalls))
	for _, toolCall := range toolCalls {
		if hooks.OnToolStart != nil {
			hooks.OnToolStart(toolCall.Name, toolCall.Arguments)
		}

		response, err := executeToolCall(ctx, tools, toolCall)
		if err != nil {
			toolCall.Response = err.Error()
			toolCall.Failed = true
		} else {
			toolCall.Response = response
		}
		executed = append(executed, toolCall)
	}
	return executed
}

func executeToolCall(ctx context.Context, tools []reasoning.Tool, toolCall reasoning.ToolCall) (string, error) {
	ctx, span := tracer.Start(ctx, "execute tool")
	defer span.End()
	span.SetAttributes(attribute.String("tool.name", toolCall.Name))

	for _, tool := range tools {
		if tool.Name != toolCall.Name {
			continue
		}
		response, err := tool.Execute(toolCall.Arguments)
		if err != nil {
			err = fmt.Errorf("failed to execute tool %q: %w", toolCall.Name, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.ErrorContext(ctx, "Tool execution failed", "tool", toolCall.Name, "error", err)
			return "", err
		}
		return response, nil
	}

	err := fmt.Errorf("tool not found: %s", toolCall.Name)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return "", err
}
