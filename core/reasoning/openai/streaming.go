package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/ralfpopescu/scribe-core/core/reasoning"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

const (
	url = "https://api.openai.com/v1/chat/completions"

	chunkPrefix = "data:"
	endMessage  = "[DONE]"
)

// Client is a streaming chat-completions reasoning engine.
type Client struct {
	apiKey string
	model  string
}

var _ reasoning.Engine = (*Client)(nil)

// NewClient creates a client with a default model; WithModel on a generation
// overrides it.
func NewClient(apiKey, model string) *Client {
	return &Client{apiKey: apiKey, model: model}
}

func (c *Client) Stream(_ context.Context, prompt *string, opts ...reasoning.PromptOption) reasoning.Stream {
	options := reasoning.PromptOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	messages := toMessages(options.Instructions, options.Turns)
	if prompt != nil {
		messages = append(messages, message{
			Role:    messageRoleUser,
			Content: *prompt,
		})
	}

	model := options.Model
	if model == "" {
		model = c.model
	}

	return &Stream{
		apiKey:      c.apiKey,
		model:       model,
		temperature: options.Temperature,
		tools:       toTools(options.Tools),
		messages:    messages,
	}
}

type Stream struct {
	apiKey string

	model       string
	temperature *float64
	tools       []requestTool
	messages    []message
}

func (s *Stream) Chunks(ctx context.Context) func(func(reasoning.StreamChunk, error) bool) {
	// TODO: See if this needs the ctx passed, or if the context should be
	// saved at prompt time instead.
	return func(yield func(reasoning.StreamChunk, error) bool) {
		ctx, span := tracer.Start(ctx, "prompt engine stream")
		defer span.End()
		span.SetAttributes(attribute.String("request.model", s.model))
		var toolNames []string
		for _, tool := range s.tools {
			toolNames = append(toolNames, tool.Function.Name)
		}
		span.SetAttributes(attribute.StringSlice("request.available_tools", toolNames))

		var toolChoice *string
		if len(s.tools) > 0 {
			choice := "auto"
			toolChoice = &choice
		}

		reqBody := requestBody{
			Model:       s.model,
			Messages:    s.messages,
			Stream:      true,
			Temperature: s.temperature,
			Tools:       s.tools,
			ToolChoice:  toolChoice,
		}

		requestBodyBytes, err := json.Marshal(reqBody)
		if err != nil {
			err = fmt.Errorf("error marshalling JSON: %w", err)
			span.RecordError(err)
			yield(nil, err)
			return
		}

		req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBodyBytes))
		if err != nil {
			err = fmt.Errorf("error creating HTTP request: %w", err)
			span.RecordError(err)
			yield(nil, err)
			return
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+s.apiKey)

		span.SetAttributes(attribute.String("request.url", req.URL.String()))
		client := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanNameFormatter(func(operationName string, request *http.Request) string {
				return operationName + " " + request.URL.Path
			}),
		)}
		resp, err := client.Do(req)
		if err != nil {
			err = fmt.Errorf("error sending request: %w", err)
			span.RecordError(err)
			yield(nil, err)
			return
		}
		defer resp.Body.Close()

		span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
		if resp.StatusCode != http.StatusOK {
			if errorBody, err := io.ReadAll(resp.Body); err != nil {
				err = fmt.Errorf("error reading error body: %w", err)
				span.RecordError(err)
			} else {
				span.SetAttributes(attribute.String("response.error", string(errorBody)))
			}

			// TODO: Retry depending on status, surfacing intermediate state
			// to the caller while waiting.
			err := fmt.Errorf("non-OK HTTP status: %s", resp.Status)
			span.RecordError(err)
			yield(nil, err)
			return
		}

		// Tool call arguments arrive as fragments keyed by index; they are
		// assembled here and yielded once the generation finishes.
		pendingToolCalls := []reasoning.ToolCall{}
		defer func() {
			toolNames := []string{}
			for _, toolCall := range pendingToolCalls {
				toolNames = append(toolNames, toolCall.Name)
			}
			span.SetAttributes(attribute.StringSlice("response.tool_calls", toolNames))
		}()

		var finishReason *string
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			chunk := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), chunkPrefix))

			if len(chunk) == 0 {
				continue
			}
			if chunk == endMessage {
				break
			}

			var responseBody streamingResponseBody
			if err := json.Unmarshal([]byte(chunk), &responseBody); err != nil {
				err = fmt.Errorf("error unmarshalling JSON: %w", err)
				span.RecordError(err)
				if !yield(nil, err) {
					return
				}
				continue
			}

			if len(responseBody.Choices) == 0 {
				continue
			}
			choice := responseBody.Choices[0]
			if choice.FinishReason != nil {
				finishReason = choice.FinishReason
			}

			for _, delta := range choice.Delta.ToolCalls {
				for len(pendingToolCalls) <= delta.Index {
					pendingToolCalls = append(pendingToolCalls, reasoning.ToolCall{})
				}
				pending := &pendingToolCalls[delta.Index]
				if delta.ID != "" {
					pending.ID = delta.ID
				}
				if delta.Function.Name != "" {
					pending.Name = delta.Function.Name
				}
				pending.Arguments += delta.Function.Arguments
			}

			if choice.Delta.Content != "" {
				if !yield(StreamContentChunk{
					finishReason: finishReason,
					content:      choice.Delta.Content,
				}, nil) {
					return
				}
			}
		}

		if err := scanner.Err(); err != nil {
			yield(nil, fmt.Errorf("error reading streamed response: %w", err))
			return
		}

		for _, toolCall := range pendingToolCalls {
			if !yield(StreamToolCallChunk{
				finishReason: finishReason,
				toolCall:     toolCall,
			}, nil) {
				return
			}
		}
	}
}

type requestBody struct {
	Model       string        `json:"model"`
	Messages    []message     `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature *float64      `json:"temperature,omitempty"`
	Tools       []requestTool `json:"tools,omitempty"`
	ToolChoice  *string       `json:"tool_choice,omitempty"`
}

type requestTool struct {
	Type     string              `json:"type"`
	Function requestToolFunction `json:"function"`
}

type requestToolFunction struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}

type streamingResponseBody struct {
	Choices []struct {
		Delta struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Index    int    `json:"index"`
				ID       string `json:"id"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
}

type StreamContentChunk struct {
	finishReason *string
	content      string
}

func (s StreamContentChunk) FinishReason() *string {
	return s.finishReason
}

func (s StreamContentChunk) Content() string {
	return s.content
}

type StreamToolCallChunk struct {
	finishReason *string
	toolCall     reasoning.ToolCall
}

func (s StreamToolCallChunk) FinishReason() *string {
	return s.finishReason
}

func (s StreamToolCallChunk) ToolCall() reasoning.ToolCall {
	return s.toolCall
}
