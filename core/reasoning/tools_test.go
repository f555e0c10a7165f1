package reasoning

import (
	"strings"
	"testing"
)

type echoArguments struct {
	Text  string `json:"text"`
	Count int    `json:"count,omitempty"`
}

func TestNewToolDecodesArgumentsBeforeBody(t *testing.T) {
	tool := NewTool("echo", "Echo the text back", func(parameters echoArguments) (string, error) {
		return strings.Repeat(parameters.Text, max(parameters.Count, 1)), nil
	})

	response, err := tool.Execute(`{"text":"hi","count":2}`)
	if err != nil {
		t.Fatalf("expected execution to succeed, got %v", err)
	}
	if response != "hihi" {
		t.Fatalf("expected decoded arguments to reach the body, got %q", response)
	}
}

func TestNewToolTreatsEmptyArgumentsAsEmptyObject(t *testing.T) {
	called := false
	tool := NewTool("noop", "No arguments required", func(parameters echoArguments) (string, error) {
		called = true
		return "ok", nil
	})

	if _, err := tool.Execute(""); err != nil {
		t.Fatalf("expected empty arguments to be accepted, got %v", err)
	}
	if !called {
		t.Fatalf("expected the body to run")
	}
}

func TestNewToolRejectsMalformedArgumentsWithoutRunningBody(t *testing.T) {
	called := false
	tool := NewTool("echo", "Echo the text back", func(parameters echoArguments) (string, error) {
		called = true
		return "", nil
	})

	if _, err := tool.Execute(`{"text":`); err == nil {
		t.Fatalf("expected a validation error for malformed JSON")
	}
	if called {
		t.Fatalf("expected the body to be skipped on validation failure")
	}
}

func TestNewToolReflectsParameterSchema(t *testing.T) {
	tool := NewTool("echo", "Echo the text back", func(parameters echoArguments) (string, error) {
		return "", nil
	})

	if tool.Parameters == nil {
		t.Fatalf("expected a reflected parameter schema")
	}
	if _, ok := tool.Parameters.Properties.Get("text"); !ok {
		t.Fatalf("expected the schema to describe the text property")
	}
}
