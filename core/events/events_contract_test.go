package events

import "testing"

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "message token delta", event: NewMessageTokenDelta("tok"), expected: KindMessageTokenDelta},
		{name: "tool call started", event: NewToolCallStarted("id", "session", "append_node", "{}"), expected: KindToolCallStarted},
		{name: "tool call progress", event: NewToolCallProgress("id", "session", "append_node", "<div>"), expected: KindToolCallProgress},
		{name: "tool call completed", event: NewToolCallCompleted("id", "session", "append_node", 0), expected: KindToolCallCompleted},
		{name: "tool call failed", event: NewToolCallFailed("id", "session", "append_node", "boom"), expected: KindToolCallFailed},
		{name: "document delta", event: NewDocumentDelta("id", "session", "<p>x</p>", 1), expected: KindDocumentDelta},
		{name: "turn started", event: NewTurnStarted("session"), expected: KindTurnStarted},
		{name: "turn completed", event: NewTurnCompleted("session"), expected: KindTurnCompleted},
		{name: "turn failed", event: NewTurnFailed("session", "boom"), expected: KindTurnFailed},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
		})
	}
}

func TestToolCallLifecycleSharesInvocationID(t *testing.T) {
	started := NewToolCallStarted("inv-1", "session", "append_node", `{"tag":"div"}`)
	progress := NewToolCallProgress("inv-1", "session", "append_node", "<div>")
	completed := NewToolCallCompleted("inv-1", "session", "append_node", 0)

	if started.ID != progress.ID || progress.ID != completed.ID {
		t.Fatalf("expected one invocation id across lifecycle events, got %q, %q, %q", started.ID, progress.ID, completed.ID)
	}
}

func TestTurnCompletedAndFailedKindsAreDistinct(t *testing.T) {
	completed := NewTurnCompleted("session")
	failed := NewTurnFailed("session", "boom")

	if completed.Kind() == failed.Kind() {
		t.Fatalf("expected turn completed and turn failed kinds to differ, both were %q", completed.Kind())
	}
}
