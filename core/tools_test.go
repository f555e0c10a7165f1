package orchestration

import (
	"strings"
	"testing"

	"github.com/ralfpopescu/scribe-core/core/events"
	"github.com/ralfpopescu/scribe-core/core/reasoning"
)

func TestRenderNodeSortsAttributesAndEscapesQuotes(t *testing.T) {
	fragment := renderNode(appendNodeArguments{
		Tag:  "p",
		Text: `say "hi" <now>`,
		Attributes: map[string]string{
			"id":    `x"y`,
			"class": "note",
		},
	})

	want := `<p class="note" id="x&quot;y">say "hi" <now></p>`
	if fragment != want {
		t.Errorf("expected fragment %q, got %q", want, fragment)
	}
}

func TestPreviewTruncatesLongFragments(t *testing.T) {
	fragment := renderNode(appendNodeArguments{
		Tag:  "p",
		Text: strings.Repeat("x", 200),
	})

	truncated := preview(fragment)
	if len([]rune(truncated)) != previewLimit {
		t.Errorf("expected preview of %d runes, got %d", previewLimit, len([]rune(truncated)))
	}
	if !strings.HasPrefix(fragment, truncated) {
		t.Error("expected preview to be a prefix of the fragment")
	}
}

func TestAppendNodeRejectsEmptyTagBeforeStarting(t *testing.T) {
	orchestrator := newTestOrchestrator(t, WithEngine(reasoning.NewScriptedEngine()))
	sessionID := orchestrator.EnsureSession("")

	toolCalls := collect(orchestrator.SubscribeToolCalls(sessionID))
	document := collect(orchestrator.SubscribeDocument(sessionID))

	_, err := orchestrator.appendNode(sessionID, appendNodeArguments{Text: "orphan"})
	if err == nil {
		t.Fatal("expected an error for an empty tag")
	}

	failed := receive(t, toolCalls).(events.ToolCallFailed)
	if failed.Name != "append_node" || failed.Error == "" {
		t.Errorf("unexpected failure event: %+v", failed)
	}
	expectNoEvent(t, toolCalls)
	expectNoEvent(t, document)

	if body := orchestrator.Document(sessionID).Body; body != "" {
		t.Errorf("expected document to stay empty, got %q", body)
	}
}
