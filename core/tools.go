package orchestration

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/ralfpopescu/scribe-core/core/events"
	"github.com/ralfpopescu/scribe-core/core/reasoning"
)

// previewLimit caps the fragment preview carried by tool progress events.
const previewLimit = 80

type appendNodeArguments struct {
	Tag        string            `json:"tag" jsonschema:"title=Tag,description=HTML tag name of the node to append"`
	Text       string            `json:"text,omitempty" jsonschema:"title=Text,description=Text content of the node"`
	Attributes map[string]string `json:"attributes,omitempty" jsonschema:"title=Attributes,description=Attribute name to value mapping for the node"`
}

type appendNodeResult struct {
	ID    string `json:"id"`
	HTML  string `json:"html"`
	Index int    `json:"index"`
}

// sessionTools builds the tool surface exposed to the engine for one
// session. Every document mutation flows through append_node; nothing else
// writes to the document or publishes document events.
func (o *Orchestrator) sessionTools(sessionID string) []reasoning.Tool {
	return []reasoning.Tool{
		reasoning.NewTool("append_node",
			"Append a single HTML node to the end of the session document",
			func(arguments appendNodeArguments) (string, error) {
				return o.appendNode(sessionID, arguments)
			}),
	}
}

// appendNode renders the requested node, commits it to the session
// document, and publishes the invocation's lifecycle events. The started,
// progress, and completed events share one invocation id; the document
// delta is published strictly after the store mutation, so a subscriber
// that polls the document on delta arrival already sees the fragment.
func (o *Orchestrator) appendNode(sessionID string, arguments appendNodeArguments) (string, error) {
	invocationID := uuid.NewString()

	if arguments.Tag == "" {
		err := fmt.Errorf("append_node requires a non-empty tag")
		o.bus.Publish(toolCallTopic(sessionID), events.NewToolCallFailed(invocationID, sessionID, "append_node", err.Error()))
		return "", err
	}

	rawArguments, err := json.Marshal(arguments)
	if err != nil {
		return "", fmt.Errorf("failed to marshal append_node arguments: %w", err)
	}
	o.bus.Publish(toolCallTopic(sessionID), events.NewToolCallStarted(invocationID, sessionID, "append_node", string(rawArguments)))

	fragment := renderNode(arguments)
	o.bus.Publish(toolCallTopic(sessionID), events.NewToolCallProgress(invocationID, sessionID, "append_node", preview(fragment)))

	index := o.store.AppendToBody(sessionID, fragment)
	o.bus.Publish(documentTopic(sessionID), events.NewDocumentDelta(uuid.NewString(), sessionID, fragment, index))
	o.bus.Publish(toolCallTopic(sessionID), events.NewToolCallCompleted(invocationID, sessionID, "append_node", index))

	result, err := json.Marshal(appendNodeResult{ID: invocationID, HTML: fragment, Index: index})
	if err != nil {
		return "", fmt.Errorf("failed to marshal append_node result: %w", err)
	}
	return string(result), nil
}

// renderNode builds the HTML fragment for one appended node. Attribute
// values get double quotes escaped so the fragment stays well formed; text
// content is emitted verbatim.
func renderNode(arguments appendNodeArguments) string {
	var fragment strings.Builder
	fragment.WriteString("<" + arguments.Tag)
	for _, name := range slices.Sorted(maps.Keys(arguments.Attributes)) {
		value := strings.ReplaceAll(arguments.Attributes[name], `"`, "&quot;")
		fragment.WriteString(` ` + name + `="` + value + `"`)
	}
	fragment.WriteString(">")
	fragment.WriteString(arguments.Text)
	fragment.WriteString("</" + arguments.Tag + ">")
	return fragment.String()
}

func preview(fragment string) string {
	runes := []rune(fragment)
	if len(runes) <= previewLimit {
		return fragment
	}
	return string(runes[:previewLimit])
}
