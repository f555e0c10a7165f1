package reasoning

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Tool is a capability the engine may invoke. Parameters carries the JSON
// schema of the argument payload, reflected from the typed argument struct.
type Tool struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema

	execute func(arguments string) (string, error)
}

// NewTool builds a tool whose arguments are decoded into T before the body
// runs. A payload that does not decode is a validation error: the body is
// never entered and the error is reported back to the engine as a failed
// tool result.
func NewTool[T any](name, description string, execute func(parameters T) (string, error)) Tool {
	reflector := jsonschema.Reflector{DoNotReference: true}
	var parameters T
	schema := reflector.Reflect(parameters)

	return Tool{
		Name:        name,
		Description: description,
		Parameters:  schema,
		execute: func(arguments string) (string, error) {
			if arguments == "" {
				arguments = "{}"
			}
			var decoded T
			if err := json.Unmarshal([]byte(arguments), &decoded); err != nil {
				return "", fmt.Errorf("invalid arguments for tool %q: %w", name, err)
			}
			return execute(decoded)
		},
	}
}

// Execute runs the tool against a raw JSON argument payload.
func (t Tool) Execute(arguments string) (string, error) {
	if t.execute == nil {
		return "", fmt.Errorf("tool %q has no executor", t.Name)
	}
	return t.execute(arguments)
}
