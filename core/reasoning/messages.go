package reasoning

// Role describes who a conversation turn is from.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single entry of conversation history handed to the engine.
// Assistant turns may carry the tool calls that produced them.
type Turn struct {
	Role      Role
	Content   string
	ToolCalls []ToolCall
}

// ToolCall is one tool invocation requested by the engine. Arguments is the
// raw JSON argument payload; Response is filled in once the tool has run.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
	Response  string

	// Failed marks a response that reports an execution or validation
	// failure back to the engine rather than a result.
	Failed bool
}
