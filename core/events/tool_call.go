package events

const (
	// KindToolCallStarted identifies tool call execution start.
	KindToolCallStarted Kind = "tool_call.started"
	// KindToolCallProgress identifies intermediate tool call progress.
	KindToolCallProgress Kind = "tool_call.progress"
	// KindToolCallCompleted identifies successful tool call completion.
	KindToolCallCompleted Kind = "tool_call.completed"
	// KindToolCallFailed identifies tool call failure.
	KindToolCallFailed Kind = "tool_call.failed"
)

// ToolCallStarted marks start of tool execution.
type ToolCallStarted struct {
	Base
	ID        string
	SessionID string
	Name      string
	Arguments string
}

// NewToolCallStarted creates a tool call started event.
func NewToolCallStarted(id, sessionID, name, arguments string) ToolCallStarted {
	return ToolCallStarted{Base: NewBase(KindToolCallStarted), ID: id, SessionID: sessionID, Name: name, Arguments: arguments}
}

// ToolCallProgress carries an intermediate preview of the pending result.
type ToolCallProgress struct {
	Base
	ID        string
	SessionID string
	Name      string
	Preview   string
}

// NewToolCallProgress creates a tool call progress event.
func NewToolCallProgress(id, sessionID, name, preview string) ToolCallProgress {
	return ToolCallProgress{Base: NewBase(KindToolCallProgress), ID: id, SessionID: sessionID, Name: name, Preview: preview}
}

// ToolCallCompleted marks successful tool execution.
type ToolCallCompleted struct {
	Base
	ID        string
	SessionID string
	Name      string
	Index     int
}

// NewToolCallCompleted creates a tool call completed event.
func NewToolCallCompleted(id, sessionID, name string, index int) ToolCallCompleted {
	return ToolCallCompleted{Base: NewBase(KindToolCallCompleted), ID: id, SessionID: sessionID, Name: name, Index: index}
}

// ToolCallFailed marks failed tool execution.
type ToolCallFailed struct {
	Base
	ID        string
	SessionID string
	Name      string
	Error     string
}

// NewToolCallFailed creates a tool call failed event.
func NewToolCallFailed(id, sessionID, name, err string) ToolCallFailed {
	return ToolCallFailed{Base: NewBase(KindToolCallFailed), ID: id, SessionID: sessionID, Name: name, Error: err}
}
