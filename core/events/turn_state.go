package events

const (
	// KindTurnStarted identifies the start of an orchestrated turn.
	KindTurnStarted Kind = "turn_state.started"
	// KindTurnCompleted identifies successful turn completion.
	KindTurnCompleted Kind = "turn_state.completed"
	// KindTurnFailed identifies turn failure.
	KindTurnFailed Kind = "turn_state.failed"
)

// TurnStarted marks the start of an orchestrated turn.
type TurnStarted struct {
	Base
	SessionID string
}

// NewTurnStarted creates a turn started event.
func NewTurnStarted(sessionID string) TurnStarted {
	return TurnStarted{Base: NewBase(KindTurnStarted), SessionID: sessionID}
}

// TurnCompleted marks successful completion of an orchestrated turn. The
// session's model message is recorded by the time this event is observable.
type TurnCompleted struct {
	Base
	SessionID string
}

// NewTurnCompleted creates a turn completed event.
func NewTurnCompleted(sessionID string) TurnCompleted {
	return TurnCompleted{Base: NewBase(KindTurnCompleted), SessionID: sessionID}
}

// TurnFailed marks an aborted turn. No model message was recorded and no
// TurnCompleted is published for the turn.
type TurnFailed struct {
	Base
	SessionID string
	Reason    string
}

// NewTurnFailed creates a turn failed event.
func NewTurnFailed(sessionID, reason string) TurnFailed {
	return TurnFailed{Base: NewBase(KindTurnFailed), SessionID: sessionID, Reason: reason}
}
