// Package events defines the typed orchestration event contract.
//
// Event kinds are grouped by subscriber-facing namespaces:
//
//   - message_token.*
//   - tool_call.*
//   - document.*
//   - turn_state.*
//
// Semantics used across the package:
//
//   - Delta: append-only increment emitted in production order.
//   - Preview: truncated, human-oriented snippet of a larger payload.
//   - Invocation ID: one id shared by every tool_call.* event of a single
//     tool invocation, so subscribers can correlate its lifecycle.
//
// message_token events
//
//   - MessageTokenDelta (message_token.delta): one unit of incremental model
//     output for the session's in-flight turn.
//
// tool_call events
//
//   - ToolCallStarted (tool_call.started): tool execution started; carries
//     the raw invocation arguments.
//   - ToolCallProgress (tool_call.progress): intermediate progress; carries a
//     preview of the pending result.
//   - ToolCallCompleted (tool_call.completed): tool execution completed;
//     carries the committed node index.
//   - ToolCallFailed (tool_call.failed): tool execution failed.
//
// document events
//
//   - DocumentDelta (document.delta): a fragment appended to the session
//     document. Published strictly after the document already reflects the
//     append, so subscribers that also poll the document never observe the
//     event ahead of the state.
//
// turn_state events
//
//   - TurnStarted (turn_state.started): an orchestrated turn began.
//   - TurnCompleted (turn_state.completed): the turn finished and the model
//     message is recorded; always the last event of the turn's stream.
//   - TurnFailed (turn_state.failed): the turn aborted; no model message was
//     recorded and no TurnCompleted follows.
package events
