package events

// KindMessageTokenDelta identifies incremental model output.
const KindMessageTokenDelta Kind = "message_token.delta"

// MessageTokenDelta carries one unit of streamed model output. Tokens carry
// no correlation id: at most one generation streams per session at a time.
type MessageTokenDelta struct {
	Base
	ContentDelta string
}

// NewMessageTokenDelta creates a message token delta event.
func NewMessageTokenDelta(contentDelta string) MessageTokenDelta {
	return MessageTokenDelta{Base: NewBase(KindMessageTokenDelta), ContentDelta: contentDelta}
}
