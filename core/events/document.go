package events

// KindDocumentDelta identifies an appended document fragment.
const KindDocumentDelta Kind = "document.delta"

// DocumentDelta carries a fragment that was appended to a session document
// and the node index it was committed at.
type DocumentDelta struct {
	Base
	ID        string
	SessionID string
	HTML      string
	Index     int
}

// NewDocumentDelta creates a document delta event.
func NewDocumentDelta(id, sessionID, html string, index int) DocumentDelta {
	return DocumentDelta{Base: NewBase(KindDocumentDelta), ID: id, SessionID: sessionID, HTML: html, Index: index}
}
