// Package sessions holds per-session conversation and document state.
//
// Sessions are created lazily on first reference and live for the process
// lifetime. The store is pure data: it never fails on well-typed input.
package sessions

import (
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role describes who a message is from.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one entry in a session's conversation log, immutable once
// appended. Ordering is append order.
type Message struct {
	ID        string
	SessionID string
	Role      Role
	Content   string
	CreatedAt time.Time
}

// Document is a session's accumulated markup. The body is always a
// concatenation of complete element fragments; partial tags are never
// committed.
type Document struct {
	SessionID string
	Body      string
}

type session struct {
	messages []Message
	body     string
}

// Store owns every session's message log and document.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*session)}
}

// Ensure returns id if the session is already known, creating it otherwise.
// An empty id asks for a freshly generated one.
func (s *Store) Ensure(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = uuid.NewString()
	}
	s.ensureLocked(id)
	return id
}

// AppendMessage records a message with a fresh id and timestamp, creating the
// session if absent. The stored message is returned and immediately visible
// to Messages.
func (s *Store) AppendMessage(sessionID string, role Role, content string) Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	message := Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}

	stored := s.ensureLocked(sessionID)
	stored.messages = append(stored.messages, message)
	return message
}

// Messages returns the session's log in append order; empty for sessions
// that have no messages yet (an unknown id creates the session).
func (s *Store) Messages(sessionID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.ensureLocked(sessionID)
	messages := make([]Message, len(stored.messages))
	copy(messages, stored.messages)
	return messages
}

// Document returns the session's current document.
func (s *Store) Document(sessionID string) Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.ensureLocked(sessionID)
	return Document{SessionID: sessionID, Body: stored.body}
}

// openingTagPattern matches the start of an opening tag. Closing tags begin
// with "</" and therefore never match.
var openingTagPattern = regexp.MustCompile(`<[A-Za-z]`)

// AppendToBody concatenates fragment to the session's document body and
// returns the fragment's node index: the count of opening tags present in
// the body before this append (0 for an empty document). The index is
// derived by scanning, not maintained as a counter; the scan is the
// definition of the value.
func (s *Store) AppendToBody(sessionID, fragment string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.ensureLocked(sessionID)
	index := len(openingTagPattern.FindAllStringIndex(stored.body, -1))
	stored.body += fragment
	return index
}

func (s *Store) ensureLocked(id string) *session {
	stored, ok := s.sessions[id]
	if !ok {
		stored = &session{}
		s.sessions[id] = stored
	}
	return stored
}
