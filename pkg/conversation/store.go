// Package conversation holds the ordered message log of a chat session.
//
// Messages are addressed by their position in the log. Positions are dense
// and zero-based; truncating the log shifts every position after the cut.
package conversation

import (
	"errors"
	"fmt"

	"gptchat/pkg/ai"
)

// ErrOutOfRange is returned when an index does not address a message.
var ErrOutOfRange = errors.New("message index out of range")

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the log. ID is its position at the time it was read.
type Message struct {
	ID      int
	Role    Role
	Content string

	// Failed marks a visible error placeholder standing in for a reply.
	// Failed messages are rendered but never sent to the endpoint.
	Failed bool
}

// Editable reports whether the message can be pulled back into the input.
func (m Message) Editable() bool {
	return m.Role == RoleUser
}

// Copyable reports whether the message offers copy-to-clipboard.
func (m Message) Copyable() bool {
	return m.Role == RoleAssistant && !m.Failed
}

type entry struct {
	role    Role
	content string
	failed  bool
}

// Store is an append-mostly conversation log. It is not safe for concurrent
// use; the owning session mutates it from a single goroutine.
type Store struct {
	entries []entry
}

// NewStore creates an empty log.
func NewStore() *Store {
	return &Store{}
}

// Append adds a message at the end and returns its index.
func (s *Store) Append(role Role, content string) int {
	s.entries = append(s.entries, entry{role: role, content: content})
	return len(s.entries) - 1
}

// AppendFailed adds an error placeholder in place of an assistant reply.
func (s *Store) AppendFailed(content string) int {
	s.entries = append(s.entries, entry{role: RoleAssistant, content: content, failed: true})
	return len(s.entries) - 1
}

// TruncateFrom removes the message at id and every message after it.
// The log is left unchanged when id is out of range.
func (s *Store) TruncateFrom(id int) error {
	if id < 0 || id >= len(s.entries) {
		return fmt.Errorf("truncate from %d (len %d): %w", id, len(s.entries), ErrOutOfRange)
	}
	clear(s.entries[id:])
	s.entries = s.entries[:id]
	return nil
}

// Len returns the number of messages.
func (s *Store) Len() int {
	return len(s.entries)
}

// Get returns the message at id.
func (s *Store) Get(id int) (Message, error) {
	if id < 0 || id >= len(s.entries) {
		return Message{}, fmt.Errorf("get %d (len %d): %w", id, len(s.entries), ErrOutOfRange)
	}
	return s.message(id), nil
}

// Last returns the final message, if any.
func (s *Store) Last() (Message, bool) {
	if len(s.entries) == 0 {
		return Message{}, false
	}
	return s.message(len(s.entries) - 1), true
}

// Messages returns a copy of the log with ids assigned.
func (s *Store) Messages() []Message {
	out := make([]Message, len(s.entries))
	for i := range s.entries {
		out[i] = s.message(i)
	}
	return out
}

// Reset empties the log.
func (s *Store) Reset() {
	s.entries = nil
}

// WireFormat projects the log onto role/content pairs in log order.
// Failed placeholders are dropped. It does not modify the store.
func (s *Store) WireFormat() []ai.Message {
	out := make([]ai.Message, 0, len(s.entries))
	for _, e := range s.entries {
		if e.failed {
			continue
		}
		out = append(out, ai.Message{Role: string(e.role), Content: e.content})
	}
	return out
}

func (s *Store) message(id int) Message {
	e := s.entries[id]
	return Message{ID: id, Role: e.role, Content: e.content, Failed: e.failed}
}
