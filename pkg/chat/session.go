// Package chat owns the state of one chat session and runs its exchanges
// with the completion endpoint.
//
// A Session is mutated only by the interactive loop. Network calls run on a
// Dispatcher goroutine whose single result comes back as an ExchangeEvent,
// which the loop hands to Session.Complete.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gptchat/pkg/ai"
	"gptchat/pkg/conversation"

	"github.com/google/uuid"
)

var (
	// ErrEmptyInput is returned for empty or whitespace-only submissions.
	ErrEmptyInput = errors.New("empty input")

	// ErrBusy is returned while an exchange is in flight.
	ErrBusy = errors.New("a reply is still pending")

	// ErrNotEditable is returned when editing an error placeholder.
	ErrNotEditable = errors.New("message cannot be edited")
)

// Exchange is one request to run against the endpoint.
type Exchange struct {
	ID       string
	Messages []ai.Message
}

// Session is the explicit state of one conversation: the log, the pending
// input text and the awaiting-response flag.
type Session struct {
	store    *conversation.Store
	input    string
	inFlight string
	lastErr  error
	newID    func() string
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{
		store: conversation.NewStore(),
		newID: uuid.NewString,
	}
}

// Messages returns a snapshot of the log.
func (s *Session) Messages() []conversation.Message {
	return s.store.Messages()
}

// Len returns the number of messages in the log.
func (s *Session) Len() int {
	return s.store.Len()
}

// Message returns the message at id.
func (s *Session) Message(id int) (conversation.Message, error) {
	return s.store.Get(id)
}

// Input returns the text currently held by the input surface.
func (s *Session) Input() string {
	return s.input
}

// SetInput records the text of the input surface.
func (s *Session) SetInput(text string) {
	s.input = text
}

// Awaiting reports whether an exchange is in flight.
func (s *Session) Awaiting() bool {
	return s.inFlight != ""
}

// LastError returns the error of the most recent failed exchange, cleared
// by the next successful one.
func (s *Session) LastError() error {
	return s.lastErr
}

// Submit appends a user message and returns the exchange to dispatch.
// Empty input and submissions while awaiting a reply leave the session untouched.
func (s *Session) Submit(text string) (Exchange, error) {
	content := strings.TrimSpace(text)
	if content == "" {
		return Exchange{}, ErrEmptyInput
	}
	if s.Awaiting() {
		return Exchange{}, ErrBusy
	}

	s.store.Append(conversation.RoleUser, content)
	s.input = ""
	return s.begin(), nil
}

// ResendAll replays the current log without appending anything. Trailing
// error placeholders from a failed attempt are discarded first.
func (s *Session) ResendAll() (Exchange, error) {
	if s.Awaiting() {
		return Exchange{}, ErrBusy
	}
	if len(s.store.WireFormat()) == 0 {
		return Exchange{}, ErrEmptyInput
	}

	s.dropTrailingFailures()
	return s.begin(), nil
}

// Edit puts the content of message id back into the input and removes that
// message and everything after it, assistant replies included. The UI only
// offers it on user messages; error placeholders are refused.
func (s *Session) Edit(id int) (string, error) {
	if s.Awaiting() {
		return "", ErrBusy
	}
	msg, err := s.store.Get(id)
	if err != nil {
		return "", err
	}
	if msg.Failed {
		return "", fmt.Errorf("message %d: %w", id, ErrNotEditable)
	}

	s.input = msg.Content
	if err := s.store.TruncateFrom(id); err != nil {
		return "", err
	}
	slog.Debug("session_edit", "message_id", id, "remaining", s.store.Len())
	return msg.Content, nil
}

// Complete applies the result of the exchange in flight. Events for any
// other exchange are ignored and false is returned.
func (s *Session) Complete(ev ExchangeEvent) bool {
	if ev.ExchangeID == "" || ev.ExchangeID != s.inFlight {
		slog.Warn("session_stale_event", "exchange_id", ev.ExchangeID, "in_flight", s.inFlight)
		return false
	}
	s.inFlight = ""

	if ev.Err != nil {
		s.lastErr = ev.Err
		s.store.AppendFailed(DescribeError(ev.Err))
		return true
	}

	s.lastErr = nil
	s.store.Append(conversation.RoleAssistant, ev.Content)
	return true
}

// Reset clears the log for a new conversation.
func (s *Session) Reset() error {
	if s.Awaiting() {
		return ErrBusy
	}
	s.store.Reset()
	s.input = ""
	s.lastErr = nil
	return nil
}

func (s *Session) begin() Exchange {
	ex := Exchange{
		ID:       s.newID(),
		Messages: s.store.WireFormat(),
	}
	s.inFlight = ex.ID
	return ex
}

func (s *Session) dropTrailingFailures() {
	cut := s.store.Len()
	for cut > 0 {
		msg, err := s.store.Get(cut - 1)
		if err != nil || !msg.Failed {
			break
		}
		cut--
	}
	if cut < s.store.Len() {
		_ = s.store.TruncateFrom(cut)
	}
}

// DescribeError turns an exchange error into the text shown in place of a reply.
func DescribeError(err error) string {
	var transportErr *ai.TransportError
	switch {
	case errors.As(err, &transportErr) && transportErr.StatusCode > 0:
		return fmt.Sprintf("Request failed with HTTP %d. Press r to resend.", transportErr.StatusCode)
	case errors.Is(err, context.DeadlineExceeded):
		return "The request timed out. Press r to resend."
	case errors.Is(err, ai.ErrTransport):
		return "Could not reach the completion endpoint. Press r to resend."
	case errors.Is(err, ai.ErrMalformedResponse):
		return "The reply did not contain a message. Press r to resend."
	default:
		return fmt.Sprintf("Request failed: %v", err)
	}
}
