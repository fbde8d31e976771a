package chat

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"gptchat/pkg/ai"
	"gptchat/pkg/conversation"
)

func newTestSession() *Session {
	s := NewSession()
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("ex-%d", n)
	}
	return s
}

func TestSubmit_EmptyInputIsNoOp(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t "} {
		s := newTestSession()
		s.SetInput(text)

		ex, err := s.Submit(text)
		if !errors.Is(err, ErrEmptyInput) {
			t.Fatalf("Submit(%q): expected ErrEmptyInput, got %v", text, err)
		}
		if ex.ID != "" {
			t.Fatalf("Submit(%q): expected no exchange, got %+v", text, ex)
		}
		if s.Len() != 0 {
			t.Fatalf("Submit(%q): expected empty log, got %d messages", text, s.Len())
		}
		if s.Awaiting() {
			t.Fatalf("Submit(%q): expected not awaiting", text)
		}
	}
}

func TestSubmit_AppendsUserMessage(t *testing.T) {
	s := newTestSession()
	s.SetInput("  Hello \n")

	ex, err := s.Submit(s.Input())
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	if ex.ID != "ex-1" {
		t.Errorf("Expected exchange id ex-1, got %q", ex.ID)
	}
	if len(ex.Messages) != 1 || ex.Messages[0] != (ai.Message{Role: "user", Content: "Hello"}) {
		t.Fatalf("Unexpected wire messages %+v", ex.Messages)
	}
	if !s.Awaiting() {
		t.Error("Expected session to await a response")
	}
	if s.Input() != "" {
		t.Errorf("Expected input to be cleared, got %q", s.Input())
	}
}

func TestSubmit_HelloHiThere(t *testing.T) {
	s := newTestSession()

	ex, err := s.Submit("Hello")
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	msgs := s.Messages()
	if len(msgs) != 1 || msgs[0].Role != conversation.RoleUser || msgs[0].Content != "Hello" {
		t.Fatalf("Unexpected log after submit: %+v", msgs)
	}

	if !s.Complete(ExchangeEvent{ExchangeID: ex.ID, Content: "Hi there"}) {
		t.Fatal("Expected event to be applied")
	}

	msgs = s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(msgs))
	}
	if msgs[1].Role != conversation.RoleAssistant || msgs[1].Content != "Hi there" {
		t.Fatalf("Unexpected assistant message %+v", msgs[1])
	}
	if s.Awaiting() {
		t.Error("Expected awaiting flag to be cleared")
	}
}

func TestSubmit_RejectedWhileAwaiting(t *testing.T) {
	s := newTestSession()
	if _, err := s.Submit("first"); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	s.SetInput("second")

	_, err := s.Submit("second")
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("Expected ErrBusy, got %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("Expected log unchanged, got %d messages", s.Len())
	}
	if s.Input() != "second" {
		t.Fatalf("Expected input to be kept, got %q", s.Input())
	}
}

func TestComplete_ErrorAppendsPlaceholder(t *testing.T) {
	s := newTestSession()
	ex, _ := s.Submit("Hello")

	failure := fmt.Errorf("%w: no choices in response", ai.ErrMalformedResponse)
	s.Complete(ExchangeEvent{ExchangeID: ex.ID, Err: failure})

	if s.Awaiting() {
		t.Fatal("Expected input to be re-enabled after a failure")
	}
	if !errors.Is(s.LastError(), ai.ErrMalformedResponse) {
		t.Fatalf("Expected last error to be ErrMalformedResponse, got %v", s.LastError())
	}

	last, err := s.Message(1)
	if err != nil {
		t.Fatalf("Message(1) error: %v", err)
	}
	if !last.Failed || last.Content == "" {
		t.Fatalf("Expected visible failed placeholder, got %+v", last)
	}

	ex, err = s.Submit("again")
	if err != nil {
		t.Fatalf("Expected resubmit to succeed, got %v", err)
	}
	if len(ex.Messages) != 2 {
		t.Fatalf("Expected placeholder to be left off the wire, got %+v", ex.Messages)
	}
}

func TestComplete_SuccessClearsLastError(t *testing.T) {
	s := newTestSession()
	ex, _ := s.Submit("Hello")
	s.Complete(ExchangeEvent{ExchangeID: ex.ID, Err: &ai.TransportError{StatusCode: 500, Err: errors.New("boom")}})

	ex, _ = s.Submit("Hello?")
	s.Complete(ExchangeEvent{ExchangeID: ex.ID, Content: "Hi"})

	if s.LastError() != nil {
		t.Fatalf("Expected last error to be cleared, got %v", s.LastError())
	}
}

func TestComplete_IgnoresStaleEvents(t *testing.T) {
	s := newTestSession()
	ex, _ := s.Submit("Hello")

	if s.Complete(ExchangeEvent{ExchangeID: "other", Content: "late"}) {
		t.Fatal("Expected stale event to be ignored")
	}
	if !s.Awaiting() || s.Len() != 1 {
		t.Fatalf("Expected session untouched by stale event")
	}

	s.Complete(ExchangeEvent{ExchangeID: ex.ID, Content: "Hi"})
	if s.Complete(ExchangeEvent{ExchangeID: ex.ID, Content: "Hi again"}) {
		t.Fatal("Expected duplicate event to be ignored")
	}
	if s.Len() != 2 {
		t.Fatalf("Expected 2 messages, got %d", s.Len())
	}
}

func TestEdit_TruncatesAndReturnsContent(t *testing.T) {
	s := newTestSession()
	ex, _ := s.Submit("first question")
	s.Complete(ExchangeEvent{ExchangeID: ex.ID, Content: "first answer"})
	ex, _ = s.Submit("second question")
	s.Complete(ExchangeEvent{ExchangeID: ex.ID, Content: "second answer"})
	if err := s.store.TruncateFrom(3); err != nil {
		t.Fatalf("TruncateFrom error: %v", err)
	}
	// log: user, assistant, user

	content, err := s.Edit(1)
	if err != nil {
		t.Fatalf("Edit(1) error: %v", err)
	}
	if content != "first answer" {
		t.Fatalf("Expected content of message 1, got %q", content)
	}
	if s.Input() != "first answer" {
		t.Fatalf("Expected input to receive the content, got %q", s.Input())
	}
	msgs := s.Messages()
	if len(msgs) != 1 || msgs[0].Content != "first question" {
		t.Fatalf("Expected only the first user message to remain, got %+v", msgs)
	}
}

func TestEdit_UserMessageRewritesHistory(t *testing.T) {
	s := newTestSession()
	ex, _ := s.Submit("typo qestion")
	s.Complete(ExchangeEvent{ExchangeID: ex.ID, Content: "answer"})

	content, err := s.Edit(0)
	if err != nil {
		t.Fatalf("Edit(0) error: %v", err)
	}
	if content != "typo qestion" || s.Len() != 0 {
		t.Fatalf("Expected empty log and content back, got %q / %d", content, s.Len())
	}

	ex, err = s.Submit(strings.Replace(content, "qestion", "question", 1))
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if len(ex.Messages) != 1 || ex.Messages[0].Content != "typo question" {
		t.Fatalf("Unexpected wire messages %+v", ex.Messages)
	}
}

func TestEdit_Errors(t *testing.T) {
	s := newTestSession()
	ex, _ := s.Submit("Hello")

	if _, err := s.Edit(0); !errors.Is(err, ErrBusy) {
		t.Fatalf("Expected ErrBusy while awaiting, got %v", err)
	}

	s.Complete(ExchangeEvent{ExchangeID: ex.ID, Err: &ai.TransportError{Err: errors.New("offline")}})

	if _, err := s.Edit(5); !errors.Is(err, conversation.ErrOutOfRange) {
		t.Fatalf("Expected ErrOutOfRange, got %v", err)
	}
	if _, err := s.Edit(-1); !errors.Is(err, conversation.ErrOutOfRange) {
		t.Fatalf("Expected ErrOutOfRange, got %v", err)
	}
	if _, err := s.Edit(1); !errors.Is(err, ErrNotEditable) {
		t.Fatalf("Expected ErrNotEditable for placeholder, got %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Expected log unchanged, got %d messages", s.Len())
	}
}

func TestResendAll(t *testing.T) {
	s := newTestSession()

	if _, err := s.ResendAll(); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("Expected ErrEmptyInput on empty log, got %v", err)
	}

	ex, _ := s.Submit("Hello")
	if _, err := s.ResendAll(); !errors.Is(err, ErrBusy) {
		t.Fatalf("Expected ErrBusy while awaiting, got %v", err)
	}
	s.Complete(ExchangeEvent{ExchangeID: ex.ID, Err: &ai.TransportError{StatusCode: 502, Err: errors.New("bad gateway")}})

	ex, err := s.ResendAll()
	if err != nil {
		t.Fatalf("ResendAll() error: %v", err)
	}
	if ex.ID != "ex-2" {
		t.Errorf("Expected a fresh exchange id, got %q", ex.ID)
	}
	if len(ex.Messages) != 1 || ex.Messages[0].Content != "Hello" {
		t.Fatalf("Unexpected wire messages %+v", ex.Messages)
	}
	if s.Len() != 1 {
		t.Fatalf("Expected failed placeholder to be dropped, got %d messages", s.Len())
	}

	s.Complete(ExchangeEvent{ExchangeID: ex.ID, Content: "Hi there"})
	if s.Len() != 2 {
		t.Fatalf("Expected reply after resend, got %d messages", s.Len())
	}
}

func TestReset(t *testing.T) {
	s := newTestSession()
	ex, _ := s.Submit("Hello")

	if err := s.Reset(); !errors.Is(err, ErrBusy) {
		t.Fatalf("Expected ErrBusy while awaiting, got %v", err)
	}
	s.Complete(ExchangeEvent{ExchangeID: ex.ID, Content: "Hi"})
	s.SetInput("draft")

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset() error: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("Expected empty log, got %d", s.Len())
	}
	if s.Input() != "" {
		t.Fatalf("Expected input to be cleared, got %q", s.Input())
	}
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"status", &ai.TransportError{StatusCode: 429, Err: errors.New("slow down")}, "HTTP 429"},
		{"network", &ai.TransportError{Err: errors.New("connection refused")}, "Could not reach"},
		{"malformed", fmt.Errorf("%w: empty", ai.ErrMalformedResponse), "did not contain a message"},
		{"other", errors.New("weird"), "Request failed: weird"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DescribeError(tt.err)
			if !strings.Contains(got, tt.want) {
				t.Fatalf("Expected %q to contain %q", got, tt.want)
			}
		})
	}
}
