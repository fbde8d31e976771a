package transcript

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gptchat/pkg/conversation"

	"github.com/charmbracelet/x/exp/golden"
)

func sampleMessages() []conversation.Message {
	s := conversation.NewStore()
	s.Append(conversation.RoleUser, "Hello")
	s.Append(conversation.RoleAssistant, "Hi there\n\n```go\nfmt.Println(\"hi\")\n```\n")
	s.Append(conversation.RoleUser, "thanks")
	s.AppendFailed("Request failed with HTTP 500. Press r to resend.")
	return s.Messages()
}

func TestMarkdown(t *testing.T) {
	golden.RequireEqual(t, []byte(Markdown(sampleMessages())))
}

func TestMarkdown_Empty(t *testing.T) {
	if got := Markdown(nil); got != "# Conversation\n" {
		t.Fatalf("Unexpected output for empty log: %q", got)
	}
}

func TestQuote_MultiLine(t *testing.T) {
	got := quote("first\n\nthird")
	want := "> first\n>\n> third"
	if got != want {
		t.Fatalf("Expected %q, got %q", want, got)
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "transcripts")
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	path, err := Save(dir, sampleMessages(), now)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if filepath.Base(path) != "chat-20240309-140507.md" {
		t.Fatalf("Unexpected file name %q", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(data) != Markdown(sampleMessages()) {
		t.Fatalf("Saved content does not match rendered markdown:\n%s", data)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat error: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("Expected 0600 permissions, got %o", perm)
	}
}

func TestSave_Empty(t *testing.T) {
	_, err := Save(t.TempDir(), nil, time.Now())
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("Expected ErrEmpty, got %v", err)
	}
}
