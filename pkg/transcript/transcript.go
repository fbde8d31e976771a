// Package transcript exports a conversation as a markdown document.
package transcript

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gptchat/pkg/conversation"
)

// ErrEmpty is returned when there is nothing to export.
var ErrEmpty = errors.New("conversation is empty")

const fileTimeLayout = "20060102-150405"

// Markdown renders messages in log order. Error placeholders are quoted.
func Markdown(messages []conversation.Message) string {
	var b strings.Builder
	b.WriteString("# Conversation\n")

	for _, msg := range messages {
		content := strings.TrimRight(msg.Content, "\n")
		if msg.Failed {
			content = quote(content)
		}
		fmt.Fprintf(&b, "\n**%s**\n\n%s\n", speaker(msg), content)
	}
	return b.String()
}

// Save writes the markdown transcript to <dir>/chat-YYYYMMDD-HHMMSS.md and
// returns the path.
func Save(dir string, messages []conversation.Message, now time.Time) (string, error) {
	if len(messages) == 0 {
		return "", ErrEmpty
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create transcript dir: %w", err)
	}

	path := filepath.Join(dir, "chat-"+now.Format(fileTimeLayout)+".md")
	if err := os.WriteFile(path, []byte(Markdown(messages)), 0o600); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}

	slog.Info("transcript_saved", "path", path, "messages", len(messages))
	return path, nil
}

func speaker(msg conversation.Message) string {
	switch {
	case msg.Failed:
		return "Error"
	case msg.Role == conversation.RoleUser:
		return "You"
	default:
		return "GPT"
	}
}

func quote(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight("> "+line, " ")
	}
	return strings.Join(lines, "\n")
}
