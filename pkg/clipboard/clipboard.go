// Package clipboard copies plain text to the user's clipboard.
//
// The system clipboard is tried first. When it is unavailable (SSH sessions,
// headless machines) the text is sent to the terminal as an OSC 52 escape.
package clipboard

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

// Method names the mechanism that carried a copy.
type Method string

const (
	MethodSystem Method = "system"
	MethodOSC52  Method = "osc52"
)

// Copier writes text to the clipboard.
type Copier struct {
	system      func(string) error
	unsupported bool
	out         io.Writer
	tmux        bool
}

// New returns a Copier that falls back to writing OSC 52 sequences to out.
func New(out io.Writer) *Copier {
	return &Copier{
		system:      clipboard.WriteAll,
		unsupported: clipboard.Unsupported,
		out:         out,
		tmux:        os.Getenv("TMUX") != "",
	}
}

// Copy places text on the clipboard and reports which method was used.
func (c *Copier) Copy(text string) (Method, error) {
	if !c.unsupported && c.system != nil {
		err := c.system(text)
		if err == nil {
			return MethodSystem, nil
		}
		slog.Debug("clipboard_system_failed", "error", err)
	}

	seq := osc52.New(text)
	if c.tmux {
		seq = seq.Tmux()
	}
	if _, err := fmt.Fprint(c.out, seq); err != nil {
		return "", fmt.Errorf("write osc52 sequence: %w", err)
	}
	return MethodOSC52, nil
}
