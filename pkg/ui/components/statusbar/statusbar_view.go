package statusbar

import (
	"fmt"
	"strings"

	"gptchat/pkg/ui/components/utils"
	"gptchat/pkg/ui/styles"
	"gptchat/pkg/version"
)

// StatusBarView renders the single status line at the bottom of the window.
type StatusBarView struct {
	model   string
	state   string
	message string
	version string
	width   int
}

// NewStatusBarView creates a new status bar view.
func NewStatusBarView() *StatusBarView {
	return &StatusBarView{
		state: "ready",
		width: 80,
	}
}

// SetModel updates the model name displayed.
func (s *StatusBarView) SetModel(model string) {
	s.model = strings.TrimSpace(model)
}

// SetState sets the session state label (ready, waiting, error).
func (s *StatusBarView) SetState(state string) {
	s.state = state
}

// SetMessage sets a transient message. It replaces the key hint.
func (s *StatusBarView) SetMessage(msg string) {
	s.message = msg
}

// SetVersion sets the version shown at the right edge.
func (s *StatusBarView) SetVersion(v string) {
	s.version = v
}

// SetWidth updates the width for rendering.
func (s *StatusBarView) SetWidth(width int) {
	s.width = width
}

// Render returns the styled status bar, exactly width cells wide.
func (s *StatusBarView) Render(theme styles.Theme) string {
	modelLabel := s.model
	if modelLabel == "" {
		modelLabel = "unknown"
	}

	tail := s.message
	if tail == "" {
		tail = "Tab focus | Ctrl+T theme | Ctrl+S save | Ctrl+C quit"
	}
	content := fmt.Sprintf("[%s] %s | [llm]: %s | %s", version.AppName, s.state, modelLabel, tail)

	// Padding(0, 1) adds one cell on each side.
	inner := max(s.width-2, 1)

	right := ""
	if s.version != "" {
		right = " " + s.version
	}
	return theme.StatusBar.Render(utils.FitLine(content, right, inner))
}
