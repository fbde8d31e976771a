package viewport

import (
	"strings"

	"charm.land/bubbles/v2/viewport"
)

// TranscriptViewport wraps Bubble Tea's viewport for the chat transcript.
// It follows the bottom of the content until the user scrolls away.
type TranscriptViewport struct {
	Viewport viewport.Model
	lines    int
	follow   bool
	ready    bool
}

// NewTranscriptViewport creates an empty viewport that follows new output.
func NewTranscriptViewport() TranscriptViewport {
	return TranscriptViewport{
		Viewport: viewport.New(),
		follow:   true,
	}
}

// SetSize updates the viewport dimensions.
func (v *TranscriptViewport) SetSize(width, height int) {
	v.Viewport.SetWidth(width)
	v.Viewport.SetHeight(max(height, 1))
	v.ready = true
	if v.follow {
		v.Viewport.GotoBottom()
	}
}

// SetLines replaces the content.
func (v *TranscriptViewport) SetLines(lines []string) {
	v.lines = len(lines)
	v.Viewport.SetContent(strings.Join(lines, "\n"))
	if v.follow {
		v.Viewport.GotoBottom()
	}
}

// Follow re-enables auto-scroll and jumps to the bottom.
func (v *TranscriptViewport) Follow() {
	v.follow = true
	v.Viewport.GotoBottom()
}

// IsFollowing reports whether new content scrolls into view.
func (v *TranscriptViewport) IsFollowing() bool {
	return v.follow
}

// ScrollUp scrolls up n lines.
func (v *TranscriptViewport) ScrollUp(n int) {
	v.Viewport.ScrollUp(n)
	v.follow = v.Viewport.AtBottom()
}

// ScrollDown scrolls down n lines.
func (v *TranscriptViewport) ScrollDown(n int) {
	v.Viewport.ScrollDown(n)
	v.follow = v.Viewport.AtBottom()
}

// PageUp scrolls up one page.
func (v *TranscriptViewport) PageUp() {
	v.Viewport.PageUp()
	v.follow = v.Viewport.AtBottom()
}

// PageDown scrolls down one page.
func (v *TranscriptViewport) PageDown() {
	v.Viewport.PageDown()
	v.follow = v.Viewport.AtBottom()
}

// GotoTop scrolls to the first line.
func (v *TranscriptViewport) GotoTop() {
	v.Viewport.GotoTop()
	v.follow = v.Viewport.AtBottom()
}

// Reveal scrolls the minimum amount needed to bring line into view.
func (v *TranscriptViewport) Reveal(line int) {
	top := v.Viewport.YOffset()
	height := v.Viewport.Height()
	switch {
	case line < top:
		v.Viewport.SetYOffset(line)
	case line >= top+height:
		v.Viewport.SetYOffset(line - height + 1)
	}
	v.follow = v.Viewport.AtBottom()
}

// LineCount returns the number of content lines.
func (v *TranscriptViewport) LineCount() int {
	return v.lines
}

// View renders the visible window.
func (v *TranscriptViewport) View() string {
	if !v.ready {
		return "Loading..."
	}
	return v.Viewport.View()
}
