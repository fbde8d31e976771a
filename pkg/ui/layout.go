package ui

import (
	"charm.land/lipgloss/v2"
)

const (
	inputHeight     = 3
	separatorHeight = 1
	footerHeight    = 1
	statusBarHeight = 1
)

// LayoutManager splits the window into transcript, input and status rows.
type LayoutManager struct {
	width  int
	height int
}

// NewLayoutManager creates a new layout manager
func NewLayoutManager() *LayoutManager {
	return &LayoutManager{
		width:  80,
		height: 24,
	}
}

// SetSize updates the layout dimensions
func (lm *LayoutManager) SetSize(width, height int) {
	lm.width = width
	lm.height = height
}

// TranscriptHeight returns the rows left for the transcript.
func (lm *LayoutManager) TranscriptHeight() int {
	return max(lm.height-inputHeight-separatorHeight-footerHeight-statusBarHeight, 1)
}

// InputWidth returns the width of the input box.
func (lm *LayoutManager) InputWidth() int {
	return max(lm.width, 1)
}

// RenderLayout stacks the regions top to bottom.
func (lm *LayoutManager) RenderLayout(transcript, separator, input, footer, statusBar string) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		transcript,
		separator,
		input,
		footer,
		statusBar,
	)
}

// GetDimensions returns current width and height
func (lm *LayoutManager) GetDimensions() (width, height int) {
	return lm.width, lm.height
}
