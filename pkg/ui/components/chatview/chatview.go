// Package chatview renders the conversation log as display lines.
package chatview

import (
	"runtime"
	"strings"

	"gptchat/pkg/conversation"
	"gptchat/pkg/ui/styles"
)

const (
	gutterWidth    = 2
	separatorWidth = 24
)

// NoSelection marks a render without a selected message.
const NoSelection = -1

// Layout is a rendered transcript.
type Layout struct {
	Lines []string

	// Starts holds the index of the first line of each message.
	Starts []int
}

// Render lays out messages for a transcript width columns wide. The message
// whose ID equals selected gets a gutter marker and its action hint.
func Render(messages []conversation.Message, width, selected int, theme styles.Theme) Layout {
	bodyWidth := max(width-gutterWidth, 1)

	var out Layout
	for i, msg := range messages {
		if i > 0 {
			out.Lines = append(out.Lines, "")
			if msg.Role == conversation.RoleUser {
				rule := strings.Repeat("─", min(separatorWidth, width))
				out.Lines = append(out.Lines, theme.Separator.Render(rule), "")
			}
		}

		isSelected := msg.ID == selected
		gutter := strings.Repeat(" ", gutterWidth)
		if isSelected {
			gutter = theme.Selected.Render("▌ ")
		}

		out.Starts = append(out.Starts, len(out.Lines))
		out.Lines = append(out.Lines, gutter+header(msg, isSelected, theme))

		var body []string
		if msg.Failed {
			body = renderMarkdown(msg.Content, bodyWidth, errorTheme(theme))
		} else {
			body = renderMarkdown(msg.Content, bodyWidth, theme)
		}
		for _, line := range body {
			out.Lines = append(out.Lines, gutter+line)
		}
	}
	return out
}

func header(msg conversation.Message, selected bool, theme styles.Theme) string {
	var label string
	switch {
	case msg.Failed:
		label = theme.ErrorLabel.Render(labelPrefix("error") + "Error")
	case msg.Role == conversation.RoleUser:
		label = theme.UserLabel.Render(labelPrefix("user") + "You")
	default:
		label = theme.AssistantLabel.Render(labelPrefix("assistant") + "GPT")
	}

	if !selected {
		return label
	}
	switch {
	case msg.Failed:
		return label + theme.ActionHint.Render("  r resend")
	case msg.Editable():
		return label + theme.ActionHint.Render("  e edit")
	case msg.Copyable():
		return label + theme.ActionHint.Render("  y copy")
	}
	return label
}

func labelPrefix(kind string) string {
	if runtime.GOOS == "darwin" {
		return ""
	}
	switch kind {
	case "user":
		return "👤 "
	case "error":
		return "❌ "
	default:
		return "🖥️ "
	}
}

func errorTheme(theme styles.Theme) styles.Theme {
	theme.Text = theme.Error
	theme.TextBold = theme.Error.Bold(true)
	return theme
}
