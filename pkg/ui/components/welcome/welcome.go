package welcome

import (
	"fmt"
	"strings"

	"gptchat/pkg/ui/components/utils"
	"gptchat/pkg/ui/styles"
	"gptchat/pkg/version"
)

const boxWidth = 53

type shortcut struct{ key, desc string }

var shortcuts = []shortcut{
	{"Enter", "Send message"},
	{"Ctrl+J", "Insert a newline"},
	{"Tab", "Switch between input and transcript"},
	{"e / y / r", "Edit, copy or resend (transcript)"},
	{"Ctrl+T", "Toggle dark/light theme"},
	{"Ctrl+S", "Save transcript as markdown"},
	{"Ctrl+N", "Start a new conversation"},
}

// Lines returns the welcome banner shown while the conversation is empty,
// centered in a transcript width columns wide.
func Lines(width int, model string, theme styles.Theme) []string {
	makeLine := func(content string) string {
		return theme.WelcomeBorder.Render("│") + utils.PadPlain(content, boxWidth) + theme.WelcomeBorder.Render("│")
	}
	centered := func(text string, style func(...string) string) string {
		return makeLine(utils.Center(style(utils.TruncateToWidth(text, boxWidth-4)), boxWidth))
	}

	top := theme.WelcomeBorder.Render("╭" + strings.Repeat("─", boxWidth) + "╮")
	bottom := theme.WelcomeBorder.Render("╰" + strings.Repeat("─", boxWidth) + "╯")
	empty := makeLine("")

	lines := []string{
		"",
		top,
		centered("✨ Welcome to "+version.AppName+" ✨", theme.WelcomeTitle.Render),
		empty,
	}

	if model != "" {
		lines = append(lines, centered("Talking to "+model, theme.Text.Render), empty)
	}

	header := "  Shortcuts:"
	lines = append(lines, makeLine(theme.WelcomeHeader.Render(header)))

	for _, s := range shortcuts {
		key := fmt.Sprintf("    %-11s", s.key)
		lines = append(lines, makeLine(theme.WelcomeKey.Render(key)+theme.Text.Render(s.desc)))
	}

	lines = append(lines,
		empty,
		centered(version.Summary(), theme.WelcomeVersion.Render),
		bottom,
	)

	// Center the box; narrow windows get it flush left.
	indent := max((width-(boxWidth+2))/2, 0)
	if indent > 0 {
		prefix := strings.Repeat(" ", indent)
		for i, line := range lines {
			if line != "" {
				lines[i] = prefix + line
			}
		}
	}
	return lines
}
