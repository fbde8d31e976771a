package chatview

import (
	"strings"

	"gptchat/pkg/ui/components/utils"
	"gptchat/pkg/ui/styles"

	"github.com/mattn/go-runewidth"
)

type markdownToken struct {
	text string
	bold bool
}

// renderMarkdown wraps content to width, rendering **bold** runs, fenced
// code blocks and pipe tables. It always returns at least one line.
func renderMarkdown(content string, width int, theme styles.Theme) []string {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	normalized = sanitizeContent(normalized)
	normalized = strings.ReplaceAll(normalized, "<br>", "\n")
	normalized = strings.ReplaceAll(normalized, "<br/>", "\n")
	normalized = strings.ReplaceAll(normalized, "<br />", "\n")
	rawLines := strings.Split(normalized, "\n")

	var rendered []string
	inCode := false

	for i := 0; i < len(rawLines); i++ {
		line := strings.ReplaceAll(rawLines[i], "\t", "    ")
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCode = !inCode
			continue
		}

		if inCode {
			rendered = append(rendered, renderCodeLine(line, width, theme)...)
			continue
		}

		if isTableRow(line) {
			var block []string
			for i < len(rawLines) && isTableRow(rawLines[i]) {
				block = append(block, rawLines[i])
				i++
			}
			i--

			rows := make([][]string, 0, len(block))
			for _, rowLine := range block {
				if cells := splitTableRow(rowLine); len(cells) > 0 {
					rows = append(rows, cells)
				}
			}
			if len(rows) > 0 {
				header := false
				if len(rows) > 1 && isSeparatorRow(rows[1]) {
					header = true
					rows = append(rows[:1], rows[2:]...)
				}
				rendered = append(rendered, renderTable(rows, header, width, theme)...)
				continue
			}
		}

		rendered = append(rendered, renderMarkdownLine(line, width, theme)...)
	}

	if len(rendered) == 0 {
		return []string{""}
	}
	return rendered
}

func renderMarkdownLine(line string, width int, theme styles.Theme) []string {
	if strings.TrimSpace(line) == "" {
		return []string{""}
	}

	tokens := tokenizeBoldWords(line)
	if len(tokens) == 0 {
		return []string{""}
	}
	return wrapTokens(tokens, width, theme)
}

func renderCodeLine(line string, width int, theme styles.Theme) []string {
	if width <= 0 {
		return []string{line}
	}
	if line == "" {
		return []string{theme.Code.Render(utils.PadPlain("", width))}
	}

	parts := splitByWidth(line, width)
	lines := make([]string, 0, len(parts))
	for _, part := range parts {
		lines = append(lines, theme.Code.Render(utils.PadPlain(part, width)))
	}
	return lines
}

func renderTable(rows [][]string, header bool, width int, theme styles.Theme) []string {
	if width <= 0 || len(rows) == 0 {
		return []string{""}
	}

	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}

	for i := range rows {
		if len(rows[i]) < cols {
			padded := make([]string, cols)
			copy(padded, rows[i])
			rows[i] = padded
		}
	}

	colWidths := make([]int, cols)
	for _, row := range rows {
		for i, cell := range row {
			colWidths[i] = max(colWidths[i], runewidth.StringWidth(cell))
		}
	}

	// "| " before each cell, " " after it, and the closing "|".
	maxContent := width - (3*cols + 1)
	if maxContent < cols {
		var fallback []string
		for _, row := range rows {
			fallback = append(fallback, theme.Text.Render(utils.TrimToWidth(strings.Join(row, " | "), width)))
		}
		return fallback
	}
	colWidths = fitColumnWidths(colWidths, maxContent)

	var rendered []string
	for rowIndex, row := range rows {
		line := utils.TrimToWidth(buildTableLine(row, colWidths), width)
		if header && rowIndex == 0 {
			rendered = append(rendered,
				theme.TextBold.Render(line),
				theme.Text.Render(buildTableSeparator(colWidths)),
			)
			continue
		}
		rendered = append(rendered, theme.Text.Render(line))
	}
	return rendered
}

func buildTableLine(row []string, widths []int) string {
	var sb strings.Builder
	sb.WriteString("|")
	for i, cell := range row {
		if i >= len(widths) {
			break
		}
		sb.WriteString(" ")
		sb.WriteString(utils.PadPlain(utils.TrimToWidth(cell, widths[i]), widths[i]))
		sb.WriteString(" |")
	}
	return sb.String()
}

func buildTableSeparator(widths []int) string {
	var sb strings.Builder
	sb.WriteString("|")
	for _, w := range widths {
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat("-", max(w, 1)))
		sb.WriteString(" |")
	}
	return sb.String()
}

// fitColumnWidths shrinks the widest column one cell at a time until the
// row fits in maxContent.
func fitColumnWidths(widths []int, maxContent int) []int {
	out := make([]int, len(widths))
	total := 0
	for i, w := range widths {
		out[i] = max(w, 1)
		total += out[i]
	}

	for total > maxContent {
		widest := 0
		for i, w := range out {
			if w > out[widest] {
				widest = i
			}
		}
		if out[widest] <= 1 {
			break
		}
		out[widest]--
		total--
	}
	return out
}

func isTableRow(line string) bool {
	if strings.Count(line, "|") < 2 {
		return false
	}
	cells := splitTableRow(line)
	if len(cells) < 2 {
		return false
	}
	for _, cell := range cells {
		if cell != "" {
			return true
		}
	}
	return false
}

func splitTableRow(line string) []string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")
	parts := strings.Split(trimmed, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func isSeparatorRow(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	for _, cell := range cells {
		clean := strings.Trim(strings.TrimSpace(cell), ":")
		if len(clean) < 3 || strings.Trim(clean, "-") != "" {
			return false
		}
	}
	return true
}

func tokenizeBoldWords(line string) []markdownToken {
	var tokens []markdownToken
	bold := false

	for len(line) > 0 {
		idx := strings.Index(line, "**")
		segment := line
		if idx >= 0 {
			segment = line[:idx]
		}
		for _, word := range strings.Fields(segment) {
			tokens = append(tokens, markdownToken{text: word, bold: bold})
		}
		if idx < 0 {
			break
		}
		bold = !bold
		line = line[idx+2:]
	}
	return tokens
}

func wrapTokens(tokens []markdownToken, width int, theme styles.Theme) []string {
	if width <= 0 {
		return []string{""}
	}

	var lines []string
	var lineTokens []markdownToken
	lineWidth := 0

	flush := func() {
		lines = append(lines, renderTokenLine(lineTokens, theme))
		lineTokens = nil
		lineWidth = 0
	}

	for _, token := range tokens {
		for _, part := range splitByWidth(token.text, width) {
			partWidth := runewidth.StringWidth(part)
			if lineWidth > 0 && lineWidth+1+partWidth > width {
				flush()
			}
			if lineWidth > 0 {
				lineWidth++
			}
			lineTokens = append(lineTokens, markdownToken{text: part, bold: token.bold})
			lineWidth += partWidth
		}
	}
	if len(lineTokens) > 0 {
		flush()
	}
	return lines
}

func renderTokenLine(tokens []markdownToken, theme styles.Theme) string {
	var sb strings.Builder
	for i, token := range tokens {
		if i > 0 {
			sb.WriteString(theme.Text.Render(" "))
		}
		if token.bold {
			sb.WriteString(theme.TextBold.Render(token.text))
		} else {
			sb.WriteString(theme.Text.Render(token.text))
		}
	}
	return sb.String()
}

func splitByWidth(text string, width int) []string {
	if width <= 0 || text == "" {
		return []string{text}
	}

	var parts []string
	var sb strings.Builder
	currentWidth := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if currentWidth+w > width && currentWidth > 0 {
			parts = append(parts, sb.String())
			sb.Reset()
			currentWidth = 0
		}
		sb.WriteRune(r)
		currentWidth += w
	}
	if sb.Len() > 0 {
		parts = append(parts, sb.String())
	}
	return parts
}

// sanitizeContent drops control characters other than newline and tab so
// replies cannot move the cursor or recolor the screen.
func sanitizeContent(content string) string {
	var sb strings.Builder
	sb.Grow(len(content))
	for _, r := range content {
		if r == '\n' || r == '\t' {
			sb.WriteRune(r)
			continue
		}
		if r < 0x20 || r == 0x7f {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
