// Package styles provides the color themes of the chat window.
// Components never hold colors of their own; they render with the Theme
// handed to them so a theme switch is a plain re-render.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

const (
	NameDark  = "dark"
	NameLight = "light"
)

// palette is the set of ANSI 256 / hex colors a theme is built from.
type palette struct {
	accent      color.Color
	text        color.Color
	textMuted   color.Color
	textBright  color.Color
	err         color.Color
	warning     color.Color
	code        color.Color
	codeBg      color.Color
	placeholder color.Color
	border      color.Color
	user        color.Color
	assistant   color.Color
	statusFg    color.Color
	statusBg    color.Color
	banner      color.Color
	bannerTitle color.Color
	bannerKey   color.Color
	bannerHead  color.Color
	bannerDim   color.Color
}

var darkPalette = palette{
	accent:      lipgloss.Color("141"),
	text:        lipgloss.Color("252"),
	textMuted:   lipgloss.Color("245"),
	textBright:  lipgloss.Color("15"),
	err:         lipgloss.Color("196"),
	warning:     lipgloss.Color("214"),
	code:        lipgloss.Color("213"),
	codeBg:      lipgloss.Color("235"),
	placeholder: lipgloss.Color("240"),
	border:      lipgloss.Color("141"),
	user:        lipgloss.Color("81"),
	assistant:   lipgloss.Color("42"),
	statusFg:    lipgloss.Color("#FAFAFA"),
	statusBg:    lipgloss.Color("#7D56F4"),
	banner:      lipgloss.Color("99"),
	bannerTitle: lipgloss.Color("219"),
	bannerKey:   lipgloss.Color("222"),
	bannerHead:  lipgloss.Color("248"),
	bannerDim:   lipgloss.Color("244"),
}

var lightPalette = palette{
	accent:      lipgloss.Color("91"),
	text:        lipgloss.Color("235"),
	textMuted:   lipgloss.Color("242"),
	textBright:  lipgloss.Color("15"),
	err:         lipgloss.Color("160"),
	warning:     lipgloss.Color("130"),
	code:        lipgloss.Color("125"),
	codeBg:      lipgloss.Color("254"),
	placeholder: lipgloss.Color("246"),
	border:      lipgloss.Color("91"),
	user:        lipgloss.Color("25"),
	assistant:   lipgloss.Color("28"),
	statusFg:    lipgloss.Color("#FAFAFA"),
	statusBg:    lipgloss.Color("#5A3FC0"),
	banner:      lipgloss.Color("61"),
	bannerTitle: lipgloss.Color("162"),
	bannerKey:   lipgloss.Color("130"),
	bannerHead:  lipgloss.Color("240"),
	bannerDim:   lipgloss.Color("244"),
}

// Theme is a complete set of styles for one color scheme.
type Theme struct {
	Name string

	Title       lipgloss.Style
	Text        lipgloss.Style
	TextMuted   lipgloss.Style
	TextBold    lipgloss.Style
	Code        lipgloss.Style
	Error       lipgloss.Style
	Footer      lipgloss.Style
	Placeholder lipgloss.Style
	Separator   lipgloss.Style

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	ErrorLabel     lipgloss.Style
	Selected       lipgloss.Style
	ActionHint     lipgloss.Style

	StatusBar lipgloss.Style
	StatusTag lipgloss.Style

	WelcomeBorder  lipgloss.Style
	WelcomeTitle   lipgloss.Style
	WelcomeKey     lipgloss.Style
	WelcomeHeader  lipgloss.Style
	WelcomeVersion lipgloss.Style
}

// Dark returns the default theme.
func Dark() Theme {
	return newTheme(NameDark, darkPalette)
}

// Light returns the theme for light terminal backgrounds.
func Light() Theme {
	return newTheme(NameLight, lightPalette)
}

// ByName returns the named theme, falling back to Dark.
func ByName(name string) Theme {
	if name == NameLight {
		return Light()
	}
	return Dark()
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t.Name == NameLight {
		return Dark()
	}
	return Light()
}

func newTheme(name string, p palette) Theme {
	return Theme{
		Name: name,

		Title:       lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		Text:        lipgloss.NewStyle().Foreground(p.text),
		TextMuted:   lipgloss.NewStyle().Foreground(p.textMuted).Italic(true),
		TextBold:    lipgloss.NewStyle().Foreground(p.text).Bold(true),
		Code:        lipgloss.NewStyle().Foreground(p.code).Background(p.codeBg),
		Error:       lipgloss.NewStyle().Foreground(p.err),
		Footer:      lipgloss.NewStyle().Foreground(p.textMuted).Italic(true),
		Placeholder: lipgloss.NewStyle().Foreground(p.placeholder).Italic(true),
		Separator:   lipgloss.NewStyle().Foreground(p.border),

		UserLabel:      lipgloss.NewStyle().Foreground(p.user).Bold(true),
		AssistantLabel: lipgloss.NewStyle().Foreground(p.assistant).Bold(true),
		ErrorLabel:     lipgloss.NewStyle().Foreground(p.err).Bold(true),
		Selected:       lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		ActionHint:     lipgloss.NewStyle().Foreground(p.warning),

		StatusBar: lipgloss.NewStyle().
			Foreground(p.statusFg).
			Background(p.statusBg).
			Padding(0, 1).
			Bold(true),
		StatusTag: lipgloss.NewStyle().Foreground(p.textBright).Bold(true),

		WelcomeBorder:  lipgloss.NewStyle().Foreground(p.banner),
		WelcomeTitle:   lipgloss.NewStyle().Foreground(p.bannerTitle).Bold(true),
		WelcomeKey:     lipgloss.NewStyle().Foreground(p.bannerKey).Bold(true),
		WelcomeHeader:  lipgloss.NewStyle().Foreground(p.bannerHead),
		WelcomeVersion: lipgloss.NewStyle().Foreground(p.bannerDim),
	}
}
