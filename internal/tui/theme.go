package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

type ThemeName string

const (
	ThemeTide    ThemeName = "tide"
	ThemeEmber   ThemeName = "ember"
	ThemeNoColor ThemeName = "no-color"
)

// themeOrder is the cycle used by the theme-switch key.
var themeOrder = []ThemeName{ThemeTide, ThemeEmber, ThemeNoColor}

type Theme struct {
	Name ThemeName

	TextPrimary lipgloss.AdaptiveColor
	TextMuted   lipgloss.AdaptiveColor

	Accent   lipgloss.AdaptiveColor
	Success  lipgloss.AdaptiveColor
	Error    lipgloss.AdaptiveColor
	Border   lipgloss.AdaptiveColor
	BorderHi lipgloss.AdaptiveColor

	TopBar      lipgloss.Style
	TopBarTitle lipgloss.Style
	TopBarMeta  lipgloss.Style

	SessionItem    lipgloss.Style
	SessionCurrent lipgloss.Style

	RoleYou  lipgloss.Style
	RoleBot  lipgloss.Style
	Feedback lipgloss.Style

	InputBox lipgloss.Style
	Footer   lipgloss.Style
	Notice   lipgloss.Style
	Spinner  lipgloss.Style

	// Markdown accents consumed by the renderer.
	CodeFg     lipgloss.Color
	CodeBg     lipgloss.Color
	CodeBorder lipgloss.Color
	Heading    lipgloss.Color
	Bullet     lipgloss.Color
	Link       lipgloss.Color
}

// NewTheme resolves the startup theme: explicit name first, then the
// TIDECHAT_THEME env override, then the default.
func NewTheme(name string) Theme {
	resolved := ThemeName(name)
	if resolved == "" {
		resolved = ThemeName(os.Getenv("TIDECHAT_THEME"))
	}
	if os.Getenv("TIDECHAT_NO_COLOR") == "1" {
		resolved = ThemeNoColor
	}
	switch resolved {
	case ThemeEmber:
		return newEmberTheme()
	case ThemeNoColor:
		return newNoColorTheme()
	default:
		return newTideTheme()
	}
}

// NextTheme returns the theme following t in the cycle.
func NextTheme(t Theme) Theme {
	for i, name := range themeOrder {
		if name == t.Name {
			return NewTheme(string(themeOrder[(i+1)%len(themeOrder)]))
		}
	}
	return newTideTheme()
}

func (t *Theme) buildStyles() {
	t.TopBar = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.TopBarTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.TopBarMeta = lipgloss.NewStyle().Foreground(t.TextMuted)

	t.SessionItem = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.SessionCurrent = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)

	t.RoleYou = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.RoleBot = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.Feedback = lipgloss.NewStyle().Foreground(t.Success)

	t.InputBox = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.Border).Padding(0, 1)
	t.Footer = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.Notice = lipgloss.NewStyle().Bold(true).Foreground(t.Error)
	t.Spinner = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
}

func newTideTheme() Theme {
	t := Theme{
		Name:        ThemeTide,
		TextPrimary: lipgloss.AdaptiveColor{Light: "#15232d", Dark: "#e8f0f2"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#47606e", Dark: "#9fb4bd"},
		Accent:      lipgloss.AdaptiveColor{Light: "#0b7285", Dark: "#5bc8dd"},
		Success:     lipgloss.AdaptiveColor{Light: "#0f766e", Dark: "#46d1b7"},
		Error:       lipgloss.AdaptiveColor{Light: "#b42318", Dark: "#ff7a7a"},
		Border:      lipgloss.AdaptiveColor{Light: "#c3d4da", Dark: "#32444c"},
		BorderHi:    lipgloss.AdaptiveColor{Light: "#0b7285", Dark: "#5bc8dd"},

		CodeFg:     lipgloss.Color("#e8f0f2"),
		CodeBg:     lipgloss.Color("#1b2b33"),
		CodeBorder: lipgloss.Color("#32444c"),
		Heading:    lipgloss.Color("#5bc8dd"),
		Bullet:     lipgloss.Color("#46d1b7"),
		Link:       lipgloss.Color("#7aa2ff"),
	}
	t.buildStyles()
	return t
}

func newEmberTheme() Theme {
	t := Theme{
		Name:        ThemeEmber,
		TextPrimary: lipgloss.AdaptiveColor{Light: "#2d1b12", Dark: "#f5e9e0"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#6e5347", Dark: "#c2a898"},
		Accent:      lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#f4a261"},
		Success:     lipgloss.AdaptiveColor{Light: "#4d7c0f", Dark: "#a3d977"},
		Error:       lipgloss.AdaptiveColor{Light: "#b42318", Dark: "#ff7a7a"},
		Border:      lipgloss.AdaptiveColor{Light: "#dac3b3", Dark: "#4c3a2e"},
		BorderHi:    lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#f4a261"},

		CodeFg:     lipgloss.Color("#f5e9e0"),
		CodeBg:     lipgloss.Color("#2b211b"),
		CodeBorder: lipgloss.Color("#4c3a2e"),
		Heading:    lipgloss.Color("#f4a261"),
		Bullet:     lipgloss.Color("#a3d977"),
		Link:       lipgloss.Color("#e9c46a"),
	}
	t.buildStyles()
	return t
}

func newNoColorTheme() Theme {
	t := Theme{
		Name:        ThemeNoColor,
		TextPrimary: lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#333333", Dark: "#dddddd"},
		Accent:      lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"},
		Success:     lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"},
		Error:       lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"},
		Border:      lipgloss.AdaptiveColor{Light: "#555555", Dark: "#777777"},
		BorderHi:    lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"},

		CodeFg:     lipgloss.Color("#ffffff"),
		CodeBg:     lipgloss.Color("#000000"),
		CodeBorder: lipgloss.Color("#777777"),
		Heading:    lipgloss.Color("#ffffff"),
		Bullet:     lipgloss.Color("#ffffff"),
		Link:       lipgloss.Color("#ffffff"),
	}
	t.buildStyles()
	return t
}
