// Package ui renders tracker state for the terminal.
package ui

import (
	"sort"

	"github.com/amaumene/mediatrakker/internal/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Theme is one of the selectable color palettes
type Theme struct {
	Name        models.ThemeName
	DisplayName string
	Dark        bool

	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Danger  lipgloss.Color
}

var themes = []Theme{
	{
		Name:        models.ThemeDark,
		DisplayName: "Dark Mode",
		Dark:        true,
		Accent:      lipgloss.Color("#3B82F6"),
		Text:        lipgloss.Color("#F9FAFB"),
		Muted:       lipgloss.Color("#9CA3AF"),
		Success:     lipgloss.Color("#10B981"),
		Danger:      lipgloss.Color("#EF4444"),
	},
	{
		Name:        models.ThemeLight,
		DisplayName: "Light Mode",
		Dark:        false,
		Accent:      lipgloss.Color("#3B82F6"),
		Text:        lipgloss.Color("#111827"),
		Muted:       lipgloss.Color("#6B7280"),
		Success:     lipgloss.Color("#059669"),
		Danger:      lipgloss.Color("#DC2626"),
	},
	{
		Name:        models.ThemeBlue,
		DisplayName: "Ocean Blue",
		Dark:        true,
		Accent:      lipgloss.Color("#0EA5E9"),
		Text:        lipgloss.Color("#F0F9FF"),
		Muted:       lipgloss.Color("#7DD3FC"),
		Success:     lipgloss.Color("#10B981"),
		Danger:      lipgloss.Color("#EF4444"),
	},
	{
		Name:        models.ThemeEmerald,
		DisplayName: "Forest Green",
		Dark:        true,
		Accent:      lipgloss.Color("#10B981"),
		Text:        lipgloss.Color("#ECFDF5"),
		Muted:       lipgloss.Color("#6EE7B7"),
		Success:     lipgloss.Color("#34D399"),
		Danger:      lipgloss.Color("#EF4444"),
	},
	{
		Name:        models.ThemePurple,
		DisplayName: "Royal Purple",
		Dark:        true,
		Accent:      lipgloss.Color("#8B5CF6"),
		Text:        lipgloss.Color("#F5F3FF"),
		Muted:       lipgloss.Color("#C4B5FD"),
		Success:     lipgloss.Color("#10B981"),
		Danger:      lipgloss.Color("#EF4444"),
	},
}

// Themes returns every palette in selection order
func Themes() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

// ThemeFor returns the palette for name, or the default palette when the
// name is unknown.
func ThemeFor(name models.ThemeName) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}

// SuggestTheme returns the theme whose name or display name best matches
// input, for "did you mean" hints.
func SuggestTheme(input string) (models.ThemeName, bool) {
	if input == "" {
		return "", false
	}
	targets := make([]string, 0, 2*len(themes))
	for _, t := range themes {
		targets = append(targets, string(t.Name))
	}
	for _, t := range themes {
		targets = append(targets, t.DisplayName)
	}

	ranks := fuzzy.RankFindNormalizedFold(input, targets)
	if len(ranks) == 0 {
		return "", false
	}
	sort.Sort(ranks)
	return themes[ranks[0].OriginalIndex%len(themes)].Name, true
}

// Styles are the lipgloss styles derived from a theme
type Styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Text    lipgloss.Style
	Dim     lipgloss.Style
	Accent  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Badge   lipgloss.Style
	Panel   lipgloss.Style
}

// NewStyles builds the styles for t
func NewStyles(t Theme) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true),

		Header: lipgloss.NewStyle().
			Foreground(t.Text).
			Bold(true).
			Underline(true),

		Text: lipgloss.NewStyle().
			Foreground(t.Text),

		Dim: lipgloss.NewStyle().
			Foreground(t.Muted),

		Accent: lipgloss.NewStyle().
			Foreground(t.Accent),

		Success: lipgloss.NewStyle().
			Foreground(t.Success),

		Error: lipgloss.NewStyle().
			Foreground(t.Danger),

		Badge: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Accent).
			Padding(0, 1),
	}
}
