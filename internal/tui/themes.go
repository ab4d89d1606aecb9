package tui

import "github.com/charmbracelet/lipgloss"

// Theme is the dashboard palette. Revenue up and down share the colours used
// for the comparison delta.
type Theme struct {
	Name            string
	PrimaryAccent   string // titles, active tab, period A
	SecondaryAccent string // picker border, period B
	PositiveText    string // forecast bars and growth
	NegativeText    string // decline and load errors
	LabelText       string
	MutedText       string // closed days, inactive dots
	Border          string
	SelectedBg      string // highlighted item in the picker
}

var Themes = map[string]Theme{
	"default": {
		Name:            "Espresso",
		PrimaryAccent:   "#c8a27a", // crema
		SecondaryAccent: "#8c5a3c", // dark roast
		PositiveText:    "#a3be8c",
		NegativeText:    "#d0705c",
		LabelText:       "#7a6a5c",
		MutedText:       "#9c8c7c",
		Border:          "#6f4e37", // coffee
		SelectedBg:      "#2b211c",
	},
	"matcha": {
		Name:            "Matcha",
		PrimaryAccent:   "#8fb56b",
		SecondaryAccent: "#d9c89e", // oat milk
		PositiveText:    "#b5d98a",
		NegativeText:    "#e07a5f",
		LabelText:       "#6b7a5e",
		MutedText:       "#97a38a",
		Border:          "#5e7d46",
		SelectedBg:      "#232b1e",
	},
	"gruvbox": {
		Name:            "Gruvbox",
		PrimaryAccent:   "#d65d0e",
		SecondaryAccent: "#b16286",
		PositiveText:    "#98971a",
		NegativeText:    "#cc241d",
		LabelText:       "#928374",
		MutedText:       "#a89984",
		Border:          "#458588",
		SelectedBg:      "#3c3836",
	},
	"catppuccin": {
		Name:            "Catppuccin",
		PrimaryAccent:   "#cba6f7", // mauve
		SecondaryAccent: "#fab387", // peach
		PositiveText:    "#a6e3a1",
		NegativeText:    "#f38ba8",
		LabelText:       "#6c7086",
		MutedText:       "#9399b2",
		Border:          "#89b4fa",
		SelectedBg:      "#313244",
	},
}

// ThemeNames is the order `t` cycles through.
var ThemeNames = []string{"default", "matcha", "gruvbox", "catppuccin"}

// CurrentTheme holds the active theme
var CurrentTheme = Themes["default"]

var currentThemeName = "default"

// SetTheme updates the current theme and regenerates all styles
func SetTheme(name string) {
	if theme, ok := Themes[name]; ok {
		CurrentTheme = theme
		currentThemeName = name
		regenerateStyles()
	}
}

// NextTheme switches to the theme after the current one and returns its key.
func NextTheme() string {
	for i, name := range ThemeNames {
		if name == currentThemeName {
			next := ThemeNames[(i+1)%len(ThemeNames)]
			SetTheme(next)
			return next
		}
	}
	SetTheme(ThemeNames[0])
	return ThemeNames[0]
}

var (
	titleStyle       lipgloss.Style
	tabStyle         lipgloss.Style
	activeTabStyle   lipgloss.Style
	statLabelStyle   lipgloss.Style
	statValueStyle   lipgloss.Style
	boxStyle         lipgloss.Style
	graphStyle       lipgloss.Style
	periodBStyle     lipgloss.Style
	gapStyle         lipgloss.Style
	positiveStyle    lipgloss.Style
	negativeStyle    lipgloss.Style
	searchBoxStyle   lipgloss.Style
	selectedRowStyle lipgloss.Style
	rowStyle         lipgloss.Style
	helpStyle        lipgloss.Style
)

// regenerateStyles updates all lipgloss styles with current theme colors
func regenerateStyles() {
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(CurrentTheme.PrimaryAccent)).
		MarginBottom(1)

	tabStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(CurrentTheme.LabelText)).
		Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(CurrentTheme.PrimaryAccent)).
		Background(lipgloss.Color(CurrentTheme.SelectedBg)).
		Padding(0, 2)

	statLabelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(CurrentTheme.LabelText))

	statValueStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(CurrentTheme.PositiveText))

	boxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(CurrentTheme.Border)).
		Padding(1, 2)

	graphStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(CurrentTheme.PrimaryAccent))

	periodBStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(CurrentTheme.SecondaryAccent))

	gapStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(CurrentTheme.MutedText))

	positiveStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(CurrentTheme.PositiveText))

	negativeStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(CurrentTheme.NegativeText))

	searchBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(CurrentTheme.SecondaryAccent)).
		Padding(0, 1)

	selectedRowStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(CurrentTheme.PositiveText)).
		Background(lipgloss.Color(CurrentTheme.SelectedBg))

	rowStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(CurrentTheme.MutedText))

	helpStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(CurrentTheme.LabelText)).
		MarginTop(1)
}

// Initialize styles with default theme
func init() {
	regenerateStyles()
}
