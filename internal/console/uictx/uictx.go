// internal/console/uictx/uictx.go
// Package uictx carries UI state that every console component reads: the
// colour scheme and the screen currently shown. The root model owns one
// Context and hands the same pointer to each component it builds.
package uictx

import "github.com/charmbracelet/lipgloss"

// Routes the console can show.
const (
	RouteUsers    = "users"
	RouteFacebook = "facebook"
)

type Context struct {
	DarkMode bool
	Route    string
	Width    int
	Height   int
}

// New returns a Context on the users screen.
func New(dark bool) *Context {
	return &Context{DarkMode: dark, Route: RouteUsers}
}

// Navigate switches the current screen.
func (c *Context) Navigate(route string) { c.Route = route }

// ToggleDark flips the colour scheme.
func (c *Context) ToggleDark() { c.DarkMode = !c.DarkMode }

// Theme is the palette for the current colour scheme.
type Theme struct {
	Title    lipgloss.Style
	Dim      lipgloss.Style
	Help     lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Selected lipgloss.Style
	Border   lipgloss.Color
}

func (c *Context) Theme() Theme {
	if c == nil || c.DarkMode {
		return Theme{
			Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
			Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
			Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
			Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
			Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
			Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("236")),
			Border:   lipgloss.Color("240"),
		}
	}
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("25")),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("254")),
		Border:   lipgloss.Color("250"),
	}
}
