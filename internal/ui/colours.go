package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Standard colors
	Red     = lipgloss.Color("1")
	Green   = lipgloss.Color("2")
	Yellow  = lipgloss.Color("3")
	Blue    = lipgloss.Color("4")
	Magenta = lipgloss.Color("5")
	Cyan    = lipgloss.Color("6")
	Orange  = lipgloss.Color("208")
	Gray    = lipgloss.Color("8") // Bright black, often appears as gray
)

var methodColors = map[string]lipgloss.Color{
	"GET":    Green,
	"POST":   Blue,
	"PUT":    Cyan,
	"DELETE": Yellow,
	"PATCH":  Magenta,
}

// statusColors follows the member-status pills: green active, orange expiring, red expired.
var statusColors = map[string]lipgloss.Color{
	"active":   Green,
	"expiring": Orange,
	"expired":  Red,
}

// Method renders an HTTP method padded to a fixed width.
func Method(method string) string {
	color, ok := methodColors[method]
	if !ok {
		color = Gray
	}
	return lipgloss.NewStyle().Foreground(color).Width(7).Render(method)
}

// Status renders a member status in its pill colour.
func Status(status string) string {
	return Colored(status, status)
}

// Colored renders text in the colour of the given member status.
func Colored(text, status string) string {
	color, ok := statusColors[status]
	if !ok {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

// Error renders an error line.
func Error(msg string) string {
	return lipgloss.NewStyle().Foreground(Red).Render(msg)
}

// Bold renders a heading.
func Bold(s string) string {
	return lipgloss.NewStyle().Bold(true).Render(s)
}
