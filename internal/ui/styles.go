package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// ANSI palette shared by list and graph output.
const (
	SectionHex = "14" // bright cyan
	KeyHex     = "13" // bright magenta
	DetailHex  = "8"  // bright black
	OkHex      = "2"  // green
	WarnHex    = "3"  // yellow
	FailHex    = "1"  // red
)

var (
	SectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(SectionHex)).Bold(true)
	KeyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(KeyHex))
	DetailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(DetailHex))
	OkStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(OkHex))
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(WarnHex))
	FailStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(FailHex))

	// BoxStyle frames a summary block.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(DetailHex)).
			Padding(0, 1)
)

// Box frames content with a title line.
func Box(title, content string) string {
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, SectionStyle.Render(title), content))
}
