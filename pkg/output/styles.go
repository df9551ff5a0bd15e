package output

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ajxudir/turboncu/pkg/check"
)

var (
	Red    = lipgloss.Color("1")
	Green  = lipgloss.Color("2")
	Yellow = lipgloss.Color("3")
	Cyan   = lipgloss.Color("6")

	Bold    = lipgloss.NewStyle().Bold(true)
	Dim     = lipgloss.NewStyle().Faint(true)
	Success = lipgloss.NewStyle().Foreground(Green)
	Info    = lipgloss.NewStyle().Foreground(Cyan)
	Failure = lipgloss.NewStyle().Foreground(Red)
)

// StyleFor returns the colour used for a range of the given update type:
// red for major, cyan for minor, green for patch and yellow otherwise.
func StyleFor(t check.UpdateType) lipgloss.Style {
	switch t {
	case check.UpdateMajor:
		return lipgloss.NewStyle().Foreground(Red)
	case check.UpdateMinor:
		return lipgloss.NewStyle().Foreground(Cyan)
	case check.UpdatePatch:
		return lipgloss.NewStyle().Foreground(Green)
	default:
		return lipgloss.NewStyle().Foreground(Yellow)
	}
}
