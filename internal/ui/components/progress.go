package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/haneol/mundap/internal/ui/theme"
)

// TurnProgress displays session progress as a segmented bar, one segment
// per turn.
type TurnProgress struct {
	Current  int
	MaxTurns int
	Width    int
}

// NewTurnProgress creates a turn progress bar.
func NewTurnProgress(current, maxTurns, width int) TurnProgress {
	return TurnProgress{Current: current, MaxTurns: maxTurns, Width: width}
}

// View renders the progress bar.
func (p TurnProgress) View() string {
	if p.MaxTurns <= 0 {
		return ""
	}

	label := lipgloss.NewStyle().
		Foreground(theme.Text).
		Render(fmt.Sprintf("진행 %d/%d  ", min(p.Current, p.MaxTurns), p.MaxTurns))

	barWidth := p.Width - lipgloss.Width(label)
	if barWidth < p.MaxTurns {
		barWidth = p.MaxTurns
	}
	segment := barWidth / p.MaxTurns

	var b strings.Builder
	for i := 1; i <= p.MaxTurns; i++ {
		style := theme.ProgressEmpty
		if i < p.Current {
			style = theme.ProgressFilled
		}
		b.WriteString(style.Render(strings.Repeat(" ", segment-1)))
		b.WriteString(" ")
	}

	return label + b.String()
}
