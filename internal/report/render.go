package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/contactkeval/range-touch/internal/simulation"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Width(22)
	valueStyle = lipgloss.NewStyle().Bold(true)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Render formats s as a boxed block for terminal output.
func Render(s *Summary) string {
	p := s.Params
	lines := []string{
		titleStyle.Render(fmt.Sprintf("Range touch: %d paths over %d days", s.TotalPaths, p.Days)),
		row("Start price", fmt.Sprintf("%.2f", p.CurrentPrice)),
		row("ATR", fmt.Sprintf("%.4f", p.ATR)),
		row("Seed", fmt.Sprintf("%d", s.Seed)),
		"",
		row("Either bound", pct(s.Either)),
		row("Neither bound", s.Neither.String()+"%"),
		"",
		bound("Upper", s.Upper),
		"",
		bound("Lower", s.Lower),
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func bound(name string, b BoundSummary) string {
	return strings.Join([]string{
		titleStyle.Render(fmt.Sprintf("%s bound (%s)", name, b.Price.String())),
		row("Hit probability", pct(b.Hit)),
		row("Reflection estimate", b.Reflection.String()+"%"),
		row("Days to target", days(b.DaysToTarget)),
	}, "\n")
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
}

func pct(e Estimate) string {
	return fmt.Sprintf("%s%% [%s, %s] (%d paths)", e.Percent.String(), e.Low.String(), e.High.String(), e.Paths)
}

func days(t simulation.TargetStats) string {
	return fmt.Sprintf("min %.0f  avg %.1f  median %.1f  max %.0f", t.Min, t.Avg, t.Median, t.Max)
}
