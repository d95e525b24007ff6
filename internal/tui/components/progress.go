package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/moneymike/internal/tui/theme"
)

// ColorForUsage returns the bar color for a budget usage ratio. Ratios above
// one mean the budget is overspent.
func ColorForUsage(ratio float64) lipgloss.Color {
	t := theme.Active
	switch {
	case ratio > 1:
		return t.Overspent
	case ratio >= 0.9:
		return t.Behind
	case ratio >= 0.5:
		return t.Info
	default:
		return t.Ahead
	}
}

// UsageBar renders a budget's used/amount ratio as a bar followed by a
// percentage. The bar is capped at full; the percentage is not.
func UsageBar(ratio float64, width int) string {
	t := theme.Active
	if ratio < 0 {
		ratio = 0
	}
	if width < 4 {
		width = 4
	}

	color := ColorForUsage(ratio)
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	shown := ratio
	if shown > 1 {
		shown = 1
	}

	pctStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	return bar.ViewAs(shown) + " " + pctStyle.Render(fmt.Sprintf("%3.0f%%", ratio*100))
}
