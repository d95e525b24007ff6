package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/theirongolddev/moneymike/internal/cli"
	"github.com/theirongolddev/moneymike/internal/ledger"
	"github.com/theirongolddev/moneymike/internal/tui/components"
	"github.com/theirongolddev/moneymike/internal/tui/theme"
)

// row is one rendered expense. Rows keep the order of their collection.
type row struct {
	id     string
	name   string
	amount string
	day    string // due day or day of month
	status string
	paid   bool

	// budgets only
	used      decimal.Decimal
	total     decimal.Decimal
	remaining string
}

func buildRows(s ledger.State, k ledger.Kind, currency string) []row {
	var rows []row
	switch k {
	case ledger.Future:
		for _, e := range s.FutureExpenses {
			status := "due"
			if e.Paid {
				status = "paid"
			}
			rows = append(rows, row{
				id:     e.ID,
				name:   e.Name,
				amount: cli.FormatAmount(e.Amount, currency),
				day:    cli.FormatDay(e.DueDay),
				status: status,
				paid:   e.Paid,
			})
		}
	case ledger.Budget:
		for _, e := range s.BudgetedExpenses {
			status := ""
			if e.Paid {
				status = "paid"
			}
			rows = append(rows, row{
				id:        e.ID,
				name:      e.Name,
				amount:    cli.FormatAmount(e.Amount, currency),
				status:    status,
				paid:      e.Paid,
				used:      e.Used,
				total:     e.Amount,
				remaining: cli.FormatAmount(e.Remaining(), currency),
			})
		}
	case ledger.Past:
		for _, e := range s.PastExpenses {
			status := ""
			if e.Paid {
				status = "paid"
			}
			rows = append(rows, row{
				id:     e.ID,
				name:   e.Name,
				amount: cli.FormatAmount(e.Amount, currency),
				day:    cli.FormatDay(e.DueDay),
				status: status,
				paid:   e.Paid,
			})
		}
	}
	return rows
}

type column struct {
	title string
	width int
	right bool
}

func columnsFor(k ledger.Kind, cw, idW int) []column {
	const (
		amountW = 14
		dayW    = 5
		statusW = 5
		barW    = 18
	)

	var cols []column
	switch k {
	case ledger.Budget:
		cols = []column{
			{title: "ID", width: idW},
			{title: "Name"},
			{title: "Amount", width: amountW, right: true},
			{title: "Used", width: amountW, right: true},
			{title: "Left", width: amountW, right: true},
			{title: "Usage", width: barW},
			{title: "", width: statusW},
		}
	case ledger.Future:
		cols = []column{
			{title: "ID", width: idW},
			{title: "Name"},
			{title: "Amount", width: amountW, right: true},
			{title: "Due", width: dayW, right: true},
			{title: "", width: statusW},
		}
	default:
		cols = []column{
			{title: "ID", width: idW},
			{title: "Name"},
			{title: "Amount", width: amountW, right: true},
			{title: "Day", width: dayW, right: true},
			{title: "", width: statusW},
		}
	}

	// name takes what is left: two leading spaces plus one separator per column
	used := 2 + len(cols)
	for _, c := range cols {
		used += c.width
	}
	cols[1].width = cw - used
	if cols[1].width < 8 {
		cols[1].width = 8
	}
	return cols
}

func (r row) cells(k ledger.Kind, currency string, idW int) []string {
	id := cli.ShortIDWidth(r.id, idW)
	switch k {
	case ledger.Budget:
		return []string{id, r.name, r.amount, cli.FormatAmount(r.used, currency), r.remaining, "", r.status}
	default:
		return []string{id, r.name, r.amount, r.day, r.status}
	}
}

func (a App) renderList(state ledger.State, cw, h int) string {
	t := theme.Active
	k := a.kind()
	rows := buildRows(state, k, a.currency)
	idW := cli.IDWidth(state.IDs(k))
	cols := columnsFor(k, cw, idW)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Italic(true)

	var b strings.Builder
	b.WriteString("\n")

	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
	}
	b.WriteString(headerStyle.Render(formatLine(cols, titles)))
	b.WriteString("\n")

	if len(rows) == 0 {
		b.WriteString(emptyStyle.Render("  No " + strings.ToLower(k.Title()) + " yet."))
		return b.String()
	}

	// keep the cursor visible
	visible := h - 2
	if visible < 1 {
		visible = 1
	}
	cursor := a.cursor[a.activeTab]
	offset := 0
	if cursor >= visible {
		offset = cursor - visible + 1
	}

	for i := offset; i < len(rows) && i < offset+visible; i++ {
		r := rows[i]

		style := lipgloss.NewStyle().Foreground(t.TextPrimary)
		if r.paid {
			style = style.Foreground(t.TextDim)
		}
		if i == cursor {
			style = style.Background(t.SurfaceHover).Bold(true)
		}

		cells := r.cells(k, a.currency, idW)
		line := style.Render(formatLine(cols, cells))
		if k == ledger.Budget {
			// splice the usage bar into its column
			barCol := len(cols) - 2
			before := formatLine(cols[:barCol], cells[:barCol])
			after := formatLine(cols[barCol+1:], cells[barCol+1:])
			bar := components.UsageBar(cli.UsedRatio(r.used, r.total), cols[barCol].width-5)
			line = style.Render(before+" ") + bar + style.Render(" "+strings.TrimPrefix(after, "  "))
		}
		b.WriteString(line)
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// formatLine lays out cells in fixed-width columns with a two-space indent.
func formatLine(cols []column, cells []string) string {
	var b strings.Builder
	b.WriteString("  ")
	for i, c := range cols {
		cell := ""
		if i < len(cells) {
			cell = truncStr(cells[i], c.width)
		}
		pad := c.width - lipgloss.Width(cell)
		if pad < 0 {
			pad = 0
		}
		if c.right {
			b.WriteString(strings.Repeat(" ", pad) + cell)
		} else {
			b.WriteString(cell + strings.Repeat(" ", pad))
		}
		if i < len(cols)-1 {
			b.WriteString(" ")
		}
	}
	return b.String()
}
