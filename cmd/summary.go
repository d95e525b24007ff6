package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/theirongolddev/moneymike/internal/cli"
	"github.com/theirongolddev/moneymike/internal/ledger"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the actual balance and every expense",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd.Context(), os.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.tracker.Fresh() && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Started a new ledger under %q\n", s.cfg.General.StorageKey)
	}

	state := s.tracker.State()

	fmt.Println()
	fmt.Println(cli.RenderTitle("MONEY MIKE"))
	fmt.Println(cli.RenderBalance(state.Breakdown(), s.currency()))
	fmt.Println()

	for _, k := range ledger.Kinds {
		fmt.Print(cli.RenderTable(expenseTable(state, k, s.currency())))
		fmt.Println()
	}
	return nil
}

// expenseTable lays out one collection. Paid entries are dimmed, overspent
// budgets highlighted. Ids are shown just long enough to be told apart.
func expenseTable(s ledger.State, k ledger.Kind, currency string) cli.Table {
	t := cli.Table{Title: k.Title(), LeftCols: 2}
	idw := cli.IDWidth(s.IDs(k))

	dimIf := func(paid bool, cells []string) []string {
		if !paid {
			return cells
		}
		for i := range cells {
			cells[i] = cli.Dim(cells[i])
		}
		return cells
	}

	switch k {
	case ledger.Future:
		t.Headers = []string{"ID", "Name", "Amount", "Due", "Status"}
		for _, e := range s.FutureExpenses {
			status := "due"
			if e.Paid {
				status = "paid"
			}
			t.Rows = append(t.Rows, dimIf(e.Paid, []string{
				cli.ShortIDWidth(e.ID, idw), e.Name, cli.FormatAmount(e.Amount, currency), cli.FormatDay(e.DueDay), status,
			}))
		}
	case ledger.Budget:
		t.Headers = []string{"ID", "Name", "Amount", "Used", "Left", "Usage", "Status"}
		for _, e := range s.BudgetedExpenses {
			status := ""
			if e.Paid {
				status = "paid"
			}
			left := cli.FormatAmount(e.Remaining(), currency)
			if e.Remaining().IsNegative() && !e.Paid {
				left = cli.Warn(left)
			}
			t.Rows = append(t.Rows, dimIf(e.Paid, []string{
				cli.ShortIDWidth(e.ID, idw), e.Name,
				cli.FormatAmount(e.Amount, currency),
				cli.FormatAmount(e.Used, currency),
				left,
				cli.RenderUsageBar(e.Used, e.Amount, 10) + " " + cli.FormatPercent(cli.UsedRatio(e.Used, e.Amount)),
				status,
			}))
		}
	case ledger.Past:
		t.Headers = []string{"ID", "Name", "Amount", "Day", "Note"}
		for _, e := range s.PastExpenses {
			note := ""
			if e.Paid {
				note = "paid"
			}
			t.Rows = append(t.Rows, []string{
				cli.ShortIDWidth(e.ID, idw), e.Name, cli.FormatAmount(e.Amount, currency), cli.FormatDay(e.DueDay), note,
			})
		}
	}

	if len(t.Rows) == 0 {
		t.Rows = [][]string{{"-", "none"}}
	}
	return t
}
