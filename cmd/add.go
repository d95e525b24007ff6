package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/theirongolddev/moneymike/internal/cli"
	"github.com/theirongolddev/moneymike/internal/ledger"
	"github.com/theirongolddev/moneymike/internal/tui"
)

var (
	flagAddName   string
	flagAddAmount string
	flagAddDay    string
	flagAddUsed   string
)

var addCmd = &cobra.Command{
	Use:       "add <future|budget|past>",
	Short:     "Add an expense",
	Long:      "Add an expense to a collection. Without --name and --amount an interactive form is shown.",
	Example:   "  moneymike add future --name Rent --amount 12000 --day 25\n  moneymike add budget --name Groceries --amount 3000",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"future", "budget", "past"},
	RunE:      runAdd,
}

func init() {
	addCmd.Flags().StringVar(&flagAddName, "name", "", "Expense name")
	addCmd.Flags().StringVar(&flagAddAmount, "amount", "", "Amount, e.g. 499.99")
	addCmd.Flags().StringVar(&flagAddDay, "day", "", "Day of the month, 1-31 (future and past)")
	addCmd.Flags().StringVar(&flagAddUsed, "used", "", "Amount already used (budget)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	k, err := ledger.ParseKind(args[0])
	if err != nil {
		return fmt.Errorf("%w: %q", err, args[0])
	}

	vals := &tui.DraftValues{
		Name:   flagAddName,
		Amount: flagAddAmount,
		Day:    flagAddDay,
		Used:   flagAddUsed,
	}
	if vals.Name == "" || vals.Amount == "" {
		if err := tui.NewDraftForm(k, vals).Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("add form: %w", err)
		}
	}

	// fields that do not apply to the collection are ignored
	if k == ledger.Budget {
		vals.Day = ""
	} else {
		vals.Used = ""
	}

	d, err := vals.Draft()
	if err != nil {
		return fmt.Errorf("invalid expense: %w", err)
	}

	s, err := openSession(cmd.Context(), os.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	id, ok := s.tracker.Add(k, d)
	if !ok {
		return fmt.Errorf("expense %q was not added", d.Name)
	}

	info("  Added %s expense %s (%s) for %s\n", k, d.Name, cli.ShortID(id), cli.FormatAmount(d.Amount, s.currency()))
	info("  Actual balance: %s\n", cli.FormatAmount(s.tracker.Breakdown().Actual, s.currency()))
	return nil
}
