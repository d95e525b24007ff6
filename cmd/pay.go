package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/theirongolddev/moneymike/internal/cli"
	"github.com/theirongolddev/moneymike/internal/ledger"
)

var payCmd = &cobra.Command{
	Use:   "pay <future|budget> <id>",
	Short: "Mark an expense as paid",
	Long: "Mark an expense as paid. A future expense moves to the past expenses; " +
		"a budget stays where it is and no longer counts against the actual balance.",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"future", "budget"},
	RunE:      runPay,
}

func init() {
	rootCmd.AddCommand(payCmd)
}

func runPay(cmd *cobra.Command, args []string) error {
	k, err := ledger.ParseKind(args[0])
	if err != nil {
		return fmt.Errorf("%w: %q", err, args[0])
	}
	if !k.Payable() {
		return fmt.Errorf("%s expenses cannot be paid", k)
	}

	s, err := openSession(cmd.Context(), os.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := s.resolveID(k, args[1])
	if err != nil {
		return err
	}
	if !s.tracker.MarkPaid(k, id) {
		return fmt.Errorf("no matching %s expense for %q", k, args[1])
	}

	info("  Paid %s expense %s\n", k, cli.ShortID(id))
	info("  Actual balance: %s\n", cli.FormatAmount(s.tracker.Breakdown().Actual, s.currency()))
	return nil
}
