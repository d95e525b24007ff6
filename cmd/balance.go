package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/theirongolddev/moneymike/internal/cli"
	"github.com/theirongolddev/moneymike/internal/ledger"
)

var balanceCmd = &cobra.Command{
	Use:   "balance [amount]",
	Short: "Show the balance, or set the available balance",
	Long: "Without arguments, print the actual balance and how it is derived. " +
		"With an amount, record it as the money currently available.",
	Example: "  moneymike balance 2500\n  moneymike balance -- -120.50",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runBalance,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func runBalance(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context(), os.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	if len(args) == 1 {
		bal, err := ledger.ParseBalance(args[0])
		if err != nil {
			return fmt.Errorf("balance %q: %w", args[0], err)
		}
		s.tracker.SetAvailable(bal)
		info("  Available balance set to %s\n", cli.FormatAmount(bal, s.currency()))
	}

	fmt.Println(cli.RenderBalance(s.tracker.Breakdown(), s.currency()))
	return nil
}
