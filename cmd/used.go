package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/theirongolddev/moneymike/internal/cli"
	"github.com/theirongolddev/moneymike/internal/ledger"
)

var usedCmd = &cobra.Command{
	Use:     "used <id> <amount>",
	Short:   "Set how much of a budget has been used",
	Example: "  moneymike used 3f2a 250",
	Args:    cobra.ExactArgs(2),
	RunE:    runUsed,
}

func init() {
	rootCmd.AddCommand(usedCmd)
}

func runUsed(cmd *cobra.Command, args []string) error {
	used, err := ledger.ParseAmount(args[1])
	if err != nil {
		return fmt.Errorf("used %q: %w", args[1], err)
	}

	s, err := openSession(cmd.Context(), os.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := s.resolveID(ledger.Budget, args[0])
	if err != nil {
		return err
	}
	if !s.tracker.UpdateUsed(id, used) {
		return fmt.Errorf("no matching budget expense for %q", args[0])
	}

	info("  Budget %s used: %s\n", cli.ShortID(id), cli.FormatAmount(used, s.currency()))
	info("  Actual balance: %s\n", cli.FormatAmount(s.tracker.Breakdown().Actual, s.currency()))
	return nil
}
