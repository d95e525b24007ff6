package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/theirongolddev/moneymike/internal/cli"
	"github.com/theirongolddev/moneymike/internal/ledger"
)

var rmCmd = &cobra.Command{
	Use:       "rm <future|budget|past> <id>",
	Aliases:   []string{"remove", "delete"},
	Short:     "Delete an expense",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"future", "budget", "past"},
	RunE:      runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	k, err := ledger.ParseKind(args[0])
	if err != nil {
		return fmt.Errorf("%w: %q", err, args[0])
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
	if !s.tracker.Remove(k, id) {
		return fmt.Errorf("no matching %s expense for %q", k, args[1])
	}

	info("  Removed %s expense %s\n", k, cli.ShortID(id))
	info("  Actual balance: %s\n", cli.FormatAmount(s.tracker.Breakdown().Actual, s.currency()))
	return nil
}
