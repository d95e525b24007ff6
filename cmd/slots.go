package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/theirongolddev/moneymike/internal/cli"
	"github.com/theirongolddev/moneymike/internal/store"
)

var flagSlotsYes bool

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "List the ledgers stored in the database",
	Args:  cobra.NoArgs,
	RunE:  runSlots,
}

var slotsRmCmd = &cobra.Command{
	Use:   "rm <key>",
	Short: "Delete a stored ledger",
	Args:  cobra.ExactArgs(1),
	RunE:  runSlotsRm,
}

func init() {
	slotsRmCmd.Flags().BoolVarP(&flagSlotsYes, "yes", "y", false, "Do not ask for confirmation")
	slotsCmd.AddCommand(slotsRmCmd)
	rootCmd.AddCommand(slotsCmd)
}

func runSlots(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	keys, err := st.Keys(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing slots: %w", err)
	}

	t := cli.Table{
		Title:    "Stored ledgers in " + cfg.DBPath(),
		Headers:  []string{"Key", "Saved", ""},
		LeftCols: 3,
	}
	for _, k := range keys {
		at, _, err := st.UpdatedAt(cmd.Context(), k)
		if err != nil {
			return fmt.Errorf("reading slot %q: %w", k, err)
		}
		mark := ""
		if k == cfg.General.StorageKey {
			mark = "active"
		}
		t.Rows = append(t.Rows, []string{k, cli.FormatAge(at), mark})
	}
	if len(t.Rows) == 0 {
		t.Rows = [][]string{{"none"}}
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(t))
	return nil
}

func runSlotsRm(cmd *cobra.Command, args []string) error {
	key := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if _, ok, err := st.Get(cmd.Context(), key); err != nil {
		return fmt.Errorf("reading slot %q: %w", key, err)
	} else if !ok {
		return fmt.Errorf("no stored ledger under %q", key)
	}

	if !flagSlotsYes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete the ledger stored under %q?", key)).
			Description("This cannot be undone.").
			Value(&confirmed).
			Run()
		if errors.Is(err, huh.ErrUserAborted) || (err == nil && !confirmed) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("confirm: %w", err)
		}
	}

	if err := st.Delete(cmd.Context(), key); err != nil {
		return fmt.Errorf("deleting slot %q: %w", key, err)
	}
	info("  Deleted ledger %q\n", key)
	return nil
}
