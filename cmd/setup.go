package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/theirongolddev/moneymike/internal/config"
	"github.com/theirongolddev/moneymike/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

// runSetupForm shows the wizard. Tests replace it.
var runSetupForm = func(vals *tui.SetupValues) error {
	return tui.NewSetupForm(vals).Run()
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	saved, err := setupWizard()
	if err != nil || !saved {
		return err
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `moneymike setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

// setupWizard edits the config file with the wizard and saves it. Flag and
// environment overrides are not written. It reports false when cancelled.
func setupWizard() (bool, error) {
	cfg, err := config.LoadFile()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	vals := tui.SetupValuesFrom(cfg)
	if err := runSetupForm(vals); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return false, nil
		}
		return false, fmt.Errorf("setup form: %w", err)
	}
	vals.Apply(&cfg)

	if err := config.Save(cfg); err != nil {
		return false, fmt.Errorf("saving config: %w", err)
	}
	return true, nil
}

// firstRunSetup runs the wizard when no config file exists yet, so the
// ledger is opened with the chosen storage key and seeding.
func firstRunSetup() error {
	if config.Exists() {
		return nil
	}
	_, err := setupWizard()
	return err
}
