// Package cmd implements the moneymike CLI commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/theirongolddev/moneymike/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Database:    %s\n", cfg.DBPath())
	fmt.Printf("    Storage key: %s\n", cfg.General.StorageKey)
	fmt.Printf("    Currency:    %s\n", cfg.General.Currency)
	fmt.Printf("    Seed demo:   %v\n", cfg.General.SeedDemo)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:  %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval: %ds\n", cfg.Daemon.IntervalSec)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s\n", cfg.Log.Level)
	fmt.Printf("    File:  %s (tui)\n", cfg.LogFile())
	fmt.Println()

	fmt.Printf("  Environment overrides: %s, %s, %s, %s\n",
		config.EnvDBPath, config.EnvStorageKey, config.EnvCurrency, config.EnvLogLevel)
	fmt.Println("  Run `moneymike setup` to reconfigure.")
	return nil
}
