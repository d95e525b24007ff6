package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/theirongolddev/moneymike/internal/config"
	"github.com/theirongolddev/moneymike/internal/ledger"
	"github.com/theirongolddev/moneymike/internal/log"
	"github.com/theirongolddev/moneymike/internal/store"
	"github.com/theirongolddev/moneymike/internal/tracker"
)

var (
	flagDBPath  string
	flagKey     string
	flagEnvFile string
	flagQuiet   bool
)

var rootCmd = &cobra.Command{
	Use:          "moneymike",
	Short:        "Personal budget tracker",
	Long:         "Track your available balance, upcoming and budgeted expenses, and see what you can actually spend.",
	RunE:         runSummary,
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "SQLite database path (default from config)")
	rootCmd.PersistentFlags().StringVarP(&flagKey, "key", "k", "", "Storage key of the ledger slot (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Load environment overrides from this file if present")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress informational output")
}

// loadConfig reads the .env file, the config file and the environment, then
// applies command-line overrides.
func loadConfig() (config.Config, error) {
	if err := config.LoadEnvFile(flagEnvFile); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagDBPath != "" {
		cfg.General.DBPath = flagDBPath
	}
	if flagKey != "" {
		cfg.General.StorageKey = flagKey
	}
	return cfg, nil
}

func newLogger(cfg config.Config, out io.Writer) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.Log.Level),
		Component: log.ComponentApp,
		Output:    out,
	})
	log.SetDefault(logger)
	return logger
}

// session is an open ledger: config, database, and the tracker hosting it.
type session struct {
	cfg     config.Config
	log     *log.Logger
	store   *store.Store
	tracker *tracker.Tracker
}

// openSession loads configuration, opens the database and the ledger slot.
// Logs go to logOut.
func openSession(ctx context.Context, logOut io.Writer) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg, logOut)

	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return nil, err
	}

	slot := store.NewLedgerSlot(st, cfg.General.StorageKey, logger)
	tr := tracker.Open(ctx, slot, tracker.Options{
		Seed:   cfg.General.SeedDemo,
		Logger: logger,
	})

	return &session{cfg: cfg, log: logger, store: st, tracker: tr}, nil
}

func (s *session) currency() string {
	return s.cfg.General.Currency
}

// Close flushes pending writes and closes the database. A failed save is
// reported on stderr but is not an error of the command.
func (s *session) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.tracker.Close(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "  Warning: ledger not saved: %v\n", err)
	} else if err := s.tracker.LastSaveErr(); err != nil {
		fmt.Fprintf(os.Stderr, "  Warning: ledger not saved: %v\n", err)
	}
	_ = s.store.Close()
}

// resolveID expands an id prefix within collection k into a full id.
func (s *session) resolveID(k ledger.Kind, prefix string) (string, error) {
	id, err := s.tracker.Resolve(k, prefix)
	switch {
	case errors.Is(err, ledger.ErrNoMatch):
		return "", fmt.Errorf("no matching %s expense for %q", k, prefix)
	case errors.Is(err, ledger.ErrAmbiguous):
		return "", fmt.Errorf("%q matches more than one %s expense, use more characters", prefix, k)
	case err != nil:
		return "", err
	}
	return id, nil
}

// info prints to stdout unless --quiet.
func info(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Printf(format, args...)
}
