package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/theirongolddev/moneymike/internal/config"
	"github.com/theirongolddev/moneymike/internal/tui/theme"
)

// Currencies offered by the setup wizard. Any ISO code can still be set in
// config.toml or through MONEYMIKE_CURRENCY.
var Currencies = []string{"ZAR", "USD", "EUR", "GBP", "AUD", "CAD", "NZD", "JPY"}

// SetupValues holds the answers of the setup wizard.
type SetupValues struct {
	Currency   string
	Theme      string
	StorageKey string
	SeedDemo   bool
}

// SetupValuesFrom prefills the wizard from cfg.
func SetupValuesFrom(cfg config.Config) *SetupValues {
	return &SetupValues{
		Currency:   strings.ToUpper(cfg.General.Currency),
		Theme:      cfg.Appearance.Theme,
		StorageKey: cfg.General.StorageKey,
		SeedDemo:   cfg.General.SeedDemo,
	}
}

// Apply copies the answers into cfg.
func (v *SetupValues) Apply(cfg *config.Config) {
	v.ApplyDisplay(cfg)
	if key := strings.TrimSpace(v.StorageKey); key != "" {
		cfg.General.StorageKey = key
	}
	cfg.General.SeedDemo = v.SeedDemo
}

// ApplyDisplay copies only the display answers, currency and theme, into cfg.
func (v *SetupValues) ApplyDisplay(cfg *config.Config) {
	cfg.General.Currency = v.Currency
	cfg.Appearance.Theme = v.Theme
}

// NewSetupForm builds the first-run wizard bound to vals.
func NewSetupForm(vals *SetupValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to moneymike").
				Description("Track what you have, what's coming, and what's budgeted."),
			currencySelect(vals),
			themeSelect(vals),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Storage key").
				Description("Name of the slot the ledger is saved under.").
				Value(&vals.StorageKey).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("storage key cannot be empty")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Start new ledgers with example expenses?").
				Value(&vals.SeedDemo),
		),
	).WithTheme(huh.ThemeCharm())
}

// NewSettingsForm edits the display settings of a running session.
// The ledger slot is chosen at startup and cannot change here.
func NewSettingsForm(vals *SetupValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Settings").
				Description("Storage key and demo data are set with `moneymike setup`."),
			currencySelect(vals),
			themeSelect(vals),
		),
	).WithTheme(huh.ThemeCharm())
}

func currencySelect(vals *SetupValues) *huh.Select[string] {
	opts := make([]huh.Option[string], 0, len(Currencies)+1)
	known := false
	for _, c := range Currencies {
		opts = append(opts, huh.NewOption(c, c))
		if c == vals.Currency {
			known = true
		}
	}
	if !known && vals.Currency != "" {
		opts = append(opts, huh.NewOption(vals.Currency, vals.Currency))
	}

	return huh.NewSelect[string]().
		Title("Currency").
		Description("Used to display amounts.").
		Options(opts...).
		Value(&vals.Currency)
}

func themeSelect(vals *SetupValues) *huh.Select[string] {
	opts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		opts = append(opts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewSelect[string]().
		Title("Color theme").
		Options(opts...).
		Value(&vals.Theme)
}
