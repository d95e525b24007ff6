package tui

import (
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/theirongolddev/moneymike/internal/ledger"
)

// DraftValues holds the raw answers of the add-expense form.
type DraftValues struct {
	Name   string
	Amount string
	Day    string
	Used   string
}

// Draft parses the answers into a validated ledger draft.
func (v *DraftValues) Draft() (ledger.Draft, error) {
	return ledger.ParseDraft(v.Name, v.Amount, v.Day, v.Used)
}

// NewDraftForm builds the add-expense form for collection k, bound to vals.
// Future and past expenses ask for a day of the month, budgets for the
// amount already used.
func NewDraftForm(k ledger.Kind, vals *DraftValues) *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Name").
			Value(&vals.Name).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return ledger.ErrEmptyName
				}
				return nil
			}),
		huh.NewInput().
			Title("Amount").
			Placeholder("0.00").
			Value(&vals.Amount).
			Validate(func(s string) error {
				_, err := ledger.ParseAmount(s)
				return err
			}),
	}

	switch k {
	case ledger.Budget:
		fields = append(fields, huh.NewInput().
			Title("Used so far").
			Placeholder("0").
			Value(&vals.Used).
			Validate(optional(func(s string) error {
				_, err := ledger.ParseAmount(s)
				return err
			})))
	default:
		title := "Day of month"
		if k == ledger.Future {
			title = "Due day"
		}
		fields = append(fields, huh.NewInput().
			Title(title).
			Placeholder("1-31").
			Value(&vals.Day).
			Validate(optional(func(s string) error {
				_, err := ledger.ParseDay(s)
				return err
			})))
	}

	return huh.NewForm(
		huh.NewGroup(fields...).Title("New " + k.String() + " expense"),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(true)
}

func optional(fn func(string) error) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		return fn(s)
	}
}
