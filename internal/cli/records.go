package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mesh-intelligence/workledger/pkg/types"
)

// recordFlags are the per-field flags shared by add and update.
type recordFlags struct {
	date      string
	quantity  float64
	unitPrice float64
	total     float64
}

func (f *recordFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.date, "date", "", "work date, YYYY-MM-DD")
	fs.Float64Var(&f.quantity, "quantity", 0, "units of work")
	fs.Float64Var(&f.unitPrice, "price", 0, "price per unit")
	fs.Float64Var(&f.total, "total", 0, "amount earned (add: defaults to quantity x price)")
}

// overlay applies every flag the user set on top of d.
func (f *recordFlags) overlay(fs *pflag.FlagSet, d types.Draft) types.Draft {
	if fs.Changed("date") {
		d.Date = f.date
	}
	if fs.Changed("quantity") {
		d.Quantity = &f.quantity
	}
	if fs.Changed("price") {
		d.UnitPrice = &f.unitPrice
	}
	if fs.Changed("total") {
		d.Total = &f.total
	}
	return d
}

// computeTotal returns quantity x price, rounded to cents, when both are set.
func computeTotal(d types.Draft) *float64 {
	if d.Quantity == nil || d.UnitPrice == nil {
		return nil
	}
	t := decimal.NewFromFloat(*d.Quantity).Mul(decimal.NewFromFloat(*d.UnitPrice)).Round(2).InexactFloat64()
	return &t
}

func (a *app) addCmd() *cobra.Command {
	var f recordFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a day's work",
		Long: `Add inserts one work record. The date defaults to today and the total
defaults to quantity x price.

Example:
  workledger add --date 2024-10-11 --quantity 100 --price 0.75`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := types.Draft{Date: a.now().Format(time.DateOnly)}
			d = f.overlay(cmd.Flags(), d)
			if d.Total == nil {
				d.Total = computeTotal(d)
			}

			l, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			id, err := l.Insert(cmd.Context(), d)
			if err != nil {
				return err
			}

			if a.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"id": id})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added record %d\n", id)
			return nil
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			records, err := l.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			return a.printRecords(cmd, records)
		},
	}
}

func (a *app) rangeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "range <start> <end>",
		Short: "List records dated between start and end, inclusive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range args {
				if !types.IsISODate(s) {
					return userError(fmt.Errorf("%q: %w", s, types.ErrInvalidDate))
				}
			}
			l, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			records, err := l.GetByDateRange(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return a.printRecords(cmd, records)
		},
	}
}

func (a *app) printRecords(cmd *cobra.Command, records []types.WorkRecord) error {
	if a.jsonMode {
		return writeJSON(cmd.OutOrStdout(), records)
	}
	renderRecords(cmd.OutOrStdout(), records)
	return nil
}

func (a *app) updateCmd() *cobra.Command {
	var f recordFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an existing record",
		Long: `Update overwrites the record with the given ID. Fields not given as
flags keep their current values. The total is never recomputed.

Example:
  workledger update 1 --quantity 150 --price 0.80 --total 120`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			l, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			// GetAll falls back to the legacy cache, which cannot be updated.
			if !l.Ready() {
				return types.ErrNotReady
			}
			records, err := l.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			current, ok := findRecord(records, id)
			if !ok {
				return userError(fmt.Errorf("record %d not found", id))
			}

			d := types.NewDraft(current.Date, current.Quantity, current.UnitPrice, current.Total)
			d = f.overlay(cmd.Flags(), d)
			if err := l.Update(cmd.Context(), id, d); err != nil {
				return err
			}

			if a.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"id": id, "updated": true})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated record %d\n", id)
			return nil
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			l, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			n, err := l.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}

			if a.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"id": id, "deleted": n})
			}
			if n == 0 {
				warningColor.Fprintf(cmd.OutOrStdout(), "No record with ID %d\n", id)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted record %d\n", id)
			return nil
		},
	}
}

// parseID accepts only positive base-10 integers.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q: %w", s, types.ErrInvalidID)
	}
	return id, nil
}

func findRecord(records []types.WorkRecord, id int64) (types.WorkRecord, bool) {
	for _, r := range records {
		if r.ID == id {
			return r, true
		}
	}
	return types.WorkRecord{}, false
}
