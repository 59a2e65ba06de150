package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/workledger/internal/report"
	"github.com/mesh-intelligence/workledger/pkg/types"
)

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show totals over all records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			s, err := l.GetStatistics(cmd.Context())
			if err != nil {
				return err
			}
			if a.jsonMode {
				return writeJSON(cmd.OutOrStdout(), s)
			}
			renderStatistics(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func (a *app) monthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Summarize one month (default: the current month)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := a.now()
			year, month := now.Year(), now.Month()
			if len(args) == 1 {
				var err error
				if year, month, err = report.ParseMonth(args[0]); err != nil {
					return userError(err)
				}
			}
			start, end := report.MonthRange(year, month)
			return a.summarize(cmd, fmt.Sprintf("%04d-%02d", year, month), start, end)
		},
	}
}

func (a *app) yearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "year [YYYY]",
		Short: "Summarize one year (default: the current year)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year := a.now().Year()
			if len(args) == 1 {
				y, err := strconv.Atoi(args[0])
				if err != nil || y < 1 || y > 9999 {
					return userError(fmt.Errorf("year must be YYYY, got %q", args[0]))
				}
				year = y
			}
			start, end := report.YearRange(year)
			return a.summarize(cmd, fmt.Sprintf("%04d", year), start, end)
		},
	}
}

// periodSummary is the JSON shape of month and year output.
type periodSummary struct {
	Period  string             `json:"period"`
	Start   string             `json:"start"`
	End     string             `json:"end"`
	Summary report.Summary     `json:"summary"`
	Records []types.WorkRecord `json:"records"`
}

func (a *app) summarize(cmd *cobra.Command, period, start, end string) error {
	l, err := a.open(cmd.Context())
	if err != nil {
		return err
	}
	records, err := l.GetByDateRange(cmd.Context(), start, end)
	if err != nil {
		return err
	}
	s := report.Summarize(records)

	if a.jsonMode {
		return writeJSON(cmd.OutOrStdout(), periodSummary{
			Period: period, Start: start, End: end, Summary: s, Records: records,
		})
	}
	renderSummary(cmd.OutOrStdout(), period, s)
	return nil
}
