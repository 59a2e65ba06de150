package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/mesh-intelligence/workledger/internal/report"
	"github.com/mesh-intelligence/workledger/pkg/types"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	warningColor = color.New(color.FgYellow)
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderRecords prints records as an aligned table followed by a total line.
func renderRecords(w io.Writer, records []types.WorkRecord) {
	if len(records) == 0 {
		warningColor.Fprintln(w, "No records")
		return
	}

	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintln(tw, "ID\tDATE\tQUANTITY\tUNIT PRICE\tTOTAL\t")
	var sum float64
	for _, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n",
			r.ID, r.Date,
			report.FormatAmount(r.Quantity),
			report.FormatAmount(r.UnitPrice),
			report.FormatAmount(r.Total),
		)
		sum += r.Total
	}
	tw.Flush()

	header, rows, _ := strings.Cut(sb.String(), "\n")
	headerColor.Fprintln(w, header)
	fmt.Fprint(w, rows)
	fmt.Fprintf(w, "%d record(s), total %s\n", len(records), report.FormatAmount(sum))
}

func renderStatistics(w io.Writer, s types.Statistics) {
	headerColor.Fprintln(w, "STATISTICS")
	printField(w, "Records", fmt.Sprintf("%d", s.TotalRecords))
	printField(w, "Total quantity", report.FormatAmount(s.TotalQuantity))
	printField(w, "Total amount", report.FormatAmount(s.TotalAmount))
	printField(w, "Average price", report.FormatAmount(s.AvgPrice))
}

func renderSummary(w io.Writer, title string, s report.Summary) {
	headerColor.Fprintln(w, title)
	printField(w, "Work days", fmt.Sprintf("%d", s.WorkDays))
	printField(w, "Records", fmt.Sprintf("%d", s.Records))
	printField(w, "Total income", report.FormatAmount(s.TotalIncome))
	printField(w, "Daily average", report.FormatAmount(s.DailyAverage))
	printField(w, "Best day", report.FormatAmount(s.MaxDaily))
	printField(w, "Days 1-10", report.FormatAmount(s.Days1To10))
	printField(w, "Days 11-20", report.FormatAmount(s.Days11To20))
	printField(w, "Days 21+", report.FormatAmount(s.Days21ToEnd))
}

func printField(w io.Writer, name, value string) {
	fmt.Fprintf(w, "  %-16s %s\n", name+":", value)
}
