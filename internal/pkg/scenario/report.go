package scenario

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/metrics"
)

// PrintResults writes one row per case and a pass count.
func PrintResults(w io.Writer, results []CaseResult) {
	table := uitable.New()
	table.MaxColWidth = 80
	table.Wrap = true
	table.AddRow("CASE", "RESULT", "HTTP", "DURATION", "DETAIL")
	for _, r := range results {
		detail := r.Message
		if !r.Success {
			detail = r.Error
		}
		table.AddRow(r.Name, resultLabel(r.Success), r.HTTPStatus,
			(time.Duration(r.DurationMS) * time.Millisecond).String(), detail)
	}
	fmt.Fprintln(w, table)

	passed := Passed(results)
	summary := color.New(color.FgGreen, color.Bold)
	if passed != len(results) {
		summary = color.New(color.FgRed, color.Bold)
	}
	summary.Fprintf(w, "%d/%d cases passed\n", passed, len(results))
}

// PrintOperations writes the per operation request statistics of the run.
func PrintOperations(w io.Writer, stats []metrics.OperationStat) {
	if len(stats) == 0 {
		return
	}
	table := uitable.New()
	table.AddRow("OPERATION", "REQUESTS", "FAILURES", "MEAN LATENCY")
	for _, s := range stats {
		table.AddRow(s.Operation, s.Requests, s.Failures, s.MeanLatency.Round(time.Millisecond).String())
	}
	fmt.Fprintln(w, table)
}

func resultLabel(ok bool) string {
	if ok {
		return color.GreenString("PASS")
	}
	return color.RedString("FAIL")
}
