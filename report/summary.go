package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	titleColumnWidth = 60
	// previewRows is how many items a passing run shows from each end.
	previewRows = 3
)

// WriteSummary prints a short human report: a table of the relevant items
// and a closing verdict line. A violation shows the offending pair with one
// neighbour on each side; a passing run shows the head and tail of the
// list.
func WriteSummary(w io.Writer, run Run) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, WidthMax: titleColumnWidth},
	})
	t.AppendHeader(table.Row{"#", "Timestamp", "Age", "ID", "Title"})

	for _, i := range summaryIndexes(run) {
		item := run.Items[i]
		t.AppendRow(table.Row{i, item.ISOTimestamp(), item.AgeText, item.ID, item.Title})
	}

	t.AppendFooter(table.Row{"", "", "Collected", fmt.Sprintf("%d/%d", len(run.Items), run.Target), fmt.Sprintf("hops: %d", run.Hops)})

	if _, err := fmt.Fprintf(w, "\nRun %s against %s\n", run.ID, run.StartURL); err != nil {
		return err
	}
	if len(run.Items) > 0 {
		t.Render()
	}

	_, err := fmt.Fprintln(w, verdictLine(run))
	return err
}

func verdictLine(run Run) string {
	switch {
	case run.Error != "":
		return fmt.Sprintf("ERROR: %s", run.Error)
	case run.Verdict == nil:
		return "ERROR: no verdict"
	default:
		return run.Verdict.String()
	}
}

func summaryIndexes(run Run) []int {
	n := len(run.Items)

	if run.Error == "" && run.Verdict != nil && !run.Verdict.Pass {
		from := max(run.Verdict.Index-1, 0)
		to := min(run.Verdict.Index+2, n-1)
		return indexRange(from, to)
	}

	if n <= 2*previewRows {
		return indexRange(0, n-1)
	}

	return append(indexRange(0, previewRows-1), indexRange(n-previewRows, n-1)...)
}

func indexRange(from, to int) []int {
	var out []int
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

