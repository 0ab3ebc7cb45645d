package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dbtoolset/tablewipe/internal/console"
	"github.com/dbtoolset/tablewipe/internal/wiper"
)

// displayPlan renders the deletion plan produced by a dry-run.
func displayPlan(w io.Writer, stats *wiper.Stats) {
	tbl := console.NewTable("Deletion Plan")
	tbl.AddRow("Table", stats.Table)
	tbl.AddCount("Total Records", stats.TotalBefore)
	tbl.AddCount("Batch Size", int64(stats.BatchSize))
	tbl.AddCount("Planned Batches", stats.BatchesPlanned)

	if len(stats.SamplePKs) > 0 {
		parts := make([]string, 0, len(stats.SamplePKs))
		for _, pk := range stats.SamplePKs {
			parts = append(parts, fmt.Sprint(pk))
		}
		sample := strings.Join(parts[:min(5, len(parts))], ", ")
		if len(parts) > 5 {
			sample += ", ..."
		}
		tbl.AddRow("Sample Keys", sample)
	}

	tbl.Render(w)
}

// displayResults renders the statistics of a completed run.
func displayResults(w io.Writer, stats *wiper.Stats) {
	tbl := console.NewTable("Deletion Results")
	tbl.AddRow("Table", stats.Table)
	tbl.AddCount("Initial Count", stats.TotalBefore)
	tbl.AddCount("Records Deleted", stats.RowsDeleted)
	tbl.AddCount("Batches Processed", int64(stats.BatchesRun))
	if stats.Verified {
		tbl.AddCount("Final Count", stats.FinalCount)
	} else {
		tbl.AddRow("Final Count", "unverified")
	}
	tbl.AddRow("Duration", stats.Elapsed.Round(time.Millisecond).String())
	if stats.BatchesRun > 0 {
		avg := stats.Elapsed / time.Duration(stats.BatchesRun)
		tbl.AddRow("Avg Batch Time", avg.Round(time.Millisecond).String())
	}

	tbl.Render(w)
}

// progressLine prints one observation per committed batch.
func progressLine(w io.Writer) wiper.ProgressFunc {
	return func(batch int, deleted, total, initial int64) {
		percentage := float64(0)
		if initial > 0 {
			percentage = float64(total) / float64(initial) * 100
		}
		fmt.Fprintf(w, "Batch %d: %s deleted | Total: %s/%s (%.1f%%)\n",
			batch,
			console.FormatCount(deleted),
			console.FormatCount(total),
			console.FormatCount(initial),
			percentage,
		)
	}
}
