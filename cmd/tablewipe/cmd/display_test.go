package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/assert"

	"github.com/dbtoolset/tablewipe/internal/wiper"
)

func init() {
	color.Disable()
}

func TestDisplayPlan(t *testing.T) {
	stats := &wiper.Stats{
		Table:          "binaries_deleted",
		TotalBefore:    1500,
		BatchSize:      400,
		BatchesPlanned: 4,
		SamplePKs:      []interface{}{"1", "2", "3", "4", "5", "6", "7"},
		Outcome:        wiper.OutcomeDryRun,
	}

	var buf bytes.Buffer
	displayPlan(&buf, stats)

	out := buf.String()
	assert.Contains(t, out, "Deletion Plan")
	assert.Contains(t, out, "binaries_deleted")
	assert.Contains(t, out, "1,500")
	assert.Contains(t, out, "400")
	assert.Contains(t, out, "Planned Batches")
	assert.Contains(t, out, "1, 2, 3, 4, 5, ...")
}

func TestDisplayPlanShortSample(t *testing.T) {
	stats := &wiper.Stats{
		Table:          "sessions",
		TotalBefore:    3,
		BatchSize:      400,
		BatchesPlanned: 1,
		SamplePKs:      []interface{}{"10", "11", "12"},
	}

	var buf bytes.Buffer
	displayPlan(&buf, stats)

	out := buf.String()
	assert.Contains(t, out, "10, 11, 12")
	assert.NotContains(t, out, "...")
}

func TestDisplayPlanEmptyTable(t *testing.T) {
	stats := &wiper.Stats{
		Table:     "sessions",
		BatchSize: 400,
	}

	var buf bytes.Buffer
	displayPlan(&buf, stats)

	assert.NotContains(t, buf.String(), "Sample Keys")
}

func TestDisplayResults(t *testing.T) {
	stats := &wiper.Stats{
		Table:       "binaries_deleted",
		TotalBefore: 1500,
		RowsDeleted: 1500,
		BatchesRun:  4,
		FinalCount:  0,
		Verified:    true,
		Elapsed:     2 * time.Second,
		Outcome:     wiper.OutcomeCompleted,
	}

	var buf bytes.Buffer
	displayResults(&buf, stats)

	out := buf.String()
	assert.Contains(t, out, "Deletion Results")
	assert.Contains(t, out, "Records Deleted")
	assert.Contains(t, out, "1,500")
	assert.Contains(t, out, "Final Count")
	assert.Contains(t, out, "2s")
	assert.Contains(t, out, "500ms")
}

func TestDisplayResultsUnverified(t *testing.T) {
	stats := &wiper.Stats{
		Table:       "sessions",
		TotalBefore: 10,
		RowsDeleted: 10,
		BatchesRun:  1,
		Elapsed:     time.Second,
	}

	var buf bytes.Buffer
	displayResults(&buf, stats)

	assert.Contains(t, buf.String(), "unverified")
}

func TestProgressLine(t *testing.T) {
	var buf bytes.Buffer
	progress := progressLine(&buf)

	progress(1, 400, 400, 1500)
	progress(4, 300, 1500, 1500)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "Batch 1: 400 deleted | Total: 400/1,500 (26.7%)", lines[0])
	assert.Equal(t, "Batch 4: 300 deleted | Total: 1,500/1,500 (100.0%)", lines[1])
}

func TestProgressLineZeroInitial(t *testing.T) {
	var buf bytes.Buffer
	progress := progressLine(&buf)

	progress(1, 0, 0, 0)

	assert.Contains(t, buf.String(), "(0.0%)")
}
