// Package console renders statistics tables, result panels, and the
// confirmation prompt for the wipe CLI.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// numPrinter formats integers with thousands separators.
var numPrinter = message.NewPrinter(language.English)

// FormatCount formats an integer with thousands separators.
func FormatCount(n int64) string {
	return numPrinter.Sprintf("%d", n)
}

// Table is a two-column metric/value table that preserves row insertion
// order.
type Table struct {
	title string
	rows  *orderedmap.OrderedMap[string, string]
}

// NewTable creates an empty table with the given title.
func NewTable(title string) *Table {
	return &Table{
		title: title,
		rows:  orderedmap.NewOrderedMap[string, string](),
	}
}

// AddRow appends a metric/value pair. Adding an existing metric replaces its
// value in place.
func (t *Table) AddRow(metric, value string) {
	t.rows.Set(metric, value)
}

// AddCount appends a metric with a thousands-separated integer value.
func (t *Table) AddCount(metric string, n int64) {
	t.AddRow(metric, FormatCount(n))
}

// Render writes the table to w using box-drawing borders. Column widths are
// measured with runewidth so wide characters line up.
func (t *Table) Render(w io.Writer) {
	metricWidth := runewidth.StringWidth("Metric")
	valueWidth := runewidth.StringWidth("Value")

	for el := t.rows.Front(); el != nil; el = el.Next() {
		if mw := runewidth.StringWidth(el.Key); mw > metricWidth {
			metricWidth = mw
		}
		if vw := runewidth.StringWidth(el.Value); vw > valueWidth {
			valueWidth = vw
		}
	}

	border := "+" + strings.Repeat("-", metricWidth+2) + "+" + strings.Repeat("-", valueWidth+2) + "+"

	if t.title != "" {
		fmt.Fprintln(w, color.Bold.Sprint(t.title))
	}
	fmt.Fprintln(w, border)
	fmt.Fprintf(w, "| %s | %s |\n",
		color.Cyan.Sprint(pad("Metric", metricWidth)),
		color.Cyan.Sprint(pad("Value", valueWidth)))
	fmt.Fprintln(w, border)
	for el := t.rows.Front(); el != nil; el = el.Next() {
		fmt.Fprintf(w, "| %s | %s |\n",
			pad(el.Key, metricWidth),
			color.Green.Sprint(pad(el.Value, valueWidth)))
	}
	fmt.Fprintln(w, border)
}

// pad right-pads s with spaces to the given display width.
func pad(s string, width int) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

// Successf prints a green success line.
func Successf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, color.Green.Sprintf(format, args...))
}

// Warnf prints a yellow warning line.
func Warnf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, color.Yellow.Sprintf(format, args...))
}

// Errorf prints a red error line.
func Errorf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, color.Red.Sprintf(format, args...))
}
