package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
)

// Confirm prints a yes/no question to w and reads one line from r.
// Only "y" or "yes" (case-insensitive) count as consent; anything else,
// including EOF, declines. Destructive default is "no".
func Confirm(r io.Reader, w io.Writer, format string, args ...interface{}) bool {
	fmt.Fprintf(w, "%s [y/N]: ", color.Bold.Sprintf(format, args...))

	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
