package common

import (
	"fmt"
	"io"
	"strings"
)

const (
	// Default separator widths
	DefaultWidth = 80
	WideWidth    = 120
)

// PrintSeparator prints a separator line with the specified character and width
func PrintSeparator(w io.Writer, char string, width int) {
	fmt.Fprintln(w, strings.Repeat(char, width))
}

// PrintSeparatorNewline prints a separator with a newline before it
func PrintSeparatorNewline(w io.Writer, char string, width int) {
	fmt.Fprintln(w, "\n"+strings.Repeat(char, width))
}

// PrintHeader prints a formatted header with title and separators
func PrintHeader(w io.Writer, title string, width int) {
	PrintSeparatorNewline(w, "=", width)
	fmt.Fprintln(w, title)
	PrintSeparator(w, "=", width)
}

// PrintFooter prints a formatted footer with message and separators
func PrintFooter(w io.Writer, message string, width int) {
	PrintSeparatorNewline(w, "=", width)
	fmt.Fprintln(w, message)
	fmt.Fprintln(w, strings.Repeat("=", width)+"\n")
}

// PrintBoxSeparator prints a box-drawing separator line (for sub-sections)
func PrintBoxSeparator(w io.Writer, width int) {
	fmt.Fprintln(w, "├"+strings.Repeat("─", width))
}

// BoxPrefix returns the appropriate box-drawing prefix for list items
func BoxPrefix(isLast bool) string {
	if isLast {
		return "└  "
	}
	return "│  "
}

// BoxDetailPrefix returns the prefix for detail lines under list items
func BoxDetailPrefix(isLast bool) string {
	if isLast {
		return "   "
	}
	return "│  "
}
