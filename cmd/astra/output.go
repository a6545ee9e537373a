package main

import (
	"fmt"
	"io"
	"os"
)

// ANSI escape sequences for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// Progress and status messages go to stderr so stdout stays clean for
// data output (role tables, roadmap listings). Tests swap the writer.
var msgOut io.Writer = os.Stderr

func colorize(color, text string) string {
	if noColor {
		return text
	}
	return color + text + colorReset
}

func notify(color, mark, format string, args ...any) {
	fmt.Fprintln(msgOut, colorize(color, mark+" "+fmt.Sprintf(format, args...)))
}

func printSuccess(format string, args ...any) { notify(colorGreen, "✓", format, args...) }

func printError(format string, args ...any) { notify(colorRed, "✗", format, args...) }

func printWarning(format string, args ...any) { notify(colorYellow, "!", format, args...) }

func printStep(format string, args ...any) { notify(colorCyan, "›", format, args...) }

// printStatus renders an aligned "label: value" line.
func printStatus(label, format string, args ...any) {
	l := colorize(colorBold, fmt.Sprintf("%-10s", label+":"))
	fmt.Fprintf(msgOut, "  %s %s\n", l, fmt.Sprintf(format, args...))
}
