// Package statuscolor colors verdicts and rule statuses for terminal output.
package statuscolor

import (
	"github.com/fatih/color"

	"github.com/selimozcann/phishaid/internal/render"
)

var (
	green  = color.New(color.FgGreen, color.Bold)
	red    = color.New(color.FgRed, color.Bold)
	yellow = color.New(color.FgYellow)
	gray   = color.New(color.FgHiBlack)
)

func colorForClass(c render.Class) *color.Color {
	if c == render.ClassSafe {
		return green
	}
	return red
}

func colorForStatus(s render.RuleStatus) *color.Color {
	switch s {
	case render.StatusSuspicious, render.StatusMatched:
		return yellow
	case render.StatusReserved:
		return gray
	default:
		return green
	}
}

// Class wraps text with the color of the verdict class. Anything that is
// not safe is red.
func Class(text string, c render.Class) string {
	return colorForClass(c).Sprint(text)
}

// Status returns the colored rule status.
func Status(s render.RuleStatus) string {
	return colorForStatus(s).Sprint(string(s))
}

// Warn wraps text in the warning color.
func Warn(text string) string {
	return yellow.Sprint(text)
}

// Error wraps text in the failure color.
func Error(text string) string {
	return red.Sprint(text)
}

// Gray wraps the provided text with a gray color.
func Gray(text string) string {
	return gray.Sprint(text)
}

// Disable turns colors off for every writer, e.g. when output is not a
// terminal or --no-color is given.
func Disable() {
	color.NoColor = true
}
