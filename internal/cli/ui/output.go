// Package ui renders postctl output.
package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, format string, args ...any) {
	successColor.Fprintf(w, "✓ %s\n", fmt.Sprintf(format, args...))
}

// PrintError prints an error message
func PrintError(w io.Writer, format string, args ...any) {
	errorColor.Fprintf(w, "✗ %s\n", fmt.Sprintf(format, args...))
}

func PrintWarning(w io.Writer, format string, args ...any) {
	warningColor.Fprintf(w, "⚠ %s\n", fmt.Sprintf(format, args...))
}

func PrintInfo(w io.Writer, format string, args ...any) {
	infoColor.Fprintf(w, "ℹ %s\n", fmt.Sprintf(format, args...))
}

// PrintNotification prints a {title, description} notice as a success line.
func PrintNotification(w io.Writer, title, description string) {
	if description == "" {
		PrintSuccess(w, "%s", title)
		return
	}
	PrintSuccess(w, "%s: %s", title, description)
}
