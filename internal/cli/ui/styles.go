package ui

import "github.com/charmbracelet/lipgloss"

// Styles holds the shared lipgloss styles.
var Styles = struct {
	Bold lipgloss.Style
}{
	Bold: lipgloss.NewStyle().Bold(true),
}
