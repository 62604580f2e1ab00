package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/debemdeboas/postcraft/internal/cli/client"
)

const dateLayout = "Jan 2, 2006"

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	hashtagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)

	contentStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(72)

	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
)

// RenderDraftTable renders drafts as a table of id, title, preview and last update.
func RenderDraftTable(drafts []client.Draft) string {
	if len(drafts) == 0 {
		return summaryStyle.Render("No drafts found.")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(keyStyle).
		Headers("ID", "TITLE", "PREVIEW", "UPDATED").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, d := range drafts {
		t.Row(d.ID, d.Title, oneLine(d.Preview), d.UpdatedAt.Local().Format(dateLayout))
	}

	return t.Render() + "\n" + summaryStyle.Render(fmt.Sprintf("%d draft(s)", len(drafts)))
}

// RenderDraft renders a single draft with its full content.
func RenderDraft(d client.Draft) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(d.Title))
	b.WriteString("\n")
	b.WriteString(keyStyle.Render("id: ") + d.ID + "\n")
	b.WriteString(keyStyle.Render("created: ") + d.CreatedAt.Local().Format(dateLayout) + "\n")
	if d.HasImage {
		b.WriteString(keyStyle.Render("image: ") + d.ImageURL + "\n")
	}
	if len(d.Hashtags) > 0 {
		b.WriteString(keyStyle.Render("tags: ") + hashtagStyle.Render(strings.Join(d.Hashtags, " ")) + "\n")
	}
	b.WriteString(contentStyle.Render(d.Content))

	return b.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
