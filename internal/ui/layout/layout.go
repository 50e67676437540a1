package layout

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/courseforge/internal/ui/theme"
)

const MinWidth = 40

// KeyHint is a key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// RenderHeader renders the title bar with left and right aligned text.
func RenderHeader(title, right string, width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("courseforge")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	rightStr := lipgloss.NewStyle().Foreground(theme.Accent).Render(right)

	innerWidth := max(width-4, 0)
	leftGap := max((innerWidth-lipgloss.Width(center))/2-lipgloss.Width(left), 1)
	rightGap := max(innerWidth-lipgloss.Width(left)-leftGap-lipgloss.Width(center)-lipgloss.Width(rightStr), 1)

	content := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + rightStr

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		part := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) +
			" " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
		parts = append(parts, part)
	}

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(" " + strings.Join(parts, "   "))
}

// RenderFrame stacks header, content and footer.
func RenderFrame(header, content, footer string, width int) string {
	body := lipgloss.NewStyle().
		Width(width).
		Padding(1, 2).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
