package tui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/courseforge/internal/roadmap"
	"github.com/abhisek/courseforge/internal/ui/theme"
)

const cardWidth = 26

// RenderRoadmap draws the nodes on the same column grid used for their
// stored positions, with arrows along the dependency chain.
func RenderRoadmap(rm roadmap.Roadmap) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(rm.Title))
	b.WriteString("\n")
	meta := fmt.Sprintf("course %s", rm.CourseID)
	if rm.SkillTag != "" {
		meta += " · skill " + rm.SkillTag
	}
	meta += fmt.Sprintf(" · %d nodes", len(rm.Nodes))
	b.WriteString(theme.Subtitle.Render(meta))
	b.WriteString("\n\n")

	for start := 0; start < len(rm.Nodes); start += roadmap.Columns {
		end := min(start+roadmap.Columns, len(rm.Nodes))

		var row []string
		for i := start; i < end; i++ {
			if i > start {
				row = append(row, arrow("→"))
			}
			row = append(row, nodeCard(rm.Nodes[i]))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, row...))
		b.WriteString("\n")

		if end < len(rm.Nodes) {
			b.WriteString(arrow("↓ continues at #" + fmt.Sprint(rm.Nodes[end].NodeID)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func nodeCard(n roadmap.Node) string {
	title := theme.Body.Bold(true).Render(fmt.Sprintf("#%d %s", n.NodeID, n.Label))

	var details []string
	if n.ModuleData != nil {
		details = append(details, fmt.Sprintf("%s · %d lessons", n.ModuleData.Duration, len(n.ModuleData.Lessons)))
		if len(n.ModuleData.Quiz) > 0 {
			details = append(details, fmt.Sprintf("%d quiz questions", len(n.ModuleData.Quiz)))
		}
	}
	if len(n.Dependencies) > 0 {
		details = append(details, fmt.Sprintf("after %v", n.Dependencies))
	}
	details = append(details, fmt.Sprintf("(%d,%d)", n.PositionX, n.PositionY))

	style := theme.Card
	if len(n.Dependencies) == 0 {
		style = theme.ActiveCard
	}
	return style.Width(cardWidth).Render(title + "\n" + theme.Hint.Render(strings.Join(details, "\n")))
}

func arrow(s string) string {
	return lipgloss.NewStyle().Foreground(theme.Accent).Padding(0, 1).Render(s)
}
