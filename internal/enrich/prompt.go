package enrich

import (
	"fmt"
	"strings"

	"github.com/abhisek/courseforge/internal/course"
	"github.com/abhisek/courseforge/internal/llm"
)

const descriptionSystemPrompt = `You write marketing copy for an online catalog of technical courses. Descriptions are accurate, concrete and free of hype.`

func buildDescriptionUserMessage(c course.Course) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Course: %s\n", c.Title)
	fmt.Fprintf(&b, "Level: %s\n", c.Level)
	fmt.Fprintf(&b, "Technology: %s\n", c.Technology())
	fmt.Fprintf(&b, "Category: %s\n", c.Category)
	if len(c.Skills) > 0 {
		fmt.Fprintf(&b, "Skills: %s\n", strings.Join(c.Skills, ", "))
	}
	if len(c.Modules) > 0 {
		b.WriteString("\nModules:\n")
		for _, m := range c.Modules {
			fmt.Fprintf(&b, "- %s\n", m.Title)
		}
	}
	fmt.Fprintf(&b, "\nCurrent description: %s\n", c.Description)

	b.WriteString(`
Instructions:
Write a compelling description of 150-200 words for this course. It should:
1. Highlight the key skills students will learn.
2. Mention the kind of practical projects they will build.
3. Explain the value of the course for their career.
4. Say who the course is for, matching the level above.
Return plain prose with no headings, lists or markdown.`)

	return b.String()
}

// DescriptionSchema is the structured output requested for a rewrite.
var DescriptionSchema = &llm.Schema{
	Name:        llm.PurposeCourseDescription,
	Description: "A rewritten catalog description for one course",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"description": map[string]any{
				"type":        "string",
				"description": "The course description, 150-200 words of plain prose",
				"minLength":   1,
			},
		},
		"required":             []any{"description"},
		"additionalProperties": false,
	},
}

type descriptionOutput struct {
	Description string `json:"description"`
}
