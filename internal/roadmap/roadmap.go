// Package roadmap turns a course's module list into an ordered, laid-out
// learning path. Nodes form a strict linear chain: every node depends only
// on its immediate predecessor.
package roadmap

import (
	"fmt"
	"time"

	"github.com/abhisek/courseforge/internal/course"
)

// Grid layout constants. Nodes fill three columns left to right, then wrap.
const (
	Columns   = 3
	OriginX   = 250
	OriginY   = 100
	ColumnGap = 200
	RowGap    = 120

	defaultModuleDuration = "30 min"
)

// Roadmap is a named learning path tied to one course.
type Roadmap struct {
	ID          int       `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	CourseID    string    `json:"course_id" yaml:"course_id"`
	SkillTag    string    `json:"skill_tag" yaml:"skill_tag"`
	CreatedAt   time.Time `json:"created_at,omitzero" yaml:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitzero" yaml:"updated_at,omitempty"`
	Nodes       []Node    `json:"nodes,omitempty" yaml:"nodes,omitempty"`
}

// Node is one step of a roadmap.
type Node struct {
	NodeID       int         `json:"node_id" yaml:"node_id"`
	Label        string      `json:"label" yaml:"label"`
	Description  string      `json:"description" yaml:"description"`
	PositionX    int         `json:"position_x" yaml:"position_x"`
	PositionY    int         `json:"position_y" yaml:"position_y"`
	Dependencies []int       `json:"dependencies" yaml:"dependencies"`
	ModuleData   *ModuleData `json:"module_data,omitempty" yaml:"module_data,omitempty"`
}

// ModuleData is passed through from the module a node was built from.
type ModuleData struct {
	ID       string                `json:"id" yaml:"id"`
	Duration string                `json:"duration" yaml:"duration"`
	Lessons  []course.Lesson       `json:"lessons" yaml:"lessons"`
	Quiz     []course.QuizQuestion `json:"quiz" yaml:"quiz"`
}

// Position returns the grid coordinates for the 0-based node index i.
func Position(i int) (x, y int) {
	return OriginX + (i%Columns)*ColumnGap, OriginY + (i/Columns)*RowGap
}

// Dependencies returns the dependency set for a 1-based node id.
func Dependencies(nodeID int) []int {
	if nodeID > 1 {
		return []int{nodeID - 1}
	}
	return []int{}
}

// BuildNodes produces one node per module in order. With no modules it
// resolves a canned curriculum from fallbackKey and title, and if that is
// empty too it emits the generic four stage chain. It never fails.
func BuildNodes(modules []course.Module, fallbackKey, title string) []Node {
	if len(modules) == 0 {
		modules = ResolveFallback(fallbackKey, title).Modules
	}
	if len(modules) == 0 {
		return genericNodes()
	}

	nodes := make([]Node, len(modules))
	for i, m := range modules {
		x, y := Position(i)

		label := m.Title
		if label == "" {
			label = fmt.Sprintf("Module %d", i+1)
		}
		duration := m.Duration
		if duration == "" {
			duration = defaultModuleDuration
		}
		lessons := m.Lessons
		if lessons == nil {
			lessons = []course.Lesson{}
		}
		quiz := m.Quiz
		if quiz == nil {
			quiz = []course.QuizQuestion{}
		}

		nodes[i] = Node{
			NodeID:       i + 1,
			Label:        label,
			Description:  m.Description,
			PositionX:    x,
			PositionY:    y,
			Dependencies: Dependencies(i + 1),
			ModuleData: &ModuleData{
				ID:       m.ID,
				Duration: duration,
				Lessons:  lessons,
				Quiz:     quiz,
			},
		}
	}
	return nodes
}

// FromCourse builds the roadmap for a generated course, keyed by the
// course id and tagged with its technology.
func FromCourse(c course.Course) Roadmap {
	return Roadmap{
		Title:       c.Title,
		Description: DefaultDescription(c.Title),
		CourseID:    c.ID,
		SkillTag:    c.Technology(),
		Nodes:       BuildNodes(c.Modules, c.Technology(), c.Title),
	}
}

// DefaultDescription is the description given to generated roadmaps.
func DefaultDescription(title string) string {
	return "Auto-generated roadmap for " + title
}
