package roadmap

import (
	"strings"

	"github.com/abhisek/courseforge/internal/course"
)

// Curriculum is a canned module set used when a roadmap has no course
// modules to build from.
type Curriculum struct {
	Key     string
	Title   string
	Modules []course.Module
}

// FallbackEntry pairs a keyword with the curriculum it selects.
type FallbackEntry struct {
	Keyword    string
	Curriculum Curriculum
}

// FallbackOrder is checked in order; the first keyword found in the skill
// tag or the title wins.
var FallbackOrder = []FallbackEntry{
	{Keyword: "html", Curriculum: htmlCurriculum},
	{Keyword: "python", Curriculum: pythonCurriculum},
	{Keyword: "react", Curriculum: reactCurriculum},
}

// DefaultCurriculum is used when no keyword matches.
var DefaultCurriculum = pythonCurriculum

// ResolveFallback selects a canned curriculum by case-insensitive keyword
// match against skillTag, then title, for each keyword in priority order.
func ResolveFallback(skillTag, title string) Curriculum {
	tag := strings.ToLower(skillTag)
	t := strings.ToLower(title)
	for _, e := range FallbackOrder {
		if strings.Contains(tag, e.Keyword) || strings.Contains(t, e.Keyword) {
			return e.Curriculum
		}
	}
	return DefaultCurriculum
}

type genericStage struct {
	label       string
	description string
}

var genericStages = []genericStage{
	{"Introduction", "Course introduction and overview"},
	{"Fundamentals", "Core concepts and basics"},
	{"Practice", "Hands-on exercises and projects"},
	{"Assessment", "Final assessment and evaluation"},
}

// genericNodes is the last resort chain when nothing else resolves.
func genericNodes() []Node {
	nodes := make([]Node, len(genericStages))
	for i, st := range genericStages {
		x, y := Position(i)
		nodes[i] = Node{
			NodeID:       i + 1,
			Label:        st.label,
			Description:  st.description,
			PositionX:    x,
			PositionY:    y,
			Dependencies: Dependencies(i + 1),
		}
	}
	return nodes
}

func lessons(pairs ...string) []course.Lesson {
	out := make([]course.Lesson, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, course.Lesson{Title: pairs[i], Type: pairs[i+1]})
	}
	return out
}

var htmlCurriculum = Curriculum{
	Key:   "html",
	Title: "HTML Fundamentals",
	Modules: []course.Module{
		{
			ID:          "html_1",
			Title:       "HTML Basics",
			Description: "Learn the fundamentals of HTML markup",
			Duration:    "45 min",
			Lessons:     lessons("HTML Elements", "reading", "HTML Attributes", "video"),
			Quiz: []course.QuizQuestion{
				{
					Question: "What does HTML stand for?",
					Options:  []string{"HyperText Markup Language", "Home Tool Markup Language"},
					Correct:  0,
				},
			},
		},
		{
			ID:          "html_2",
			Title:       "HTML Forms",
			Description: "Create interactive forms with HTML",
			Duration:    "60 min",
			Lessons:     lessons("Form Elements", "reading", "Form Validation", "video"),
		},
		{
			ID:          "html_3",
			Title:       "Semantic HTML",
			Description: "Use semantic elements for better structure",
			Duration:    "50 min",
			Lessons:     lessons("Semantic Elements", "reading", "Accessibility", "video"),
		},
	},
}

var pythonCurriculum = Curriculum{
	Key:   "python",
	Title: "Python Programming",
	Modules: []course.Module{
		{
			ID:          "py_1",
			Title:       "Python Basics",
			Description: "Learn Python syntax and fundamentals",
			Duration:    "90 min",
			Lessons:     lessons("Variables and Data Types", "reading", "Control Structures", "coding"),
		},
		{
			ID:          "py_2",
			Title:       "Functions and Modules",
			Description: "Create reusable code with functions",
			Duration:    "75 min",
			Lessons:     lessons("Defining Functions", "coding", "Importing Modules", "reading"),
		},
		{
			ID:          "py_3",
			Title:       "Object-Oriented Programming",
			Description: "Learn OOP concepts in Python",
			Duration:    "120 min",
			Lessons:     lessons("Classes and Objects", "coding", "Inheritance", "reading"),
		},
		{
			ID:          "py_4",
			Title:       "Data Structures",
			Description: "Work with lists, dicts, and sets",
			Duration:    "100 min",
			Lessons:     lessons("Lists and Tuples", "coding", "Dictionaries and Sets", "coding"),
		},
	},
}

var reactCurriculum = Curriculum{
	Key:   "react",
	Title: "React Development",
	Modules: []course.Module{
		{
			ID:          "react_1",
			Title:       "React Fundamentals",
			Description: "Learn React components and JSX",
			Duration:    "80 min",
			Lessons:     lessons("Components and JSX", "coding", "Props and State", "video"),
		},
		{
			ID:          "react_2",
			Title:       "React Hooks",
			Description: "Master useState, useEffect, and custom hooks",
			Duration:    "90 min",
			Lessons:     lessons("useState Hook", "coding", "useEffect Hook", "coding"),
		},
		{
			ID:          "react_3",
			Title:       "State Management",
			Description: "Advanced state management patterns",
			Duration:    "70 min",
			Lessons:     lessons("Context API", "coding", "Redux Basics", "video"),
		},
	},
}
