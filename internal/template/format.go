package template

import (
	"strings"
)

// Placeholder is a recognized substitution key in a format string.
type Placeholder string

const (
	PlaceholderTechnology      Placeholder = "technology"
	PlaceholderTechnologyLower Placeholder = "technology_lowercase"
	PlaceholderLevel           Placeholder = "level"
	PlaceholderCategory        Placeholder = "category"
)

// Placeholders returns every recognized placeholder.
func Placeholders() []Placeholder {
	return []Placeholder{
		PlaceholderTechnology,
		PlaceholderTechnologyLower,
		PlaceholderLevel,
		PlaceholderCategory,
	}
}

func (p Placeholder) valid() bool {
	switch p {
	case PlaceholderTechnology, PlaceholderTechnologyLower, PlaceholderLevel, PlaceholderCategory:
		return true
	}
	return false
}

// Values maps placeholders to their substitutions.
type Values map[Placeholder]string

// Format substitutes {placeholder} tokens in format. Tokens that are not
// recognized placeholders, or have no value in vals, are left verbatim.
func Format(format string, vals Values) string {
	if !strings.Contains(format, "{") {
		return format
	}

	var b strings.Builder
	b.Grow(len(format))

	rest := format
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			b.WriteString(rest)
			break
		}
		end += open

		b.WriteString(rest[:open])
		key := Placeholder(rest[open+1 : end])
		if v, ok := vals[key]; ok && key.valid() {
			b.WriteString(v)
		} else {
			b.WriteString(rest[open : end+1])
		}
		rest = rest[end+1:]
	}
	return b.String()
}

// CourseValues builds the substitution set for a course.
func CourseValues(technology, level, category string) Values {
	return Values{
		PlaceholderTechnology:      technology,
		PlaceholderTechnologyLower: strings.ToLower(technology),
		PlaceholderLevel:           level,
		PlaceholderCategory:        category,
	}
}
