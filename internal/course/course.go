// Package course defines the course record produced by the generator and
// served by the API.
package course

// Course is a fully populated catalog entry. JSON field names are part of
// the artifact format consumed by the frontend.
type Course struct {
	ID                 string      `json:"id" yaml:"id"`
	Title              string      `json:"title" yaml:"title"`
	Author             string      `json:"author" yaml:"author"`
	Category           string      `json:"category" yaml:"category"`
	Level              string      `json:"level" yaml:"level"`
	Price              int         `json:"price" yaml:"price"`
	OriginalPrice      int         `json:"originalPrice" yaml:"originalPrice"`
	DiscountPercentage int         `json:"discountPercentage" yaml:"discountPercentage"`
	Rating             float64     `json:"rating" yaml:"rating"`
	IsFree             bool        `json:"isFree" yaml:"isFree"`
	Image              string      `json:"image" yaml:"image"`
	Tags               []string    `json:"tags" yaml:"tags"`
	Skills             []string    `json:"skills" yaml:"skills"`
	Description        string      `json:"description" yaml:"description"`
	Type               string      `json:"type" yaml:"type"`
	Language           string      `json:"language" yaml:"language"`
	Modules            []Module    `json:"modules" yaml:"modules"`
	Certificate        Certificate `json:"certificate" yaml:"certificate"`
}

// Technology returns the technology the course was generated for.
func (c Course) Technology() string {
	if c.Language != "" {
		return c.Language
	}
	if len(c.Tags) > 0 {
		return c.Tags[0]
	}
	return ""
}

// LessonCount returns the total number of lessons across all modules.
func (c Course) LessonCount() int {
	n := 0
	for _, m := range c.Modules {
		n += len(m.Lessons)
	}
	return n
}

// Module is an ordered group of lessons within a course.
type Module struct {
	ID          string         `json:"id" yaml:"id"`
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Duration    string         `json:"duration,omitempty" yaml:"duration,omitempty"`
	Lessons     []Lesson       `json:"lessons" yaml:"lessons"`
	Quiz        []QuizQuestion `json:"quiz,omitempty" yaml:"quiz,omitempty"`
}

// Lesson is a single unit of content. Content stays empty unless enriched.
type Lesson struct {
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
	Title     string `json:"title" yaml:"title"`
	Type      string `json:"type,omitempty" yaml:"type,omitempty"`
	Content   string `json:"content" yaml:"content"`
	Duration  string `json:"duration,omitempty" yaml:"duration,omitempty"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// QuizQuestion is a multiple choice question attached to a module.
type QuizQuestion struct {
	Question string   `json:"question" yaml:"question"`
	Options  []string `json:"options" yaml:"options"`
	Correct  int      `json:"correct" yaml:"correct"`
}

// Certificate tracks completion certificate state. Unlocked is always
// false at generation time.
type Certificate struct {
	Unlocked  bool `json:"unlocked" yaml:"unlocked"`
	Threshold int  `json:"threshold" yaml:"threshold"`
}
