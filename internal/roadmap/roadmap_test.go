package roadmap

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/courseforge/internal/course"
)

func testModules(n int) []course.Module {
	mods := make([]course.Module, n)
	for i := range mods {
		mods[i] = course.Module{
			ID:    fmt.Sprintf("module_%d", i+1),
			Title: fmt.Sprintf("Go Part %d", i+1),
			Lessons: []course.Lesson{
				{ID: fmt.Sprintf("lesson_%d_1", i+1), Title: "Intro", Duration: "12 min"},
			},
		}
	}
	return mods
}

func TestPosition(t *testing.T) {
	tests := []struct {
		i, x, y int
	}{
		{0, 250, 100},
		{1, 450, 100},
		{2, 650, 100},
		{3, 250, 220},
		{4, 450, 220},
		{7, 450, 340},
	}
	for _, tt := range tests {
		x, y := Position(tt.i)
		if x != tt.x || y != tt.y {
			t.Errorf("Position(%d) = (%d,%d), want (%d,%d)", tt.i, x, y, tt.x, tt.y)
		}
	}
}

func TestBuildNodes_FromModules(t *testing.T) {
	mods := testModules(5)
	nodes := BuildNodes(mods, "go", "Go Course")

	require.Len(t, nodes, 5)
	for i, n := range nodes {
		assert.Equal(t, i+1, n.NodeID)
		assert.Equal(t, mods[i].Title, n.Label)
		if i == 0 {
			assert.Empty(t, n.Dependencies)
		} else {
			assert.Equal(t, []int{i}, n.Dependencies)
		}
		x, y := Position(i)
		assert.Equal(t, x, n.PositionX)
		assert.Equal(t, y, n.PositionY)

		require.NotNil(t, n.ModuleData)
		assert.Equal(t, mods[i].ID, n.ModuleData.ID)
		assert.Equal(t, "30 min", n.ModuleData.Duration, "duration defaults when module has none")
		assert.Equal(t, mods[i].Lessons, n.ModuleData.Lessons)
		assert.NotNil(t, n.ModuleData.Quiz)
		assert.Empty(t, n.ModuleData.Quiz)
	}
	assert.NoError(t, Validate(nodes))
}

func TestBuildNodes_DefaultLabel(t *testing.T) {
	mods := testModules(2)
	mods[1].Title = ""
	nodes := BuildNodes(mods, "", "")
	assert.Equal(t, "Module 2", nodes[1].Label)
}

func TestBuildNodes_Idempotent(t *testing.T) {
	mods := testModules(4)
	a := BuildNodes(mods, "go", "x")
	b := BuildNodes(mods, "go", "x")
	assert.Equal(t, a, b)
}

func TestBuildNodes_PythonBasicsFallback(t *testing.T) {
	nodes := BuildNodes(nil, "Python Basics", "")

	require.Len(t, nodes, 4)
	assert.Equal(t, "Python Basics", nodes[0].Label)
	assert.Empty(t, nodes[0].Dependencies)
	assert.Equal(t, []int{3}, nodes[3].Dependencies)
	assert.Equal(t, "py_4", nodes[3].ModuleData.ID)
	assert.Equal(t, "100 min", nodes[3].ModuleData.Duration)
	assert.NoError(t, Validate(nodes))
}

func TestResolveFallback(t *testing.T) {
	tests := []struct {
		name     string
		skillTag string
		title    string
		want     string
	}{
		{"html tag", "HTML", "", "html"},
		{"react tag", "react", "", "react"},
		{"title match", "", "Modern React Apps", "react"},
		{"case insensitive", "PyThOn", "", "python"},
		{"no match defaults to python", "rust", "Systems Programming", "python"},
		{"empty defaults to python", "", "", "python"},
		{"html beats python", "python", "Python and HTML", "html"},
		{"keyword order wins over field order", "react", "html in react", "html"},
		{"python beats react", "react", "python", "python"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveFallback(tt.skillTag, tt.title)
			assert.Equal(t, tt.want, got.Key)
		})
	}
}

func TestFallbackOrder(t *testing.T) {
	keys := make([]string, len(FallbackOrder))
	for i, e := range FallbackOrder {
		keys[i] = e.Keyword
	}
	assert.Equal(t, []string{"html", "python", "react"}, keys)
	assert.Equal(t, "python", DefaultCurriculum.Key)
}

func TestBuildNodes_HTMLFallbackCarriesQuiz(t *testing.T) {
	nodes := BuildNodes(nil, "html", "")
	require.Len(t, nodes, 3)
	require.Len(t, nodes[0].ModuleData.Quiz, 1)
	assert.Equal(t, "What does HTML stand for?", nodes[0].ModuleData.Quiz[0].Question)
	assert.Equal(t, 0, nodes[0].ModuleData.Quiz[0].Correct)
	assert.Empty(t, nodes[1].ModuleData.Quiz)
}

func TestBuildNodes_GenericChain(t *testing.T) {
	saved := DefaultCurriculum
	DefaultCurriculum = Curriculum{Key: "empty"}
	t.Cleanup(func() { DefaultCurriculum = saved })

	nodes := BuildNodes(nil, "unknown", "nothing")
	require.Len(t, nodes, 4)

	labels := []string{nodes[0].Label, nodes[1].Label, nodes[2].Label, nodes[3].Label}
	assert.Equal(t, []string{"Introduction", "Fundamentals", "Practice", "Assessment"}, labels)
	assert.Equal(t, "Final assessment and evaluation", nodes[3].Description)
	assert.NoError(t, Validate(nodes))
}

func TestNodeJSON_EmptyDependencies(t *testing.T) {
	nodes := BuildNodes(testModules(1), "", "")
	data, err := json.Marshal(nodes[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"dependencies":[]`)
}

func TestAncestors(t *testing.T) {
	nodes := BuildNodes(testModules(5), "", "")

	assert.Empty(t, Ancestors(nodes, 1))
	assert.Equal(t, []int{1}, Ancestors(nodes, 2))
	assert.Equal(t, []int{1, 2, 3, 4}, Ancestors(nodes, 5))
	assert.Empty(t, Ancestors(nodes, 99))
}

func TestUnlocked(t *testing.T) {
	nodes := BuildNodes(testModules(3), "", "")

	assert.True(t, Unlocked(nodes, 1, nil))
	assert.False(t, Unlocked(nodes, 2, map[int]bool{}))
	assert.True(t, Unlocked(nodes, 2, map[int]bool{1: true}))
	assert.False(t, Unlocked(nodes, 4, map[int]bool{1: true, 2: true, 3: true}))
}

func TestValidate_DetectsBrokenChain(t *testing.T) {
	nodes := BuildNodes(testModules(3), "", "")
	nodes[2].Dependencies = []int{1}
	nodes[1].PositionX = 0

	err := Validate(nodes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node 3 depends on [1], want [2]")
	assert.Contains(t, err.Error(), "node 2 at (0,100)")
}

func TestTopologicalOrder_Cycle(t *testing.T) {
	nodes := []Node{
		{NodeID: 1, Dependencies: []int{2}},
		{NodeID: 2, Dependencies: []int{1}},
	}
	_, err := TopologicalOrder(nodes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle detected")
}

func TestFromCourse(t *testing.T) {
	c := course.Course{
		ID:       "tech-0001",
		Title:    "Go Fundamentals",
		Tags:     []string{"Go", "Backend Development", "Beginner"},
		Language: "Go",
		Modules:  testModules(3),
	}
	rm := FromCourse(c)
	assert.Equal(t, "tech-0001", rm.CourseID)
	assert.Equal(t, "Go", rm.SkillTag)
	assert.Equal(t, "Auto-generated roadmap for Go Fundamentals", rm.Description)
	assert.Len(t, rm.Nodes, 3)
}
