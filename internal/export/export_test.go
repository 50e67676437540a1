package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abhisek/courseforge/internal/course"
	"github.com/abhisek/courseforge/internal/coursegen"
	"github.com/abhisek/courseforge/internal/roadmap"
)

func testOutput() coursegen.Output {
	courses := []course.Course{
		{
			ID: "tech-0001", Title: "Go Fundamentals", Language: "Go", Category: "Backend", Level: "Beginner",
			Price: 40, OriginalPrice: 80, DiscountPercentage: 50, Rating: 4.2,
			Tags: []string{"Go", "Backend", "Beginner"}, Skills: []string{"goroutines"},
			Image: "https://img.example/?q=go&size=2",
			Modules: []course.Module{
				{ID: "module_1", Title: "Go Basics", Lessons: []course.Lesson{{ID: "lesson_1_1", Title: "Hello", Duration: "12 min"}}},
				{ID: "module_2", Title: "Go Types", Lessons: []course.Lesson{{ID: "lesson_2_1", Title: "Structs", Duration: "20 min"}}},
			},
			Certificate: course.Certificate{Threshold: 70},
		},
		{ID: "tech-0002", Title: "Python Masterclass", Language: "Python", IsFree: true, DiscountPercentage: 100},
	}
	out := coursegen.Output{Courses: courses}
	for _, c := range courses {
		out.Roadmaps = append(out.Roadmaps, roadmap.FromCourse(c))
	}
	return out
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"technical_courses.json", FormatJSON, false},
		{"courses.YAML", FormatYAML, false},
		{"courses.yml.br", FormatYAML, false},
		{"courses.xlsx", FormatXLSX, false},
		{"courses", FormatJSON, false},
		{"courses.csv", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if tt.wantErr {
			assert.Error(t, err, tt.path)
			continue
		}
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}

	f, err := ParseFormat(" YML ")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	_, err = ParseFormat("toml")
	assert.Error(t, err)
}

func TestNewWriter_Paths(t *testing.T) {
	w, err := NewWriter(Options{Dir: "out", Format: FormatYAML, Roadmaps: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "technical_courses.yaml"), w.CoursesPath())
	assert.Equal(t, filepath.Join("out", "technical_roadmaps.yaml"), w.RoadmapsPath())

	w, err = NewWriter(Options{Dir: "out", Filename: "c.xlsx", Compress: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "c.xlsx.br"), w.CoursesPath())
	assert.Equal(t, filepath.Join("out", "technical_roadmaps.json.br"), w.RoadmapsPath())

	_, err = NewWriter(Options{Filename: "c.csv"}, nil)
	assert.Error(t, err)
}

func TestWrite_JSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(Options{Dir: dir, Roadmaps: true}, nil)
	require.NoError(t, err)

	out := testOutput()
	paths, err := w.Write(context.Background(), out)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "technical_courses.json"),
		filepath.Join(dir, "technical_roadmaps.json"),
	}, paths)

	raw, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "[\n  {\n    \"id\": \"tech-0001\""), "expected 2-space indent")
	assert.Contains(t, string(raw), "q=go&size=2")

	courses, err := ReadCourses(paths[0])
	require.NoError(t, err)
	assert.Equal(t, out.Courses[0].Modules, courses[0].Modules)
	assert.Equal(t, "tech-0002", courses[1].ID)

	roadmaps, err := ReadRoadmaps(paths[1])
	require.NoError(t, err)
	require.Len(t, roadmaps, 2)
	assert.Len(t, roadmaps[0].Nodes, 2)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temp files must not be left behind")
}

func TestWrite_CompressedYAML(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(Options{Dir: dir, Filename: "batch.yaml", Compress: true}, nil)
	require.NoError(t, err)

	out := testOutput()
	paths, err := w.Write(context.Background(), out)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.True(t, strings.HasSuffix(paths[0], "batch.yaml.br"))

	courses, err := ReadCourses(paths[0])
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, out.Courses[0].Title, courses[0].Title)
	assert.Equal(t, out.Courses[0].Skills, courses[0].Skills)
}

func TestWrite_XLSX(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(Options{Dir: dir, Format: FormatXLSX}, nil)
	require.NoError(t, err)

	paths, err := w.Write(context.Background(), testOutput())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(paths[0], "technical_courses.xlsx"))

	f, err := excelize.OpenFile(paths[0])
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(CoursesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "id", rows[0][0])
	assert.Equal(t, "tech-0001", rows[1][0])
	assert.Equal(t, "Go Fundamentals", rows[1][1])

	modules, err := f.GetRows(ModulesSheet)
	require.NoError(t, err)
	require.Len(t, modules, 3)
	assert.Equal(t, []string{"tech-0001", "module_2", "Go Types", "1", "Structs"}, modules[2])

	_, err = ReadCourses(paths[0])
	assert.Error(t, err)
}

func TestWrite_CancelledContext(t *testing.T) {
	w, err := NewWriter(Options{Dir: t.TempDir()}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = w.Write(ctx, testOutput())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithExt(t *testing.T) {
	assert.Equal(t, "a.yaml", withExt("a.json", FormatYAML))
	assert.Equal(t, "a.yml", withExt("a.yml", FormatYAML))
	assert.Equal(t, "a.xlsx", withExt("a", FormatXLSX))
}
