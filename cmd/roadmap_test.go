package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/courseforge/internal/course"
	"github.com/abhisek/courseforge/internal/roadmap"
)

func writeCourses(t *testing.T, courses []course.Course) string {
	t.Helper()
	data, err := json.Marshal(courses)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "courses.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestPreviewRoadmap_FromSkillTag(t *testing.T) {
	rm, err := previewRoadmap("", "", "react", "")
	require.NoError(t, err)

	assert.Equal(t, "react", rm.Title)
	assert.Equal(t, "react", rm.SkillTag)
	require.NotEmpty(t, rm.Nodes)
	assert.NoError(t, roadmap.Validate(rm.Nodes))
}

func TestPreviewRoadmap_CourseIDNeedsFile(t *testing.T) {
	_, err := previewRoadmap("", "tech-0001", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--course-file")
}

func TestPreviewRoadmap_FromCourseFile(t *testing.T) {
	courses := []course.Course{
		{ID: "tech-0001", Title: "Go Fundamentals", Language: "Go", Modules: []course.Module{
			{ID: "module_1", Title: "Go Basics"},
			{ID: "module_2", Title: "Go Types"},
		}},
		{ID: "tech-0002", Title: "Rust Masterclass", Language: "Rust", Modules: []course.Module{
			{ID: "module_1", Title: "Ownership"},
		}},
	}
	path := writeCourses(t, courses)

	rm, err := previewRoadmap(path, "tech-0002", "", "")
	require.NoError(t, err)
	assert.Equal(t, "tech-0002", rm.CourseID)
	require.Len(t, rm.Nodes, 1)
	assert.Equal(t, "Ownership", rm.Nodes[0].Label)

	rm, err = previewRoadmap(path, "", "", "")
	require.NoError(t, err)
	assert.Equal(t, "tech-0001", rm.CourseID)
	assert.Len(t, rm.Nodes, 2)

	_, err = previewRoadmap(path, "tech-9999", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"tech-9999" not found`)
}

func TestPreviewRoadmap_EmptyFile(t *testing.T) {
	path := writeCourses(t, []course.Course{})
	_, err := previewRoadmap(path, "", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contains no courses")
}
