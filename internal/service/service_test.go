package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/courseforge/internal/apierr"
	"github.com/abhisek/courseforge/internal/course"
	"github.com/abhisek/courseforge/internal/coursegen"
	"github.com/abhisek/courseforge/internal/roadmap"
	"github.com/abhisek/courseforge/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newRoadmapService(t *testing.T) (*RoadmapService, *store.Store) {
	s := openStore(t)
	return NewRoadmapService(s.RoadmapRepo(), s.ProgressRepo(), s.CourseRepo(), nil), s
}

func goCourse(id string, modules int) course.Course {
	c := course.Course{ID: id, Title: "Go Fundamentals", Language: "Go", Tags: []string{"Go", "Backend", "Beginner"}}
	for i := range modules {
		c.Modules = append(c.Modules, course.Module{ID: "module", Title: "Go Part " + string(rune('A'+i))})
	}
	return c
}

func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	ae, ok := apierr.As(err)
	require.True(t, ok, "expected *apierr.Error, got %T: %v", err, err)
	assert.Equal(t, status, ae.Status)
	assert.Equal(t, code, ae.Code)
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		completed, total int
		want             float64
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, 4, 0},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{3, 3, 100},
		{1, 8, 12.5},
	}
	for _, tt := range tests {
		if got := Percentage(tt.completed, tt.total); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %v, want %v", tt.completed, tt.total, got, tt.want)
		}
	}
}

func TestList_SeedsDefaultsOnce(t *testing.T) {
	svc, _ := newRoadmapService(t)
	ctx := context.Background()

	list, err := svc.List(ctx, store.RoadmapFilter{})
	require.NoError(t, err)
	require.Len(t, list, len(DefaultRoadmaps))
	assert.Equal(t, "css-course-1", list[0].CourseID)
	assert.Equal(t, "html-course-1", list[len(list)-1].CourseID)
	for _, rm := range list {
		require.NotEmpty(t, rm.Nodes, rm.CourseID)
		assert.NoError(t, roadmap.Validate(rm.Nodes), rm.CourseID)
	}

	list, err = svc.List(ctx, store.RoadmapFilter{})
	require.NoError(t, err)
	assert.Len(t, list, len(DefaultRoadmaps))

	py, err := svc.List(ctx, store.RoadmapFilter{SkillTag: "PYTH"})
	require.NoError(t, err)
	require.Len(t, py, 1)
	assert.Equal(t, "python", py[0].SkillTag)

	html, err := svc.Nodes(ctx, list[len(list)-1].ID)
	require.NoError(t, err)
	assert.Len(t, html, 3)
	assert.NoError(t, roadmap.Validate(html))
}

func TestList_RecomputesMissingNodes(t *testing.T) {
	svc, s := newRoadmapService(t)
	ctx := context.Background()

	_, err := s.RoadmapRepo().Create(ctx, store.RoadmapInput{Title: "Python Basics", CourseID: "c-1", SkillTag: "python"}, nil)
	require.NoError(t, err)
	_, err = s.RoadmapRepo().Create(ctx, store.RoadmapInput{Title: "Stored", CourseID: "c-2"}, roadmap.BuildNodes(goCourse("c-2", 2).Modules, "", ""))
	require.NoError(t, err)

	list, err := svc.List(ctx, store.RoadmapFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "c-2", list[0].CourseID)
	require.Len(t, list[0].Nodes, 2)
	assert.Equal(t, "Go Part A", list[0].Nodes[0].Label)

	assert.Equal(t, "c-1", list[1].CourseID)
	require.Len(t, list[1].Nodes, 4)
	assert.NoError(t, roadmap.Validate(list[1].Nodes))
	for i, n := range list[1].Nodes {
		if i == 0 {
			assert.Empty(t, n.Dependencies)
			continue
		}
		assert.Equal(t, []int{i}, n.Dependencies)
	}
}

func TestList_NoSeedWhenRoadmapsExist(t *testing.T) {
	svc, _ := newRoadmapService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRoadmapInput{Title: "Mine", CourseID: "c-1", SkillTag: "rust"})
	require.NoError(t, err)

	list, err := svc.List(ctx, store.RoadmapFilter{SkillTag: "python"})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreate(t *testing.T) {
	svc, s := newRoadmapService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRoadmapInput{CourseID: "c-1"})
	requireAPIError(t, err, http.StatusBadRequest, "missing_parameters")

	require.NoError(t, s.CourseRepo().Upsert(ctx, goCourse("tech-0001", 5)))
	rm, err := svc.Create(ctx, CreateRoadmapInput{Title: "Go Path", CourseID: "tech-0001", SkillTag: "Go"})
	require.NoError(t, err)
	require.Len(t, rm.Nodes, 5)
	assert.Equal(t, "Go Part A", rm.Nodes[0].Label)

	_, err = svc.Create(ctx, CreateRoadmapInput{Title: "Again", CourseID: "tech-0001"})
	requireAPIError(t, err, http.StatusConflict, "roadmap_exists")

	fallback, err := svc.Create(ctx, CreateRoadmapInput{Title: "Python Basics", CourseID: "unknown-course"})
	require.NoError(t, err)
	assert.Len(t, fallback.Nodes, 4)
	assert.Equal(t, "Python Basics", fallback.Nodes[0].Label)
}

func TestGetAndDelete(t *testing.T) {
	svc, _ := newRoadmapService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, 42)
	requireAPIError(t, err, http.StatusNotFound, "roadmap_not_found")

	rm, err := svc.Create(ctx, CreateRoadmapInput{Title: "React", CourseID: "c-1", SkillTag: "react"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, rm.ID)
	require.NoError(t, err)
	assert.Equal(t, rm.Nodes, got.Nodes)

	require.NoError(t, svc.Delete(ctx, rm.ID))
	requireAPIError(t, svc.Delete(ctx, rm.ID), http.StatusNotFound, "roadmap_not_found")
}

func TestGenerateFromCourse(t *testing.T) {
	svc, s := newRoadmapService(t)
	ctx := context.Background()

	_, _, err := svc.GenerateFromCourse(ctx, GenerateInput{})
	requireAPIError(t, err, http.StatusBadRequest, "missing_parameters")

	rm, created, err := svc.GenerateFromCourse(ctx, GenerateInput{CourseID: "x-1"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, DefaultGeneratedTitle, rm.Title)
	assert.Equal(t, "Auto-generated roadmap for Generated Course", rm.Description)
	assert.NotEmpty(t, rm.Nodes)

	again, created, err := svc.GenerateFromCourse(ctx, GenerateInput{CourseID: "x-1", CourseTitle: "Other"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, rm.ID, again.ID)
	assert.Equal(t, DefaultGeneratedTitle, again.Title)

	require.NoError(t, s.CourseRepo().Upsert(ctx, goCourse("tech-0002", 3)))
	fromCourse, created, err := svc.GenerateFromCourse(ctx, GenerateInput{CourseID: "tech-0002", SkillTag: "Go"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Go Fundamentals", fromCourse.Title)
	assert.Len(t, fromCourse.Nodes, 3)
}

func TestCompleteNode(t *testing.T) {
	svc, _ := newRoadmapService(t)
	ctx := context.Background()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	rm, err := svc.Create(ctx, CreateRoadmapInput{Title: "HTML", CourseID: "c-1", SkillTag: "html"})
	require.NoError(t, err)
	require.Len(t, rm.Nodes, 3)

	_, err = svc.CompleteNode(ctx, CompleteInput{RoadmapID: rm.ID})
	requireAPIError(t, err, http.StatusBadRequest, "missing_parameters")

	_, err = svc.CompleteNode(ctx, CompleteInput{RoadmapID: 999, NodeID: 1})
	requireAPIError(t, err, http.StatusNotFound, "roadmap_not_found")

	_, err = svc.CompleteNode(ctx, CompleteInput{RoadmapID: rm.ID, NodeID: 4})
	requireAPIError(t, err, http.StatusNotFound, "node_not_found")

	first := 70
	p, err := svc.CompleteNode(ctx, CompleteInput{RoadmapID: rm.ID, NodeID: 1, Score: &first})
	require.NoError(t, err)
	assert.Equal(t, AnonymousUser, p.UserID)
	assert.True(t, p.Completed)
	require.NotNil(t, p.CompletedAt)
	assert.True(t, fixed.Equal(*p.CompletedAt))

	second := 95
	p2, err := svc.CompleteNode(ctx, CompleteInput{RoadmapID: rm.ID, NodeID: 1, Score: &second})
	require.NoError(t, err)
	assert.Equal(t, p.ID, p2.ID)
	assert.Equal(t, 95, *p2.Score)

	rows, err := svc.ListProgress(ctx, AnonymousUser, rm.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestStats(t *testing.T) {
	svc, _ := newRoadmapService(t)
	ctx := context.Background()

	_, err := svc.Stats(ctx, "u1", 0)
	requireAPIError(t, err, http.StatusBadRequest, "missing_parameters")

	_, err = svc.Stats(ctx, "u1", 77)
	requireAPIError(t, err, http.StatusNotFound, "roadmap_not_found")

	rm, err := svc.Create(ctx, CreateRoadmapInput{Title: "HTML", CourseID: "c-1", SkillTag: "html"})
	require.NoError(t, err)

	st, err := svc.Stats(ctx, "", rm.ID)
	require.NoError(t, err)
	assert.Equal(t, Stats{UserID: AnonymousUser, RoadmapID: rm.ID, TotalNodes: 3}, *st)

	for _, node := range []int{1, 2} {
		_, err := svc.CompleteNode(ctx, CompleteInput{UserID: "u1", RoadmapID: rm.ID, NodeID: node})
		require.NoError(t, err)
	}
	_, err = svc.CompleteNode(ctx, CompleteInput{UserID: "u1", RoadmapID: rm.ID, NodeID: 2})
	require.NoError(t, err)

	st, err = svc.Stats(ctx, "u1", rm.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, st.TotalNodes)
	assert.Equal(t, 2, st.CompletedNodes)
	assert.Equal(t, 66.67, st.ProgressPercentage)
}

func TestCourseService(t *testing.T) {
	s := openStore(t)
	svc := NewCourseService(s.CourseRepo(), nil)
	ctx := context.Background()

	_, err := svc.Import(ctx, nil)
	requireAPIError(t, err, http.StatusBadRequest, "empty_import")

	_, err = svc.Import(ctx, []course.Course{goCourse("a", 1), goCourse("a", 1)})
	requireAPIError(t, err, http.StatusBadRequest, "invalid_course")

	_, err = svc.Import(ctx, []course.Course{{Title: "no id"}})
	requireAPIError(t, err, http.StatusBadRequest, "invalid_course")

	n, err := svc.Import(ctx, []course.Course{goCourse("a", 1), goCourse("b", 2)})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := svc.Get(ctx, "b")
	require.NoError(t, err)
	assert.Len(t, got.Modules, 2)

	_, err = svc.Get(ctx, "zzz")
	requireAPIError(t, err, http.StatusNotFound, "course_not_found")

	list, err := svc.List(ctx, store.CourseFilter{Technology: "go"})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.List(ctx, store.CourseFilter{Limit: -1})
	requireAPIError(t, err, http.StatusBadRequest, "invalid_pagination")
}

func TestPersister(t *testing.T) {
	s := openStore(t)
	p := NewPersister(s.CourseRepo(), s.RoadmapRepo(), nil)
	ctx := context.Background()

	c := goCourse("tech-0001", 4)
	out := coursegen.Output{
		Courses:  []course.Course{c},
		Roadmaps: []roadmap.Roadmap{roadmap.FromCourse(c)},
	}
	require.NoError(t, p.Persist(ctx, out))
	require.NoError(t, p.Persist(ctx, out))

	n, err := s.CourseRepo().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rm, err := s.RoadmapRepo().GetByCourseID(ctx, "tech-0001")
	require.NoError(t, err)
	assert.Equal(t, "Go", rm.SkillTag)
	assert.Len(t, rm.Nodes, 4)

	count, err := s.RoadmapRepo().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
