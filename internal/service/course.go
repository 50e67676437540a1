package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/courseforge/internal/apierr"
	"github.com/abhisek/courseforge/internal/course"
	"github.com/abhisek/courseforge/internal/logger"
	"github.com/abhisek/courseforge/internal/store"
)

const MaxPageSize = 500

type CourseService struct {
	courses store.CourseRepo
	log     *logger.Logger
}

func NewCourseService(courses store.CourseRepo, log *logger.Logger) *CourseService {
	if log == nil {
		log = logger.Nop()
	}
	return &CourseService{courses: courses, log: log.With("service", "course")}
}

func (s *CourseService) List(ctx context.Context, f store.CourseFilter) ([]course.Course, error) {
	if f.Limit < 0 || f.Offset < 0 {
		return nil, apierr.BadRequest("invalid_pagination", "limit and offset must not be negative")
	}
	if f.Limit == 0 || f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	list, err := s.courses.List(ctx, f)
	if err != nil {
		return nil, apierr.Internal("list_courses_failed", err)
	}
	return list, nil
}

func (s *CourseService) Get(ctx context.Context, id string) (*course.Course, error) {
	c, err := s.courses.Get(ctx, id)
	if err != nil {
		return nil, apierr.Internal("load_course_failed", err)
	}
	if c == nil {
		return nil, apierr.NotFound("course_not_found", fmt.Sprintf("course %q not found", id))
	}
	return c, nil
}

// Import upserts a batch of courses and returns how many were stored.
func (s *CourseService) Import(ctx context.Context, courses []course.Course) (int, error) {
	if len(courses) == 0 {
		return 0, apierr.BadRequest("empty_import", "no courses in request body")
	}
	seen := make(map[string]bool, len(courses))
	for i, c := range courses {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return 0, apierr.BadRequest("invalid_course", fmt.Sprintf("course at index %d has no id", i))
		}
		if seen[id] {
			return 0, apierr.BadRequest("invalid_course", fmt.Sprintf("duplicate course id %q", id))
		}
		seen[id] = true
	}

	if err := s.courses.UpsertMany(ctx, courses); err != nil {
		return 0, apierr.Internal("import_courses_failed", err)
	}
	s.log.Info("imported courses", "count", len(courses))
	return len(courses), nil
}
