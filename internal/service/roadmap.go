// Package service implements the roadmap, progress and course operations
// exposed over HTTP. Inputs are checked up front and failures come back as
// *apierr.Error.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/abhisek/courseforge/internal/apierr"
	"github.com/abhisek/courseforge/internal/course"
	"github.com/abhisek/courseforge/internal/logger"
	"github.com/abhisek/courseforge/internal/roadmap"
	"github.com/abhisek/courseforge/internal/store"
)

const (
	AnonymousUser         = "anonymous"
	DefaultGeneratedTitle = "Generated Course"
)

// DefaultRoadmaps are seeded the first time roadmaps are listed against an
// empty table.
var DefaultRoadmaps = []store.RoadmapInput{
	{Title: "HTML Fundamentals Course", Description: "Learn the building blocks of the web with HTML", CourseID: "html-course-1", SkillTag: "html"},
	{Title: "Python Programming Course", Description: "Master Python programming from basics to advanced", CourseID: "python-course-1", SkillTag: "python"},
	{Title: "React Development Course", Description: "Build modern web applications with React", CourseID: "react-course-1", SkillTag: "react"},
	{Title: "JavaScript Essentials", Description: "Learn modern JavaScript for web development", CourseID: "javascript-course-1", SkillTag: "javascript"},
	{Title: "CSS Styling Mastery", Description: "Create beautiful layouts with CSS", CourseID: "css-course-1", SkillTag: "css"},
}

type CreateRoadmapInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CourseID    string `json:"course_id"`
	SkillTag    string `json:"skill_tag"`
}

type GenerateInput struct {
	CourseID    string `json:"course_id"`
	CourseTitle string `json:"course_title"`
	SkillTag    string `json:"skill_tag"`
}

type CompleteInput struct {
	UserID    string `json:"user_id"`
	RoadmapID int    `json:"roadmap_id"`
	NodeID    int    `json:"node_id"`
	Score     *int   `json:"score"`
}

type Stats struct {
	UserID             string  `json:"user_id"`
	RoadmapID          int     `json:"roadmap_id"`
	TotalNodes         int     `json:"total_nodes"`
	CompletedNodes     int     `json:"completed_nodes"`
	ProgressPercentage float64 `json:"progress_percentage"`
}

type RoadmapService struct {
	roadmaps store.RoadmapRepo
	progress store.ProgressRepo
	courses  store.CourseRepo
	log      *logger.Logger
	now      func() time.Time
}

// NewRoadmapService wires the service. courses may be nil, in which case
// node building always uses the fallback curricula.
func NewRoadmapService(roadmaps store.RoadmapRepo, progress store.ProgressRepo, courses store.CourseRepo, log *logger.Logger) *RoadmapService {
	if log == nil {
		log = logger.Nop()
	}
	return &RoadmapService{
		roadmaps: roadmaps,
		progress: progress,
		courses:  courses,
		log:      log.With("service", "roadmap"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *RoadmapService) List(ctx context.Context, f store.RoadmapFilter) ([]roadmap.Roadmap, error) {
	n, err := s.roadmaps.Count(ctx)
	if err != nil {
		return nil, apierr.Internal("list_roadmaps_failed", err)
	}
	if n == 0 {
		if err := s.seedDefaults(ctx); err != nil {
			return nil, apierr.Internal("seed_roadmaps_failed", err)
		}
	}

	list, err := s.roadmaps.List(ctx, f)
	if err != nil {
		return nil, apierr.Internal("list_roadmaps_failed", err)
	}
	for i := range list {
		if len(list[i].Nodes) == 0 {
			list[i].Nodes = s.buildNodes(ctx, list[i].CourseID, list[i].SkillTag, list[i].Title)
		}
	}
	return list, nil
}

func (s *RoadmapService) seedDefaults(ctx context.Context) error {
	for _, in := range DefaultRoadmaps {
		_, created, err := s.roadmaps.GetOrCreate(ctx, in, func() []roadmap.Node {
			return s.buildNodes(ctx, in.CourseID, in.SkillTag, in.Title)
		})
		if err != nil {
			return fmt.Errorf("seed %s: %w", in.CourseID, err)
		}
		if created {
			s.log.Info("seeded default roadmap", "course_id", in.CourseID)
		}
	}
	return nil
}

func (s *RoadmapService) Create(ctx context.Context, in CreateRoadmapInput) (*roadmap.Roadmap, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.CourseID = strings.TrimSpace(in.CourseID)
	if in.Title == "" || in.CourseID == "" {
		return nil, apierr.BadRequest("missing_parameters", "title and course_id are required")
	}

	nodes := s.buildNodes(ctx, in.CourseID, in.SkillTag, in.Title)
	rm, err := s.roadmaps.Create(ctx, store.RoadmapInput{
		Title:       in.Title,
		Description: in.Description,
		CourseID:    in.CourseID,
		SkillTag:    in.SkillTag,
	}, nodes)
	if errors.Is(err, store.ErrConflict) {
		return nil, apierr.Conflict("roadmap_exists", fmt.Sprintf("a roadmap for course %q already exists", in.CourseID))
	}
	if err != nil {
		return nil, apierr.Internal("create_roadmap_failed", err)
	}
	s.log.Info("created roadmap", "roadmap_id", rm.ID, "course_id", rm.CourseID, "nodes", len(nodes))
	return rm, nil
}

// Get returns the roadmap with its nodes. Roadmaps stored without nodes
// get them recomputed.
func (s *RoadmapService) Get(ctx context.Context, id int) (*roadmap.Roadmap, error) {
	rm, err := s.roadmaps.Get(ctx, id)
	if err != nil {
		return nil, s.lookupErr(id, err)
	}
	if len(rm.Nodes) == 0 {
		rm.Nodes = s.buildNodes(ctx, rm.CourseID, rm.SkillTag, rm.Title)
	}
	return rm, nil
}

func (s *RoadmapService) Delete(ctx context.Context, id int) error {
	if err := s.roadmaps.Delete(ctx, id); err != nil {
		return s.lookupErr(id, err)
	}
	s.log.Info("deleted roadmap", "roadmap_id", id)
	return nil
}

func (s *RoadmapService) Nodes(ctx context.Context, id int) ([]roadmap.Node, error) {
	rm, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return rm.Nodes, nil
}

// GenerateFromCourse returns the roadmap for in.CourseID, creating it when
// missing. The bool reports creation.
func (s *RoadmapService) GenerateFromCourse(ctx context.Context, in GenerateInput) (*roadmap.Roadmap, bool, error) {
	in.CourseID = strings.TrimSpace(in.CourseID)
	if in.CourseID == "" {
		return nil, false, apierr.BadRequest("missing_parameters", "course_id is required")
	}

	title := strings.TrimSpace(in.CourseTitle)
	if title == "" {
		title = DefaultGeneratedTitle
		if c := s.lookupCourse(ctx, in.CourseID); c != nil && c.Title != "" {
			title = c.Title
		}
	}

	rm, created, err := s.roadmaps.GetOrCreate(ctx, store.RoadmapInput{
		Title:       title,
		Description: roadmap.DefaultDescription(title),
		CourseID:    in.CourseID,
		SkillTag:    in.SkillTag,
	}, func() []roadmap.Node {
		return s.buildNodes(ctx, in.CourseID, in.SkillTag, title)
	})
	if err != nil {
		return nil, false, apierr.Internal("generate_roadmap_failed", err)
	}
	if len(rm.Nodes) == 0 {
		rm.Nodes = s.buildNodes(ctx, rm.CourseID, rm.SkillTag, rm.Title)
	}
	if created {
		s.log.Info("generated roadmap from course", "roadmap_id", rm.ID, "course_id", rm.CourseID)
	}
	return rm, created, nil
}

// CompleteNode records node completion for a user. Repeating it for the
// same node updates the existing record.
func (s *RoadmapService) CompleteNode(ctx context.Context, in CompleteInput) (*store.Progress, error) {
	if in.RoadmapID <= 0 || in.NodeID <= 0 {
		return nil, apierr.BadRequest("missing_parameters", "roadmap_id and node_id are required")
	}
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		userID = AnonymousUser
	}

	nodes, err := s.Nodes(ctx, in.RoadmapID)
	if err != nil {
		return nil, err
	}
	if !roadmap.HasNode(nodes, in.NodeID) {
		return nil, apierr.NotFound("node_not_found", fmt.Sprintf("node %d is not part of roadmap %d", in.NodeID, in.RoadmapID))
	}

	now := s.now()
	p, _, err := s.progress.Upsert(ctx, store.ProgressInput{
		UserID:      userID,
		RoadmapID:   in.RoadmapID,
		NodeID:      in.NodeID,
		Completed:   true,
		Score:       in.Score,
		CompletedAt: &now,
	})
	if err != nil {
		return nil, apierr.Internal("complete_node_failed", err)
	}
	return p, nil
}

func (s *RoadmapService) ListProgress(ctx context.Context, userID string, roadmapID int) ([]store.Progress, error) {
	rows, err := s.progress.List(ctx, store.ProgressFilter{UserID: userID, RoadmapID: roadmapID})
	if err != nil {
		return nil, apierr.Internal("list_progress_failed", err)
	}
	return rows, nil
}

func (s *RoadmapService) Stats(ctx context.Context, userID string, roadmapID int) (*Stats, error) {
	if roadmapID <= 0 {
		return nil, apierr.BadRequest("missing_parameters", "roadmap_id is required")
	}
	if strings.TrimSpace(userID) == "" {
		userID = AnonymousUser
	}

	nodes, err := s.Nodes(ctx, roadmapID)
	if err != nil {
		return nil, err
	}

	total := len(nodes)
	completed := 0
	if total > 0 {
		completed, err = s.progress.CountCompleted(ctx, userID, roadmapID, total)
		if err != nil {
			return nil, apierr.Internal("stats_failed", err)
		}
	}

	return &Stats{
		UserID:             userID,
		RoadmapID:          roadmapID,
		TotalNodes:         total,
		CompletedNodes:     completed,
		ProgressPercentage: Percentage(completed, total),
	}, nil
}

// Percentage is completed/total as a percentage rounded to two decimals,
// and 0 when total is 0.
func Percentage(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*100*100) / 100
}

// buildNodes uses the stored course's modules when the course is known and
// the fallback curricula otherwise.
func (s *RoadmapService) buildNodes(ctx context.Context, courseID, skillTag, title string) []roadmap.Node {
	var modules []course.Module
	if c := s.lookupCourse(ctx, courseID); c != nil {
		modules = c.Modules
	}
	return roadmap.BuildNodes(modules, skillTag, title)
}

func (s *RoadmapService) lookupCourse(ctx context.Context, courseID string) *course.Course {
	if s.courses == nil || courseID == "" {
		return nil
	}
	c, err := s.courses.Get(ctx, courseID)
	if err != nil {
		s.log.Warn("course lookup failed, using fallback nodes", "course_id", courseID, "error", err)
		return nil
	}
	return c
}

func (s *RoadmapService) lookupErr(id int, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apierr.NotFound("roadmap_not_found", fmt.Sprintf("roadmap %d not found", id))
	}
	return apierr.Internal("load_roadmap_failed", err)
}
