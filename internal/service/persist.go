package service

import (
	"context"
	"fmt"

	"github.com/abhisek/courseforge/internal/coursegen"
	"github.com/abhisek/courseforge/internal/logger"
	"github.com/abhisek/courseforge/internal/roadmap"
	"github.com/abhisek/courseforge/internal/store"
)

// Persister saves a generated batch: courses are upserted and roadmaps
// created only for courses that do not have one yet.
type Persister struct {
	courses  store.CourseRepo
	roadmaps store.RoadmapRepo
	log      *logger.Logger
}

var _ coursegen.Persister = (*Persister)(nil)

func NewPersister(courses store.CourseRepo, roadmaps store.RoadmapRepo, log *logger.Logger) *Persister {
	if log == nil {
		log = logger.Nop()
	}
	return &Persister{courses: courses, roadmaps: roadmaps, log: log.With("component", "persister")}
}

func (p *Persister) Persist(ctx context.Context, out coursegen.Output) error {
	if err := p.courses.UpsertMany(ctx, out.Courses); err != nil {
		return fmt.Errorf("persist courses: %w", err)
	}

	created := 0
	for _, rm := range out.Roadmaps {
		nodes := rm.Nodes
		_, isNew, err := p.roadmaps.GetOrCreate(ctx, store.RoadmapInput{
			Title:       rm.Title,
			Description: rm.Description,
			CourseID:    rm.CourseID,
			SkillTag:    rm.SkillTag,
		}, func() []roadmap.Node { return nodes })
		if err != nil {
			return fmt.Errorf("persist roadmap for %s: %w", rm.CourseID, err)
		}
		if isNew {
			created++
		}
	}

	p.log.Info("persisted batch",
		"courses", len(out.Courses),
		"roadmaps_created", created,
		"roadmaps_existing", len(out.Roadmaps)-created,
	)
	return nil
}
