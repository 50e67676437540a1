package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/courseforge/ent"
	"github.com/abhisek/courseforge/ent/predicate"
	entroadmap "github.com/abhisek/courseforge/ent/roadmap"
	"github.com/abhisek/courseforge/ent/roadmapnode"
	"github.com/abhisek/courseforge/ent/userprogress"
	"github.com/abhisek/courseforge/internal/roadmap"
)

type roadmapRepo struct {
	client *ent.Client
}

func (r *roadmapRepo) Create(ctx context.Context, in RoadmapInput, nodes []roadmap.Node) (*roadmap.Roadmap, error) {
	var out *roadmap.Roadmap
	err := withTx(ctx, r.client, func(tx *ent.Tx) error {
		rm, err := tx.Roadmap.Create().
			SetTitle(in.Title).
			SetDescription(in.Description).
			SetCourseID(in.CourseID).
			SetSkillTag(in.SkillTag).
			Save(ctx)
		if err != nil {
			if ent.IsConstraintError(err) {
				return fmt.Errorf("roadmap for course %q: %w", in.CourseID, ErrConflict)
			}
			return fmt.Errorf("create roadmap: %w", err)
		}

		if len(nodes) > 0 {
			builders := make([]*ent.RoadmapNodeCreate, len(nodes))
			for i, n := range nodes {
				builders[i] = tx.RoadmapNode.Create().
					SetRoadmapID(rm.ID).
					SetNodeID(n.NodeID).
					SetLabel(n.Label).
					SetDescription(n.Description).
					SetPositionX(n.PositionX).
					SetPositionY(n.PositionY).
					SetDependencies(n.Dependencies).
					SetModuleData(n.ModuleData)
			}
			if _, err := tx.RoadmapNode.CreateBulk(builders...).Save(ctx); err != nil {
				return fmt.Errorf("create roadmap nodes: %w", err)
			}
		}

		v := entRoadmapToRoadmap(rm)
		v.Nodes = nodes
		out = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *roadmapRepo) GetOrCreate(ctx context.Context, in RoadmapInput, build func() []roadmap.Node) (*roadmap.Roadmap, bool, error) {
	existing, err := r.GetByCourseID(ctx, in.CourseID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	created, err := r.Create(ctx, in, build())
	if errors.Is(err, ErrConflict) {
		// Lost a race with another creator.
		existing, err := r.GetByCourseID(ctx, in.CourseID)
		return existing, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

func (r *roadmapRepo) Get(ctx context.Context, id int) (*roadmap.Roadmap, error) {
	return r.getOne(ctx, entroadmap.ID(id))
}

func (r *roadmapRepo) GetByCourseID(ctx context.Context, courseID string) (*roadmap.Roadmap, error) {
	return r.getOne(ctx, entroadmap.CourseID(courseID))
}

func (r *roadmapRepo) getOne(ctx context.Context, where ...predicate.Roadmap) (*roadmap.Roadmap, error) {
	rm, err := r.client.Roadmap.Query().
		Where(where...).
		WithNodes(func(q *ent.RoadmapNodeQuery) {
			q.Order(ent.Asc(roadmapnode.FieldNodeID))
		}).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get roadmap: %w", err)
	}
	out := entRoadmapToRoadmap(rm)
	out.Nodes = entNodesToNodes(rm.Edges.Nodes)
	return &out, nil
}

func (r *roadmapRepo) List(ctx context.Context, f RoadmapFilter) ([]roadmap.Roadmap, error) {
	query := r.client.Roadmap.Query().
		Order(ent.Desc(entroadmap.FieldCreatedAt), ent.Desc(entroadmap.FieldID)).
		WithNodes(func(q *ent.RoadmapNodeQuery) {
			q.Order(ent.Asc(roadmapnode.FieldNodeID))
		})

	if f.CourseID != "" {
		query = query.Where(entroadmap.CourseID(f.CourseID))
	}
	if f.SkillTag != "" {
		query = query.Where(entroadmap.SkillTagContainsFold(f.SkillTag))
	}
	if f.Offset > 0 {
		query = query.Offset(f.Offset)
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}

	rows, err := query.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roadmaps: %w", err)
	}
	out := make([]roadmap.Roadmap, len(rows))
	for i, rm := range rows {
		out[i] = entRoadmapToRoadmap(rm)
		out[i].Nodes = entNodesToNodes(rm.Edges.Nodes)
	}
	return out, nil
}

func (r *roadmapRepo) Count(ctx context.Context) (int, error) {
	n, err := r.client.Roadmap.Query().Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count roadmaps: %w", err)
	}
	return n, nil
}

func (r *roadmapRepo) Delete(ctx context.Context, id int) error {
	return withTx(ctx, r.client, func(tx *ent.Tx) error {
		if _, err := tx.UserProgress.Delete().Where(userprogress.RoadmapID(id)).Exec(ctx); err != nil {
			return fmt.Errorf("delete progress: %w", err)
		}
		if _, err := tx.RoadmapNode.Delete().Where(roadmapnode.RoadmapID(id)).Exec(ctx); err != nil {
			return fmt.Errorf("delete nodes: %w", err)
		}
		if err := tx.Roadmap.DeleteOneID(id).Exec(ctx); err != nil {
			if ent.IsNotFound(err) {
				return ErrNotFound
			}
			return fmt.Errorf("delete roadmap: %w", err)
		}
		return nil
	})
}

func (r *roadmapRepo) Nodes(ctx context.Context, id int) ([]roadmap.Node, error) {
	exists, err := r.client.Roadmap.Query().Where(entroadmap.ID(id)).Exist(ctx)
	if err != nil {
		return nil, fmt.Errorf("check roadmap: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	rows, err := r.client.RoadmapNode.Query().
		Where(roadmapnode.RoadmapID(id)).
		Order(ent.Asc(roadmapnode.FieldNodeID)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query roadmap nodes: %w", err)
	}
	return entNodesToNodes(rows), nil
}

func entRoadmapToRoadmap(rm *ent.Roadmap) roadmap.Roadmap {
	return roadmap.Roadmap{
		ID:          rm.ID,
		Title:       rm.Title,
		Description: rm.Description,
		CourseID:    rm.CourseID,
		SkillTag:    rm.SkillTag,
		CreatedAt:   rm.CreatedAt,
		UpdatedAt:   rm.UpdatedAt,
	}
}

func entNodesToNodes(rows []*ent.RoadmapNode) []roadmap.Node {
	out := make([]roadmap.Node, len(rows))
	for i, n := range rows {
		deps := n.Dependencies
		if deps == nil {
			deps = []int{}
		}
		out[i] = roadmap.Node{
			NodeID:       n.NodeID,
			Label:        n.Label,
			Description:  n.Description,
			PositionX:    n.PositionX,
			PositionY:    n.PositionY,
			Dependencies: deps,
			ModuleData:   n.ModuleData,
		}
	}
	return out
}
