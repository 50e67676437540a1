package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/courseforge/ent"
	"github.com/abhisek/courseforge/ent/userprogress"
)

type progressRepo struct {
	client *ent.Client
}

// Upsert creates or updates the row for the (user, roadmap, node) triple.
// A writer that loses the insert race retries once as an update.
func (r *progressRepo) Upsert(ctx context.Context, in ProgressInput) (*Progress, bool, error) {
	p, created, err := r.upsert(ctx, in)
	if errors.Is(err, ErrConflict) {
		return r.upsert(ctx, in)
	}
	return p, created, err
}

func (r *progressRepo) upsert(ctx context.Context, in ProgressInput) (*Progress, bool, error) {
	var (
		out     *Progress
		created bool
	)
	err := withTx(ctx, r.client, func(tx *ent.Tx) error {
		existing, err := tx.UserProgress.Query().
			Where(
				userprogress.UserID(in.UserID),
				userprogress.RoadmapID(in.RoadmapID),
				userprogress.NodeID(in.NodeID),
			).
			Only(ctx)
		if err != nil && !ent.IsNotFound(err) {
			return fmt.Errorf("query progress: %w", err)
		}

		var row *ent.UserProgress
		if existing == nil {
			row, err = tx.UserProgress.Create().
				SetUserID(in.UserID).
				SetRoadmapID(in.RoadmapID).
				SetNodeID(in.NodeID).
				SetCompleted(in.Completed).
				SetNillableScore(in.Score).
				SetNillableCompletedAt(in.CompletedAt).
				Save(ctx)
			if err != nil {
				if ent.IsConstraintError(err) {
					return fmt.Errorf("progress for node %d: %w", in.NodeID, ErrConflict)
				}
				return fmt.Errorf("create progress: %w", err)
			}
			created = true
		} else {
			upd := existing.Update().
				SetCompleted(in.Completed)
			if in.Score != nil {
				upd.SetScore(*in.Score)
			} else {
				upd.ClearScore()
			}
			if in.CompletedAt != nil {
				upd.SetCompletedAt(*in.CompletedAt)
			} else {
				upd.ClearCompletedAt()
			}
			row, err = upd.Save(ctx)
			if err != nil {
				return fmt.Errorf("update progress: %w", err)
			}
		}

		p := entProgressToProgress(row)
		out = &p
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, created, nil
}

func (r *progressRepo) List(ctx context.Context, f ProgressFilter) ([]Progress, error) {
	query := r.client.UserProgress.Query().
		Order(ent.Asc(userprogress.FieldRoadmapID), ent.Asc(userprogress.FieldNodeID))

	if f.UserID != "" {
		query = query.Where(userprogress.UserID(f.UserID))
	}
	if f.RoadmapID > 0 {
		query = query.Where(userprogress.RoadmapID(f.RoadmapID))
	}

	rows, err := query.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	out := make([]Progress, len(rows))
	for i, row := range rows {
		out[i] = entProgressToProgress(row)
	}
	return out, nil
}

func (r *progressRepo) CountCompleted(ctx context.Context, userID string, roadmapID, maxNodeID int) (int, error) {
	n, err := r.client.UserProgress.Query().
		Where(
			userprogress.UserID(userID),
			userprogress.RoadmapID(roadmapID),
			userprogress.Completed(true),
			userprogress.NodeIDLTE(maxNodeID),
		).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count completed: %w", err)
	}
	return n, nil
}

func entProgressToProgress(row *ent.UserProgress) Progress {
	return Progress{
		ID:          row.ID,
		UserID:      row.UserID,
		RoadmapID:   row.RoadmapID,
		NodeID:      row.NodeID,
		Completed:   row.Completed,
		Score:       row.Score,
		CompletedAt: row.CompletedAt,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
