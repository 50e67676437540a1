package store

import (
	"context"
	"fmt"

	"github.com/abhisek/courseforge/ent"
	entcourse "github.com/abhisek/courseforge/ent/course"
	"github.com/abhisek/courseforge/internal/course"
)

// upsertChunk keeps bulk inserts under SQLite's bound-parameter limit.
const upsertChunk = 200

type courseRepo struct {
	client *ent.Client
}

func (r *courseRepo) Upsert(ctx context.Context, c course.Course) error {
	err := courseCreate(r.client, c).
		OnConflictColumns(entcourse.FieldID).
		UpdateNewValues().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert course %s: %w", c.ID, err)
	}
	return nil
}

func (r *courseRepo) UpsertMany(ctx context.Context, courses []course.Course) error {
	return withTx(ctx, r.client, func(tx *ent.Tx) error {
		for start := 0; start < len(courses); start += upsertChunk {
			end := min(start+upsertChunk, len(courses))
			builders := make([]*ent.CourseCreate, 0, end-start)
			for _, c := range courses[start:end] {
				builders = append(builders, courseCreate(tx.Client(), c))
			}
			err := tx.Course.CreateBulk(builders...).
				OnConflictColumns(entcourse.FieldID).
				UpdateNewValues().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("upsert courses %d-%d: %w", start, end, err)
			}
		}
		return nil
	})
}

func (r *courseRepo) Get(ctx context.Context, id string) (*course.Course, error) {
	c, err := r.client.Course.Get(ctx, id)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get course %s: %w", id, err)
	}
	out := entCourseToCourse(c)
	return &out, nil
}

func (r *courseRepo) List(ctx context.Context, f CourseFilter) ([]course.Course, error) {
	query := r.client.Course.Query().
		Order(ent.Asc(entcourse.FieldID))

	if f.Category != "" {
		query = query.Where(entcourse.CategoryEqualFold(f.Category))
	}
	if f.Level != "" {
		query = query.Where(entcourse.LevelEqualFold(f.Level))
	}
	if f.Technology != "" {
		query = query.Where(entcourse.LanguageEqualFold(f.Technology))
	}
	if f.Offset > 0 {
		query = query.Offset(f.Offset)
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}

	rows, err := query.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	out := make([]course.Course, len(rows))
	for i, c := range rows {
		out[i] = entCourseToCourse(c)
	}
	return out, nil
}

func (r *courseRepo) Count(ctx context.Context) (int, error) {
	n, err := r.client.Course.Query().Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count courses: %w", err)
	}
	return n, nil
}

func courseCreate(client *ent.Client, c course.Course) *ent.CourseCreate {
	return client.Course.Create().
		SetID(c.ID).
		SetTitle(c.Title).
		SetAuthor(c.Author).
		SetCategory(c.Category).
		SetLevel(c.Level).
		SetPrice(c.Price).
		SetOriginalPrice(c.OriginalPrice).
		SetDiscountPercentage(c.DiscountPercentage).
		SetRating(c.Rating).
		SetIsFree(c.IsFree).
		SetImage(c.Image).
		SetTags(c.Tags).
		SetSkills(c.Skills).
		SetDescription(c.Description).
		SetCourseType(c.Type).
		SetLanguage(c.Language).
		SetModules(c.Modules).
		SetCertificateUnlocked(c.Certificate.Unlocked).
		SetCertificateThreshold(c.Certificate.Threshold)
}

func entCourseToCourse(c *ent.Course) course.Course {
	return course.Course{
		ID:                 c.ID,
		Title:              c.Title,
		Author:             c.Author,
		Category:           c.Category,
		Level:              c.Level,
		Price:              c.Price,
		OriginalPrice:      c.OriginalPrice,
		DiscountPercentage: c.DiscountPercentage,
		Rating:             c.Rating,
		IsFree:             c.IsFree,
		Image:              c.Image,
		Tags:               c.Tags,
		Skills:             c.Skills,
		Description:        c.Description,
		Type:               c.CourseType,
		Language:           c.Language,
		Modules:            c.Modules,
		Certificate: course.Certificate{
			Unlocked:  c.CertificateUnlocked,
			Threshold: c.CertificateThreshold,
		},
	}
}
