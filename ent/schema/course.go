package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/abhisek/courseforge/internal/course"
)

// Course is a catalog entry, keyed by its generated id (e.g. tech-0001).
type Course struct {
	ent.Schema
}

func (Course) Mixin() []ent.Mixin {
	return []ent.Mixin{TimeMixin{}}
}

func (Course) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Unique().
			Immutable(),
		field.String("title"),
		field.String("author").Default(""),
		field.String("category").Default(""),
		field.String("level").Default(""),
		field.Int("price").Default(0),
		field.Int("original_price").Default(0),
		field.Int("discount_percentage").Default(0),
		field.Float("rating").Default(0),
		field.Bool("is_free").Default(false),
		field.String("image").Default(""),
		field.JSON("tags", []string{}).Optional(),
		field.JSON("skills", []string{}).Optional(),
		field.Text("description").Default(""),
		field.String("course_type").Default(""),
		field.String("language").
			Default("").
			Comment("Technology the course was generated for"),
		field.JSON("modules", []course.Module{}).Optional(),
		field.Bool("certificate_unlocked").Default(false),
		field.Int("certificate_threshold").Default(0),
	}
}

func (Course) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("category"),
		index.Fields("level"),
		index.Fields("language"),
	}
}
