package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Roadmap is a learning path for one course. Deleting it removes its
// materialized nodes and all progress recorded against it.
type Roadmap struct {
	ent.Schema
}

func (Roadmap) Mixin() []ent.Mixin {
	return []ent.Mixin{TimeMixin{}}
}

func (Roadmap) Fields() []ent.Field {
	return []ent.Field{
		field.String("title").NotEmpty(),
		field.Text("description").Default(""),
		field.String("course_id").
			NotEmpty().
			Unique().
			Comment("Referenced course id; the course itself may not be stored"),
		field.String("skill_tag").Default(""),
	}
}

func (Roadmap) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("nodes", RoadmapNode.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("progress", UserProgress.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

func (Roadmap) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("skill_tag"),
	}
}
