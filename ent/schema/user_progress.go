package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// UserProgress marks a node as completed by a user. node_id refers to the
// roadmap's node numbering, whether or not the nodes are materialized.
type UserProgress struct {
	ent.Schema
}

func (UserProgress) Mixin() []ent.Mixin {
	return []ent.Mixin{TimeMixin{}}
}

func (UserProgress) Fields() []ent.Field {
	return []ent.Field{
		field.String("user_id").NotEmpty(),
		field.Int("roadmap_id"),
		field.Int("node_id").Positive(),
		field.Bool("completed").Default(false),
		field.Int("score").
			Optional().
			Nillable(),
		field.Time("completed_at").
			Optional().
			Nillable(),
	}
}

func (UserProgress) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("roadmap", Roadmap.Type).
			Ref("progress").
			Field("roadmap_id").
			Unique().
			Required(),
	}
}

func (UserProgress) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "node_id").
			Edges("roadmap").
			Unique(),
		index.Fields("user_id"),
	}
}
