package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/abhisek/courseforge/internal/roadmap"
)

// RoadmapNode is one materialized step of a roadmap.
type RoadmapNode struct {
	ent.Schema
}

func (RoadmapNode) Fields() []ent.Field {
	return []ent.Field{
		field.Int("roadmap_id"),
		field.Int("node_id").
			Positive().
			Comment("1-based position in the chain"),
		field.String("label"),
		field.Text("description").Default(""),
		field.Int("position_x"),
		field.Int("position_y"),
		field.JSON("dependencies", []int{}),
		field.JSON("module_data", &roadmap.ModuleData{}).Optional(),
	}
}

func (RoadmapNode) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("roadmap", Roadmap.Type).
			Ref("nodes").
			Field("roadmap_id").
			Unique().
			Required(),
	}
}

func (RoadmapNode) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("node_id").
			Edges("roadmap").
			Unique(),
	}
}
