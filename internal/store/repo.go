package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/courseforge/internal/course"
	"github.com/abhisek/courseforge/internal/roadmap"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

type CourseFilter struct {
	Category   string
	Level      string
	Technology string
	Limit      int
	Offset     int
}

// CourseRepo stores generated courses keyed by course id.
type CourseRepo interface {
	// Upsert inserts c or replaces the stored course with the same id.
	Upsert(ctx context.Context, c course.Course) error
	UpsertMany(ctx context.Context, courses []course.Course) error

	// Get returns nil, nil when no course has that id.
	Get(ctx context.Context, id string) (*course.Course, error)
	List(ctx context.Context, f CourseFilter) ([]course.Course, error)
	Count(ctx context.Context) (int, error)
}

type RoadmapInput struct {
	Title       string
	Description string
	CourseID    string
	SkillTag    string
}

type RoadmapFilter struct {
	CourseID string

	// SkillTag matches case-insensitively as a substring.
	SkillTag string
	Limit    int
	Offset   int
}

type RoadmapRepo interface {
	// Create stores the roadmap and its nodes in one transaction. A
	// second roadmap for the same course id fails with ErrConflict.
	Create(ctx context.Context, in RoadmapInput, nodes []roadmap.Node) (*roadmap.Roadmap, error)

	// GetOrCreate returns the roadmap for in.CourseID, creating it with
	// the nodes from build when missing. The bool reports creation.
	GetOrCreate(ctx context.Context, in RoadmapInput, build func() []roadmap.Node) (*roadmap.Roadmap, bool, error)

	// Get and GetByCourseID return the roadmap with its materialized
	// nodes, or ErrNotFound.
	Get(ctx context.Context, id int) (*roadmap.Roadmap, error)
	GetByCourseID(ctx context.Context, courseID string) (*roadmap.Roadmap, error)

	// List returns roadmaps with their stored nodes, newest first.
	List(ctx context.Context, f RoadmapFilter) ([]roadmap.Roadmap, error)
	Count(ctx context.Context) (int, error)

	// Delete removes the roadmap with its nodes and progress.
	Delete(ctx context.Context, id int) error

	// Nodes returns the materialized nodes ordered by node id.
	Nodes(ctx context.Context, id int) ([]roadmap.Node, error)
}

// Progress is one user's completion record for one roadmap node.
type Progress struct {
	ID          int        `json:"id"`
	UserID      string     `json:"user_id"`
	RoadmapID   int        `json:"roadmap_id"`
	NodeID      int        `json:"node_id"`
	Completed   bool       `json:"completed"`
	Score       *int       `json:"score"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type ProgressInput struct {
	UserID      string
	RoadmapID   int
	NodeID      int
	Completed   bool
	Score       *int
	CompletedAt *time.Time
}

type ProgressFilter struct {
	UserID    string
	RoadmapID int
}

type ProgressRepo interface {
	// Upsert creates the (user, roadmap, node) record on first use and
	// updates it in place afterwards. The bool reports creation.
	Upsert(ctx context.Context, in ProgressInput) (*Progress, bool, error)
	List(ctx context.Context, f ProgressFilter) ([]Progress, error)

	// CountCompleted counts completed nodes with node_id <= maxNodeID.
	CountCompleted(ctx context.Context, userID string, roadmapID, maxNodeID int) (int, error)
}

// QueryOpts filters and pages event queries.
type QueryOpts struct {
	Limit   int       // 0 = unlimited
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string
}

// LLMRequestEventData is what the LLM logging decorator records.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

type LLMUsageByPurpose struct {
	Purpose      string  `json:"purpose"`
	Calls        int     `json:"calls"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}

type LLMUsageByModel struct {
	Model        string `json:"model"`
	Calls        int    `json:"calls"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageByPurpose, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsageByModel, error)
}
