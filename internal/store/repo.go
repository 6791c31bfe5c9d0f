package store

import (
	"context"
	"time"
)

const (
	tableAssessments = "assessments"
	tableLLMRequests = "llm_request_events"
)

// QueryOpts configures event queries with filtering and pagination.
// Results are returned newest first.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single LLM request event.
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

// LLMRequestEvent is a stored LLM request.
type LLMRequestEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// ModelUsage aggregates token consumption for one model.
type ModelUsage struct {
	Model        string
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMRequests returns recorded requests matching opts.
	QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// UsageByModel sums requests and tokens per model, ordered by model.
	UsageByModel(ctx context.Context) ([]ModelUsage, error)
}

// AssessmentData is one analyzed sample and its outcome.
type AssessmentData struct {
	PH              float64
	Turbidity       float64
	Conductivity    float64
	DissolvedOxygen float64
	TDS             float64
	Threshold       float64

	Outcome    string
	Label      string
	Confidence float64
	Violation  string
	Error      string
	Report     string
}

// Assessment is a stored AssessmentData.
type Assessment struct {
	ID        int64
	UUID      string
	Sequence  int64
	Timestamp time.Time
	AssessmentData
}

// AssessmentRepo records the assessments made during a session.
type AssessmentRepo interface {
	// Append stores an assessment and returns its sequence number.
	Append(ctx context.Context, data AssessmentData) (int64, error)

	// SetReport attaches the rendered advisory report to an assessment.
	SetReport(ctx context.Context, sequence int64, report string) error

	// List returns stored assessments matching opts.
	List(ctx context.Context, opts QueryOpts) ([]Assessment, error)

	// Count returns the number of stored assessments.
	Count(ctx context.Context) (int, error)
}
