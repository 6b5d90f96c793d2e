package definitions

import (
	"github.com/bridgeflow/gateway/models"
	"github.com/google/uuid"
	"time"
)

// LogFilter selects execution log entries for the query surface.
type LogFilter struct {
	Status      string
	Source      string
	Destination string
	From        *time.Time
	To          *time.Time
	Page        int
	PageSize    int
}

// LogStats is the aggregate view over the execution log.
type LogStats struct {
	ByStatus      map[string]int64 `json:"byStatus"`
	BySource      map[string]int64 `json:"bySource"`
	ByDestination map[string]int64 `json:"byDestination"`
	Last24h       int64            `json:"last24h"`
}

// LogStore records one audit entry per pipeline run. Entries are append-only
// once terminal; RetryCount increments only while the status is RETRY.
type LogStore interface {
	Append(entry *models.ExecutionLogEntry) error
	MarkRetry(id uint, retryCount int, message string) error
	Finalize(id uint, status models.LogStatus, message, dataReceived string) error
	Delete(id uint) error
	Query(filter LogFilter) ([]models.ExecutionLogEntry, int64, error)
	Stats() (*LogStats, error)
	PurgeExpired(now time.Time) (int64, error)
}

// PipelineProvider hands the engine immutable compiled IR. Implementations
// never expose the live authoring graph.
type PipelineProvider interface {
	GetPipelineByID(id uuid.UUID) (*Pipeline, error)
	GetWorkflowByID(id uuid.UUID) (*Workflow, error)
}
