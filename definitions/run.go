package definitions

import (
	"github.com/bridgeflow/gateway/models"
	"github.com/google/uuid"
)

// RunUpdate reports the terminal outcome of one pipeline run.
type RunUpdate struct {
	RunID      uuid.UUID
	PipelineID uuid.UUID
	Status     models.LogStatus
	Error      error
}
