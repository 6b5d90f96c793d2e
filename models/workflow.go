package models

import (
	"github.com/google/uuid"
	"time"
)

// WorkflowRecord persists one saved workflow together with its compiled IR.
// The IR blob is the canonical JSON produced by the compiler; it is replaced
// as a whole on every save.
type WorkflowRecord struct {
	ID                      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name                    string    `gorm:"type:varchar(255);not null"`
	Description             string    `gorm:"type:text"`
	IsActive                bool      `gorm:"column:is_active;default:true"`
	DeleteFailedImmediately bool      `gorm:"column:delete_failed_immediately;default:false"`
	RetentionHours          float64   `gorm:"column:retention_hours"`
	CompiledIR              []byte    `gorm:"column:compiled_ir;type:blob"`
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

func (w *WorkflowRecord) TableName() string {
	return "workflows"
}

// PipelineRecord indexes one compiled pipeline for execution-time lookup.
// Rows are owned by their workflow and replaced together with it.
type PipelineRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	WorkflowID uuid.UUID `gorm:"column:workflow_id;type:uuid;not null;index"`
	CompiledIR []byte    `gorm:"column:compiled_ir;type:blob"`
	CreatedAt  time.Time
}

func (p *PipelineRecord) TableName() string {
	return "pipelines"
}
