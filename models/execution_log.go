package models

import (
	"github.com/google/uuid"
	"time"
)

type LogStatus string

const (
	StatusSuccess LogStatus = "SUCCESS"
	StatusFailed  LogStatus = "FAILED"
	StatusRetry   LogStatus = "RETRY"
	StatusDropped LogStatus = "DROPPED"
	StatusPending LogStatus = "PENDING"
)

// Terminal reports whether no further transition is allowed for the status.
func (s LogStatus) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed || s == StatusDropped
}

// ExecutionLogEntry is the audit record of one pipeline run. Append-only:
// after a terminal status nothing is mutated, except that RetryCount
// increments while the status is RETRY.
type ExecutionLogEntry struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	DataID       string    `gorm:"column:data_id;type:varchar(64);index"`
	Source       string    `gorm:"type:varchar(255);index"`
	Destination  string    `gorm:"type:varchar(255);index"`
	Host         string    `gorm:"type:varchar(255)"`
	DataSent     string    `gorm:"type:text"`
	DataReceived string    `gorm:"type:text"`
	Message      string    `gorm:"type:text"`
	Status       LogStatus `gorm:"type:varchar(16);index"`
	RetryCount   int       `gorm:"column:retry_count;default:0"`
	WorkflowID   uuid.UUID `gorm:"column:workflow_id;type:uuid;index"`
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time
}

func (e *ExecutionLogEntry) TableName() string {
	return "execution_logs"
}
