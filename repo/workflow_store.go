package repo

import (
	"errors"
	"fmt"
	"github.com/bridgeflow/gateway/compiler"
	"github.com/bridgeflow/gateway/definitions"
	"github.com/bridgeflow/gateway/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrCouldNotPersistWorkflow = fmt.Errorf("could not persist workflow")

// DefaultWorkflowStore persists compiled workflow IR and serves it back to
// the engine. Saves replace the workflow as a whole; deletes cascade to the
// workflow's pipelines.
type DefaultWorkflowStore struct {
	db *gorm.DB
}

func NewWorkflowStore(db *gorm.DB) *DefaultWorkflowStore {
	return &DefaultWorkflowStore{db: db}
}

// Save stores the compiled workflow and its pipeline index in one
// transaction. Previously stored pipelines of the workflow are dropped first,
// so a save is always a full replacement.
func (s *DefaultWorkflowStore) Save(workflow *definitions.Workflow) error {
	ir, err := compiler.MarshalIR(workflow)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCouldNotPersistWorkflow, err)
	}

	record := &models.WorkflowRecord{
		ID:                      workflow.ID,
		Name:                    workflow.Name,
		Description:             workflow.Description,
		IsActive:                workflow.IsActive,
		DeleteFailedImmediately: workflow.Retention.DeleteFailedImmediately,
		RetentionHours:          workflow.Retention.RetentionHours,
		CompiledIR:              ir,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workflow_id = ?", workflow.ID).Delete(&models.PipelineRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Save(record).Error; err != nil {
			return err
		}
		for i := range workflow.Pipelines {
			pipelineIR, err := compiler.MarshalPipelineIR(&workflow.Pipelines[i])
			if err != nil {
				return err
			}
			pipelineRecord := &models.PipelineRecord{
				ID:         workflow.Pipelines[i].ID,
				WorkflowID: workflow.ID,
				CompiledIR: pipelineIR,
			}
			if err := tx.Create(pipelineRecord).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCouldNotPersistWorkflow, err)
	}
	return nil
}

// Delete removes a workflow and cascades to its pipelines.
func (s *DefaultWorkflowStore) Delete(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workflow_id = ?", id).Delete(&models.PipelineRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.WorkflowRecord{}, "id = ?", id).Error
	})
}

func (s *DefaultWorkflowStore) GetWorkflowByID(id uuid.UUID) (*definitions.Workflow, error) {
	var record models.WorkflowRecord
	err := s.db.First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return compiler.UnmarshalIR(record.CompiledIR)
}

func (s *DefaultWorkflowStore) GetPipelineByID(id uuid.UUID) (*definitions.Pipeline, error) {
	var record models.PipelineRecord
	err := s.db.First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return compiler.UnmarshalPipelineIR(record.CompiledIR)
}

// ListActiveWorkflows returns every active workflow's compiled IR.
func (s *DefaultWorkflowStore) ListActiveWorkflows() ([]*definitions.Workflow, error) {
	var records []models.WorkflowRecord
	err := s.db.Where("is_active = ?", true).Find(&records).Error
	if err != nil {
		return nil, err
	}
	workflows := make([]*definitions.Workflow, 0, len(records))
	for _, record := range records {
		workflow, err := compiler.UnmarshalIR(record.CompiledIR)
		if err != nil {
			return nil, err
		}
		workflows = append(workflows, workflow)
	}
	return workflows, nil
}
