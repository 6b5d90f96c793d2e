package enginetests

import (
	"github.com/bridgeflow/gateway/definitions"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockPipelineProvider struct {
	mock.Mock
}

func (m *MockPipelineProvider) GetPipelineByID(id uuid.UUID) (*definitions.Pipeline, error) {
	args := m.Called(id)
	arg0 := args.Get(0)
	if arg0 == nil {
		return nil, args.Error(1)
	}
	return arg0.(*definitions.Pipeline), args.Error(1)
}

func (m *MockPipelineProvider) GetWorkflowByID(id uuid.UUID) (*definitions.Workflow, error) {
	args := m.Called(id)
	arg0 := args.Get(0)
	if arg0 == nil {
		return nil, args.Error(1)
	}
	return arg0.(*definitions.Workflow), args.Error(1)
}
