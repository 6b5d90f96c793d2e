package enginetests

import (
	"context"
	"github.com/bridgeflow/gateway/definitions"
	"github.com/stretchr/testify/mock"
)

type MockAdapter struct {
	mock.Mock
}

func (m *MockAdapter) Execute(ctx context.Context, ref definitions.DestinationRef, payload any) (*definitions.ExecutionResult, error) {
	args := m.Called(ctx, ref, payload)
	arg0 := args.Get(0)
	if arg0 == nil {
		return nil, args.Error(1)
	}
	return arg0.(*definitions.ExecutionResult), args.Error(1)
}
