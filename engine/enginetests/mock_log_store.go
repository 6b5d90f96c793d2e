package enginetests

import (
	"github.com/bridgeflow/gateway/definitions"
	"github.com/bridgeflow/gateway/models"
	"github.com/stretchr/testify/mock"
	"time"
)

type MockLogStore struct {
	mock.Mock
}

func (m *MockLogStore) Append(entry *models.ExecutionLogEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockLogStore) MarkRetry(id uint, retryCount int, message string) error {
	args := m.Called(id, retryCount, message)
	return args.Error(0)
}

func (m *MockLogStore) Finalize(id uint, status models.LogStatus, message, dataReceived string) error {
	args := m.Called(id, status, message, dataReceived)
	return args.Error(0)
}

func (m *MockLogStore) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockLogStore) Query(filter definitions.LogFilter) ([]models.ExecutionLogEntry, int64, error) {
	args := m.Called(filter)
	arg0 := args.Get(0)
	if arg0 == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return arg0.([]models.ExecutionLogEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockLogStore) Stats() (*definitions.LogStats, error) {
	args := m.Called()
	arg0 := args.Get(0)
	if arg0 == nil {
		return nil, args.Error(1)
	}
	return arg0.(*definitions.LogStats), args.Error(1)
}

func (m *MockLogStore) PurgeExpired(now time.Time) (int64, error) {
	args := m.Called(now)
	return args.Get(0).(int64), args.Error(1)
}
