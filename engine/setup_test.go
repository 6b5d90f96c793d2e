package engine

import (
	"context"
	"github.com/bridgeflow/gateway/config"
	"github.com/bridgeflow/gateway/definitions"
	"github.com/bridgeflow/gateway/engine/enginetests"
	"github.com/bridgeflow/gateway/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"time"
)

type TestSuite struct {
	adapter  *enginetests.MockAdapter
	logStore *enginetests.MockLogStore
	provider *enginetests.MockPipelineProvider
}

func setupTestEngine() (*Engine, *TestSuite) {
	mockAdapter := new(enginetests.MockAdapter)
	mockLogStore := new(enginetests.MockLogStore)
	mockProvider := new(enginetests.MockPipelineProvider)
	ctx, cancelFunc := context.WithCancel(context.Background())

	return &Engine{
			config:            &config.Config{MaxWorkers: 2},
			ctx:               ctx,
			cancelFunc:        cancelFunc,
			adapter:           mockAdapter,
			logStore:          mockLogStore,
			provider:          mockProvider,
			runUpdatesChannel: make(chan definitions.RunUpdate, 4),
			log:               logrus.New(),
			retryBackOff:      time.Millisecond,
			host:              "test-host",
		}, &TestSuite{
			adapter:  mockAdapter,
			logStore: mockLogStore,
			provider: mockProvider,
		}
}

func setupTestRun(e *Engine, pipeline *definitions.Pipeline, record definitions.Record) *pipelineRun {
	return &pipelineRun{
		engine:   e,
		workflow: &definitions.Workflow{ID: uuid.New(), IsActive: true},
		pipeline: pipeline,
		record:   record,
		entry:    &models.ExecutionLogEntry{ID: 1, Status: models.StatusPending},
		log:      e.log.WithField("run_id", "test"),
	}
}
