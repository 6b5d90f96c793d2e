package engine

import (
	"context"
	"encoding/json"
	"github.com/alitto/pond"
	"github.com/bridgeflow/gateway/config"
	"github.com/bridgeflow/gateway/definitions"
	"github.com/bridgeflow/gateway/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"os"
	"time"
)

// Engine executes compiled pipeline IR. Each inbound record becomes an
// independent run on the worker pool; runs share nothing but the immutable
// IR, so many runs of the same pipeline proceed concurrently without locks.
type Engine struct {
	config            *config.Config
	ctx               context.Context
	cancelFunc        context.CancelFunc
	adapter           definitions.DestinationAdapter
	logStore          definitions.LogStore
	provider          definitions.PipelineProvider
	workerPool        *pond.WorkerPool
	runUpdatesChannel chan definitions.RunUpdate
	log               *logrus.Logger
	retryBackOff      time.Duration
	host              string
}

func New(cfg *config.Config, adapter definitions.DestinationAdapter, logStore definitions.LogStore, provider definitions.PipelineProvider, log *logrus.Logger) *Engine {
	ctx, cancelFunc := context.WithCancel(context.Background())
	host, _ := os.Hostname()
	return &Engine{
		config:            cfg,
		ctx:               ctx,
		cancelFunc:        cancelFunc,
		adapter:           adapter,
		logStore:          logStore,
		provider:          provider,
		workerPool:        pond.New(cfg.MaxWorkers, cfg.MaxWorkers*2),
		runUpdatesChannel: make(chan definitions.RunUpdate, cfg.MaxWorkers*2),
		log:               log,
		retryBackOff:      cfg.RetryBackOff,
		host:              host,
	}
}

// Submit schedules one inbound record for execution and returns the run id.
func (e *Engine) Submit(pipelineID uuid.UUID, record definitions.Record) uuid.UUID {
	runID := uuid.New()
	e.workerPool.Submit(func() {
		e.process(runID, pipelineID, record)
	})
	return runID
}

// RunUpdates exposes terminal run outcomes. Updates are dropped when nobody
// is draining the channel; the execution log is the durable record.
func (e *Engine) RunUpdates() <-chan definitions.RunUpdate {
	return e.runUpdatesChannel
}

// Stop cancels in-flight runs and waits for the pool to drain.
func (e *Engine) Stop() {
	e.cancelFunc()
	e.workerPool.StopAndWait()
}

func (e *Engine) emitUpdate(update definitions.RunUpdate) {
	select {
	case e.runUpdatesChannel <- update:
	default:
		e.log.WithField("run_id", update.RunID).Debug("run update dropped, no listener")
	}
}

func (e *Engine) process(runID, pipelineID uuid.UUID, record definitions.Record) {
	logger := e.log.WithField("run_id", runID).WithField("pipeline_id", pipelineID)

	pipeline, err := e.provider.GetPipelineByID(pipelineID)
	if err != nil || pipeline == nil {
		logger.WithError(err).Error("pipeline not found, dropping record")
		e.emitUpdate(definitions.RunUpdate{RunID: runID, PipelineID: pipelineID, Status: models.StatusDropped, Error: err})
		return
	}

	workflow, err := e.provider.GetWorkflowByID(pipeline.WorkflowID)
	if err != nil || workflow == nil {
		logger.WithError(err).Error("owning workflow not found, dropping record")
		e.emitUpdate(definitions.RunUpdate{RunID: runID, PipelineID: pipelineID, Status: models.StatusDropped, Error: err})
		return
	}

	dataSent, _ := json.Marshal(record)
	entry := &models.ExecutionLogEntry{
		DataID:      runID.String(),
		Source:      pipeline.SourceID(),
		Destination: pipeline.Destination().ID,
		Host:        e.host,
		DataSent:    string(dataSent),
		Status:      models.StatusPending,
		WorkflowID:  workflow.ID,
	}
	if err := e.logStore.Append(entry); err != nil {
		logger.WithError(err).Error("could not append execution log entry")
	}

	if !workflow.IsActive {
		logger.Debug("workflow inactive, dropping record")
		e.finishRun(workflow, entry, runID, pipeline.ID, models.StatusDropped, nil, "")
		return
	}

	run := &pipelineRun{
		engine:   e,
		workflow: workflow,
		pipeline: pipeline,
		record:   record,
		entry:    entry,
		log:      logger,
	}
	dataReceived, runErr := run.execute(e.ctx)
	if runErr != nil {
		logger.WithError(runErr).Error("pipeline run failed")
		e.finishRun(workflow, entry, runID, pipeline.ID, models.StatusFailed, runErr, dataReceived)
		return
	}
	e.finishRun(workflow, entry, runID, pipeline.ID, models.StatusSuccess, nil, dataReceived)
}

// finishRun finalizes the log entry, applies the workflow's
// delete-failed-immediately policy and emits the run update.
func (e *Engine) finishRun(workflow *definitions.Workflow, entry *models.ExecutionLogEntry, runID, pipelineID uuid.UUID, status models.LogStatus, runErr error, dataReceived string) {
	message := "completed"
	if runErr != nil {
		message = runErr.Error()
	} else if status == models.StatusDropped {
		message = "dropped: workflow is inactive"
	}
	if err := e.logStore.Finalize(entry.ID, status, message, dataReceived); err != nil {
		e.log.WithError(err).Error("could not finalize execution log entry")
	}
	if status == models.StatusFailed && workflow.Retention.DeleteFailedImmediately {
		if err := e.logStore.Delete(entry.ID); err != nil {
			e.log.WithError(err).Error("could not delete failed execution log entry")
		}
	}
	e.emitUpdate(definitions.RunUpdate{RunID: runID, PipelineID: pipelineID, Status: status, Error: runErr})
}
