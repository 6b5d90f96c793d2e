package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/bridgeflow/gateway/definitions"
	gatewayerrors "github.com/bridgeflow/gateway/errors"
	"github.com/bridgeflow/gateway/mapping"
	"github.com/bridgeflow/gateway/query"
	"github.com/expr-lang/expr"
	"sort"
	"time"
)

// stepOutcome is the result of one successful step execution. branch is the
// 1-based order of the next step when a condition redirected control, zero
// for plain fall-through.
type stepOutcome struct {
	output   any
	received string
	branch   int
}

// executeSteps drives the sequential step machine: total order by stepOrder,
// condition branching, per-step timeouts and onError policies. The variable
// environment is threaded immutably from step to step.
func (r *pipelineRun) executeSteps(ctx context.Context) (string, error) {
	steps := r.pipeline.Steps
	if err := checkContiguity(steps); err != nil {
		return "", err
	}

	env := NewEnvironment(r.record)
	var lastReceived string

	idx := 1
	for idx >= 1 && idx <= len(steps) {
		step := steps[idx-1]

		if !step.IsActive {
			r.log.Debugf("skipping inactive step %d (%s)", step.StepOrder, step.StepName)
			idx++
			continue
		}

		outcome, err := r.runStepWithRetries(ctx, step, env)
		if err != nil {
			if isFatal(err) || step.OnError != definitions.OnErrorSkip {
				return lastReceived, err
			}
			r.log.WithError(err).Warnf("step %d (%s) failed, skipping", step.StepOrder, step.StepName)
			idx++
			continue
		}

		if outcome.received != "" {
			lastReceived = outcome.received
		}
		env = env.WithOutput(step.StepOrder, step.OutputVariable, outcome.output)

		if outcome.branch != 0 {
			idx = outcome.branch
		} else {
			idx++
		}
	}
	return lastReceived, nil
}

// isFatal reports errors that abort the run regardless of the step's onError
// policy: mapping correctness and IR integrity are not retryable.
func isFatal(err error) bool {
	return errors.Is(err, gatewayerrors.ErrMapping) ||
		errors.Is(err, gatewayerrors.ErrValidation) ||
		errors.Is(err, gatewayerrors.ErrConfig)
}

// runStepWithRetries re-invokes a failing step under onError=retry until it
// succeeds or maxRetries is exhausted, spacing attempts monotonically. Every
// retry is recorded as an intermediate RETRY log state.
func (r *pipelineRun) runStepWithRetries(ctx context.Context, step definitions.WorkflowStep, env *Environment) (stepOutcome, error) {
	attempt := 0
	for {
		outcome, err := r.runStep(ctx, step, env)
		if err == nil {
			return outcome, nil
		}
		if isFatal(err) {
			return outcome, err
		}
		if step.OnError != definitions.OnErrorRetry || attempt >= step.MaxRetries {
			return outcome, err
		}
		attempt++
		r.retries++
		r.log.WithError(err).Warnf("retrying step %d (%s) (%d/%d)", step.StepOrder, step.StepName, attempt, step.MaxRetries)
		if markErr := r.engine.logStore.MarkRetry(r.entry.ID, r.retries, err.Error()); markErr != nil {
			r.log.WithError(markErr).Error("could not record retry state")
		}
		select {
		case <-time.After(r.engine.retryBackOff * time.Duration(attempt)):
		case <-ctx.Done():
			return outcome, gatewayerrors.NewDestinationTimeoutError(step.StepName, ctx.Err())
		}
	}
}

func (r *pipelineRun) runStep(ctx context.Context, step definitions.WorkflowStep, env *Environment) (stepOutcome, error) {
	switch step.StepType {
	case definitions.StepDelay:
		return r.runDelayStep(ctx, step)
	case definitions.StepCondition:
		return r.runConditionStep(step, env)
	case definitions.StepTransform:
		return r.runTransformStep(step, env)
	case definitions.StepRestCall:
		return r.runRestCallStep(ctx, step, env)
	case definitions.StepDBQuery:
		return r.runQueryStep(ctx, step, env, false)
	case definitions.StepSAPQuery:
		return r.runQueryStep(ctx, step, env, true)
	}
	return stepOutcome{}, gatewayerrors.NewValidationError("unknown step type %q", step.StepType)
}

func (r *pipelineRun) stepContext(ctx context.Context, step definitions.WorkflowStep) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(step.TimeoutSeconds*float64(time.Second)))
}

// runDelayStep suspends the run for the configured duration. This is the one
// step type meant to block without doing I/O; it answers to run cancellation
// but not to the step timeout.
func (r *pipelineRun) runDelayStep(ctx context.Context, step definitions.WorkflowStep) (stepOutcome, error) {
	var cfg definitions.DelayConfig
	if err := definitions.DecodeStepConfig(step.Config, &cfg); err != nil {
		return stepOutcome{}, gatewayerrors.NewValidationError("malformed delay config: %v", err)
	}
	select {
	case <-time.After(time.Duration(cfg.DurationSeconds * float64(time.Second))):
		return stepOutcome{output: true}, nil
	case <-ctx.Done():
		return stepOutcome{}, gatewayerrors.NewDestinationTimeoutError(step.StepName, ctx.Err())
	}
}

// runConditionStep evaluates the boolean expression against the variable
// scope and redirects control. An unset branch target falls through to the
// next step.
func (r *pipelineRun) runConditionStep(step definitions.WorkflowStep, env *Environment) (stepOutcome, error) {
	var cfg definitions.ConditionConfig
	if err := definitions.DecodeStepConfig(step.Config, &cfg); err != nil {
		return stepOutcome{}, gatewayerrors.NewValidationError("malformed condition config: %v", err)
	}
	result, err := expr.Eval(cfg.Expression, env.Snapshot())
	if err != nil {
		return stepOutcome{}, gatewayerrors.NewValidationError("condition expression failed: %v", err)
	}
	value, ok := result.(bool)
	if !ok {
		return stepOutcome{}, gatewayerrors.NewValidationError("condition expression yielded %T, want bool", result)
	}
	branch := 0
	if value {
		branch = cfg.OnTrueStep
	} else {
		branch = cfg.OnFalseStep
	}
	return stepOutcome{output: value, branch: branch}, nil
}

// runTransformStep renames keys of the step input. Keys without a rename
// entry pass through unchanged.
func (r *pipelineRun) runTransformStep(step definitions.WorkflowStep, env *Environment) (stepOutcome, error) {
	var cfg definitions.TransformStepConfig
	if err := definitions.DecodeStepConfig(step.Config, &cfg); err != nil {
		return stepOutcome{}, gatewayerrors.NewValidationError("malformed transform config: %v", err)
	}
	input := env.ResolveInput(step.InputMapping)
	output := make(map[string]any, len(input))
	for key, value := range input {
		if renamed, ok := cfg.Rename[key]; ok {
			output[renamed] = value
		} else {
			output[key] = value
		}
	}
	return stepOutcome{output: output}, nil
}

func (r *pipelineRun) runRestCallStep(ctx context.Context, step definitions.WorkflowStep, env *Environment) (stepOutcome, error) {
	var cfg definitions.RestCallConfig
	if err := definitions.DecodeStepConfig(step.Config, &cfg); err != nil {
		return stepOutcome{}, gatewayerrors.NewValidationError("malformed rest_call config: %v", err)
	}

	var body []byte
	if cfg.BodyTemplate != "" {
		body = []byte(env.ExpandString(cfg.BodyTemplate))
	} else {
		var err error
		body, err = json.Marshal(env.ResolveInput(step.InputMapping))
		if err != nil {
			return stepOutcome{}, gatewayerrors.NewValidationError("could not marshal step input: %v", err)
		}
	}

	stepCtx, cancel := r.stepContext(ctx, step)
	defer cancel()

	result, err := r.engine.adapter.Execute(stepCtx, definitions.DestinationRef{
		Type: definitions.DestinationREST,
		ID:   cfg.DestinationID,
	}, &definitions.RESTRequest{
		Method: cfg.Method,
		Path:   env.ExpandString(cfg.Path),
		Body:   body,
	})
	if err != nil {
		return stepOutcome{}, err
	}

	var output any = string(result.Body)
	var parsed map[string]any
	if json.Unmarshal(result.Body, &parsed) == nil {
		output = parsed
	}
	return stepOutcome{output: output, received: string(result.Body)}, nil
}

func (r *pipelineRun) runQueryStep(ctx context.Context, step definitions.WorkflowStep, env *Environment, sap bool) (stepOutcome, error) {
	dialect := query.DialectMySQL
	destinationType := definitions.DestinationDatabase
	var destinationID, schema, table, pkColumn, customQuery string
	var op definitions.QueryOperation

	if sap {
		var cfg definitions.SAPQueryConfig
		if err := definitions.DecodeStepConfig(step.Config, &cfg); err != nil {
			return stepOutcome{}, gatewayerrors.NewValidationError("malformed sap_query config: %v", err)
		}
		dialect = query.DialectSAP
		destinationType = definitions.DestinationSAP
		destinationID, schema, table = cfg.DestinationID, cfg.Schema, cfg.Table
		pkColumn, op = cfg.PrimaryKeyColumn, cfg.QueryType
	} else {
		var cfg definitions.DBQueryConfig
		if err := definitions.DecodeStepConfig(step.Config, &cfg); err != nil {
			return stepOutcome{}, gatewayerrors.NewValidationError("malformed db_query config: %v", err)
		}
		destinationID, table = cfg.DestinationID, cfg.Table
		pkColumn, op, customQuery = cfg.PrimaryKeyColumn, cfg.QueryType, cfg.CustomQuery
	}
	if op == "" {
		op = definitions.OpInsert
	}

	input := env.ResolveInput(step.InputMapping)

	var stmt *query.Statement
	if op == definitions.OpSelect {
		stmt = query.BuildSelect(dialect, schema, table, customQuery)
	} else {
		columns, err := r.stepColumns(input)
		if err != nil {
			return stepOutcome{}, err
		}
		stmt, err = query.Build(dialect, schema, table, columns, op, pkColumn)
		if err != nil {
			return stepOutcome{}, err
		}
	}

	stepCtx, cancel := r.stepContext(ctx, step)
	defer cancel()

	result, err := r.engine.adapter.Execute(stepCtx, definitions.DestinationRef{
		Type: destinationType,
		ID:   destinationID,
	}, stmt)
	if err != nil {
		return stepOutcome{}, err
	}

	if op == definitions.OpSelect {
		var rows []map[string]any
		if err := json.Unmarshal(result.Body, &rows); err != nil {
			return stepOutcome{}, gatewayerrors.NewValidationError("could not decode query result: %v", err)
		}
		return stepOutcome{output: rows, received: string(result.Body)}, nil
	}
	return stepOutcome{
		output:   map[string]any{"rowsAffected": result.RowsAffected},
		received: fmt.Sprintf("%d row(s) affected", result.RowsAffected),
	}, nil
}

// stepColumns maps the step input into destination columns. Pipelines with
// field mappings reuse them; otherwise the input's keys become the columns,
// sorted for deterministic statement text.
func (r *pipelineRun) stepColumns(input definitions.Record) ([]mapping.ResolvedColumn, error) {
	if len(r.pipeline.FieldMappings) > 0 {
		return mapping.Resolve(input, r.pipeline.FieldMappings)
	}
	keys := make([]string, 0, len(input))
	for key := range input {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	columns := make([]mapping.ResolvedColumn, len(keys))
	for i, key := range keys {
		columns[i] = mapping.ResolvedColumn{Column: key, Value: input[key]}
	}
	return columns, nil
}

func checkContiguity(steps []definitions.WorkflowStep) error {
	for i, step := range steps {
		if step.StepOrder != i+1 {
			return gatewayerrors.NewValidationError("step order is not contiguous: position %d holds order %d", i+1, step.StepOrder)
		}
	}
	return nil
}
