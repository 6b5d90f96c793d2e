package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/bridgeflow/gateway/definitions"
	gatewayerrors "github.com/bridgeflow/gateway/errors"
	"github.com/bridgeflow/gateway/mapping"
	"github.com/bridgeflow/gateway/models"
	"github.com/bridgeflow/gateway/query"
	"github.com/sirupsen/logrus"
	"time"
)

const defaultSingleHopTimeout = 30 * time.Second

// pipelineRun is the state of one in-flight run: one inbound record against
// one compiled pipeline.
type pipelineRun struct {
	engine   *Engine
	workflow *definitions.Workflow
	pipeline *definitions.Pipeline
	record   definitions.Record
	entry    *models.ExecutionLogEntry
	log      *logrus.Entry
	retries  int
}

// execute runs the pipeline and returns what the destination answered. An
// empty step list selects the single-hop mapping path; otherwise the
// sequential step machine runs.
func (r *pipelineRun) execute(ctx context.Context) (string, error) {
	if len(r.pipeline.Steps) > 0 {
		return r.executeSteps(ctx)
	}
	return r.executeSingleHop(ctx)
}

func (r *pipelineRun) executeSingleHop(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultSingleHopTimeout)
	defer cancel()

	destination := r.pipeline.Destination()

	switch r.pipeline.DestinationType {
	case definitions.DestinationREST:
		body, err := r.restBody()
		if err != nil {
			return "", err
		}
		result, err := r.engine.adapter.Execute(ctx, destination, &definitions.RESTRequest{
			Method: "POST",
			Body:   body,
		})
		if err != nil {
			return "", err
		}
		return string(result.Body), nil

	case definitions.DestinationDatabase:
		columns, err := mapping.Resolve(r.record, r.pipeline.FieldMappings)
		if err != nil {
			return "", err
		}
		stmt, err := query.Build(query.DialectMySQL, "", r.pipeline.TargetTable, columns, definitions.OpInsert, "")
		if err != nil {
			return "", err
		}
		result, err := r.engine.adapter.Execute(ctx, destination, stmt)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d row(s) affected", result.RowsAffected), nil

	case definitions.DestinationSAP:
		sapConfig := r.pipeline.SAPConfig
		if sapConfig == nil {
			return "", gatewayerrors.NewValidationError("pipeline %s targets SAP but carries no SAP config", r.pipeline.ID)
		}
		columns, err := mapping.Resolve(r.record, r.pipeline.FieldMappings)
		if err != nil {
			return "", err
		}
		op := sapConfig.QueryType
		if op == "" {
			op = definitions.OpInsert
		}
		stmt, err := query.Build(query.DialectSAP, sapConfig.TargetSchema, sapConfig.TargetTable, columns, op, sapConfig.PrimaryKeyColumn)
		if err != nil {
			return "", err
		}
		result, err := r.engine.adapter.Execute(ctx, destination, stmt)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d row(s) affected", result.RowsAffected), nil
	}
	return "", fmt.Errorf("unknown destination type %q", r.pipeline.DestinationType)
}

// restBody renders the outgoing REST payload. With zero mappings the entire
// inbound payload is forwarded verbatim.
func (r *pipelineRun) restBody() ([]byte, error) {
	if len(r.pipeline.FieldMappings) == 0 {
		return json.Marshal(r.record)
	}
	columns, err := mapping.Resolve(r.record, r.pipeline.FieldMappings)
	if err != nil {
		return nil, err
	}
	payload := make(map[string]any, len(columns))
	for _, col := range columns {
		payload[col.Column] = col.Value
	}
	return json.Marshal(payload)
}
