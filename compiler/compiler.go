// Package compiler translates authored connection graphs into the flat
// pipeline IR the engine executes. Compilation is deterministic and
// idempotent: recompiling an unchanged graph yields byte-identical IR.
package compiler

import (
	"encoding/json"
	"fmt"
	"github.com/bridgeflow/gateway/definitions"
	"github.com/bridgeflow/gateway/errors"
	"github.com/bridgeflow/gateway/transform"
	"github.com/google/uuid"
	"strings"
)

const defaultStepTimeoutSeconds = 30

// ValidationErrors is the full set of configuration errors of one failed
// compile. A save is rejected as a whole: either every edge compiles or none
// is persisted.
type ValidationErrors []error

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, err := range v {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d configuration error(s): %s", len(v), strings.Join(msgs, "; "))
}

func (v ValidationErrors) Is(target error) bool {
	return target == errors.ErrConfig
}

// Compile validates the authored graph and produces the workflow IR. On any
// violation the full error list is returned and no partial result.
func Compile(graph *Graph) (*definitions.Workflow, error) {
	var errs ValidationErrors

	nodes := make(map[string]Node, len(graph.Nodes))
	for _, node := range graph.Nodes {
		nodes[node.ID] = node
	}

	workflow := &definitions.Workflow{
		ID:          graph.WorkflowID,
		Name:        graph.Name,
		Description: graph.Description,
		IsActive:    graph.IsActive,
		Retention:   graph.Retention,
		Pipelines:   make([]definitions.Pipeline, 0, len(graph.Edges)),
	}

	// Pipeline IDs derive from the connected node pair, so a second edge over
	// the same pair would silently collide with the first.
	seenPairs := make(map[string]struct{}, len(graph.Edges))
	for _, edge := range graph.Edges {
		pair := edge.SourceNodeID + "->" + edge.TargetNodeID
		if _, dup := seenPairs[pair]; dup {
			errs = append(errs, errors.NewConfigError(errors.ReasonDuplicateEdge,
				"edge %s is connected more than once", pair))
			continue
		}
		seenPairs[pair] = struct{}{}

		pipeline, pipelineErrs := compileEdge(graph.WorkflowID, nodes, edge)
		if len(pipelineErrs) > 0 {
			errs = append(errs, pipelineErrs...)
			continue
		}
		workflow.Pipelines = append(workflow.Pipelines, *pipeline)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return workflow, nil
}

func compileEdge(workflowID uuid.UUID, nodes map[string]Node, edge Edge) (*definitions.Pipeline, []error) {
	var errs []error

	source, ok := nodes[edge.SourceNodeID]
	if !ok || !source.Kind.isSource() || source.RefID == "" {
		errs = append(errs, errors.NewConfigError(errors.ReasonUnresolvedSource,
			"edge %s->%s does not resolve to a source identity", edge.SourceNodeID, edge.TargetNodeID))
	}
	target, ok := nodes[edge.TargetNodeID]
	if !ok || !target.Kind.isDestination() || target.RefID == "" {
		errs = append(errs, errors.NewConfigError(errors.ReasonUnresolvedDestination,
			"edge %s->%s does not resolve to a destination identity", edge.SourceNodeID, edge.TargetNodeID))
	}
	if len(errs) > 0 {
		return nil, errs
	}

	// Pipeline identity is derived from the workflow and the connected node
	// pair, so an unchanged graph always compiles to the same IDs.
	pipeline := &definitions.Pipeline{
		ID:         uuid.NewSHA1(workflowID, []byte(edge.SourceNodeID+"->"+edge.TargetNodeID)),
		WorkflowID: workflowID,
	}

	switch source.Kind {
	case NodeSenderApp:
		pipeline.SourceType = definitions.SourceSenderApp
		pipeline.ApplicationID = source.RefID
	case NodeMQTTSource:
		pipeline.SourceType = definitions.SourceMQTTSource
		pipeline.MQTTSourceID = source.RefID
	}

	switch target.Kind {
	case NodeDatabase:
		pipeline.DestinationType = definitions.DestinationDatabase
		pipeline.DestinationID = target.RefID
	case NodeREST:
		pipeline.DestinationType = definitions.DestinationREST
		pipeline.RESTDestinationID = target.RefID
	case NodeSAP:
		pipeline.DestinationType = definitions.DestinationSAP
		pipeline.SAPDestinationID = target.RefID
	}

	config := edge.Config
	if config == nil {
		config = &EdgeConfig{}
	}
	pipeline.TargetTable = config.TargetTable
	pipeline.FieldMappings = config.FieldMappings
	if pipeline.FieldMappings == nil {
		pipeline.FieldMappings = []definitions.FieldMapping{}
	}
	pipeline.SAPConfig = config.SAPConfig

	errs = append(errs, validateMappings(pipeline)...)

	if len(config.Steps) > 0 {
		steps, stepErrs := compileSteps(config.Steps)
		errs = append(errs, stepErrs...)
		pipeline.Steps = steps
	} else {
		errs = append(errs, validateSingleHop(pipeline)...)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return pipeline, nil
}

func validateMappings(pipeline *definitions.Pipeline) []error {
	var errs []error
	columns := make(map[string]struct{}, len(pipeline.FieldMappings))
	sources := make(map[string]struct{}, len(pipeline.FieldMappings))
	for _, m := range pipeline.FieldMappings {
		if _, dup := columns[m.DestinationColumn]; dup {
			errs = append(errs, errors.NewConfigError(errors.ReasonDuplicateColumn,
				"pipeline %s maps destination column %q more than once", pipeline.ID, m.DestinationColumn))
		}
		columns[m.DestinationColumn] = struct{}{}
		if _, dup := sources[m.SourceField]; dup {
			errs = append(errs, errors.NewConfigError(errors.ReasonDuplicateSourceField,
				"pipeline %s maps source field %q more than once", pipeline.ID, m.SourceField))
		}
		sources[m.SourceField] = struct{}{}
		if m.TransformType != "" && !transform.Known(m.TransformType) {
			errs = append(errs, errors.NewConfigError(errors.ReasonUnknownTransform,
				"pipeline %s: unknown transform type %q on field %q", pipeline.ID, m.TransformType, m.SourceField))
		}
	}
	return errs
}

// validateSingleHop enforces the invariants of mapping-path pipelines. REST
// destinations may forward the payload verbatim with zero mappings.
func validateSingleHop(pipeline *definitions.Pipeline) []error {
	var errs []error
	switch pipeline.DestinationType {
	case definitions.DestinationDatabase:
		if len(pipeline.FieldMappings) == 0 {
			errs = append(errs, errors.NewConfigError(errors.ReasonMissingMappings,
				"pipeline %s writes to a database and needs at least one field mapping", pipeline.ID))
		}
		if pipeline.TargetTable == "" {
			errs = append(errs, errors.NewConfigError(errors.ReasonMissingTargetTable,
				"pipeline %s writes to a database and needs a target table", pipeline.ID))
		}
	case definitions.DestinationSAP:
		if len(pipeline.FieldMappings) == 0 {
			errs = append(errs, errors.NewConfigError(errors.ReasonMissingMappings,
				"pipeline %s writes to SAP and needs at least one field mapping", pipeline.ID))
		}
		if pipeline.SAPConfig == nil || pipeline.SAPConfig.TargetSchema == "" || pipeline.SAPConfig.TargetTable == "" {
			errs = append(errs, errors.NewConfigError(errors.ReasonMissingTargetTable,
				"pipeline %s writes to SAP and needs a target schema and table", pipeline.ID))
		} else if requiresPrimaryKey(pipeline.SAPConfig.QueryType) && pipeline.SAPConfig.PrimaryKeyColumn == "" {
			errs = append(errs, errors.NewConfigError(errors.ReasonMissingPrimaryKey,
				"pipeline %s: %s requires a primary key column", pipeline.ID, pipeline.SAPConfig.QueryType))
		}
	}
	return errs
}

func requiresPrimaryKey(op definitions.QueryOperation) bool {
	return op == definitions.OpUpdate || op == definitions.OpDelete
}

// compileSteps commits the authored step list (renumbering stepOrder
// contiguously) and validates every step, including branch target ranges and
// type-specific config blocks.
func compileSteps(authored []definitions.WorkflowStep) ([]definitions.WorkflowStep, []error) {
	var errs []error
	steps := NewStepList(authored...).Commit()

	for i := range steps {
		step := &steps[i]
		if step.OnError == "" {
			step.OnError = definitions.OnErrorStop
		}
		if step.TimeoutSeconds == 0 {
			step.TimeoutSeconds = defaultStepTimeoutSeconds
		}
		if step.TimeoutSeconds < 0 {
			errs = append(errs, errors.NewConfigError(errors.ReasonInvalidStep,
				"step %d (%s): timeoutSeconds must be positive", step.StepOrder, step.StepName))
		}
		if step.MaxRetries < 0 {
			errs = append(errs, errors.NewConfigError(errors.ReasonInvalidStep,
				"step %d (%s): maxRetries must not be negative", step.StepOrder, step.StepName))
		}
		errs = append(errs, validateStepConfig(step, len(steps))...)
	}
	return steps, errs
}

func validateStepConfig(step *definitions.WorkflowStep, stepCount int) []error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, errors.NewConfigError(errors.ReasonInvalidStep,
			fmt.Sprintf("step %d (%s): ", step.StepOrder, step.StepName)+fmt.Sprintf(format, args...)))
	}

	switch step.StepType {
	case definitions.StepRestCall:
		var cfg definitions.RestCallConfig
		if err := definitions.DecodeStepConfig(step.Config, &cfg); err != nil {
			fail("invalid rest_call config: %v", err)
		} else if cfg.DestinationID == "" {
			fail("rest_call needs a destination")
		}
	case definitions.StepDBQuery:
		var cfg definitions.DBQueryConfig
		if err := definitions.DecodeStepConfig(step.Config, &cfg); err != nil {
			fail("invalid db_query config: %v", err)
		} else {
			if cfg.DestinationID == "" {
				fail("db_query needs a destination")
			}
			if cfg.Table == "" && cfg.CustomQuery == "" {
				fail("db_query needs a table or a custom query")
			}
			if requiresPrimaryKey(cfg.QueryType) && cfg.PrimaryKeyColumn == "" {
				errs = append(errs, errors.NewConfigError(errors.ReasonMissingPrimaryKey,
					"step %d (%s): %s requires a primary key column", step.StepOrder, step.StepName, cfg.QueryType))
			}
		}
	case definitions.StepSAPQuery:
		var cfg definitions.SAPQueryConfig
		if err := definitions.DecodeStepConfig(step.Config, &cfg); err != nil {
			fail("invalid sap_query config: %v", err)
		} else {
			if cfg.DestinationID == "" {
				fail("sap_query needs a destination")
			}
			if cfg.Schema == "" || cfg.Table == "" {
				fail("sap_query needs a schema and table")
			}
			if requiresPrimaryKey(cfg.QueryType) && cfg.PrimaryKeyColumn == "" {
				errs = append(errs, errors.NewConfigError(errors.ReasonMissingPrimaryKey,
					"step %d (%s): %s requires a primary key column", step.StepOrder, step.StepName, cfg.QueryType))
			}
		}
	case definitions.StepTransform:
		var cfg definitions.TransformStepConfig
		if err := definitions.DecodeStepConfig(step.Config, &cfg); err != nil {
			fail("invalid transform config: %v", err)
		} else if len(cfg.Rename) == 0 {
			fail("transform needs at least one rename")
		}
	case definitions.StepCondition:
		var cfg definitions.ConditionConfig
		if err := definitions.DecodeStepConfig(step.Config, &cfg); err != nil {
			fail("invalid condition config: %v", err)
		} else {
			if cfg.Expression == "" {
				fail("condition needs an expression")
			}
			for _, branch := range []struct {
				name   string
				target int
			}{{"onTrueStep", cfg.OnTrueStep}, {"onFalseStep", cfg.OnFalseStep}} {
				// Zero means "fall through to the next step".
				if branch.target != 0 && (branch.target < 1 || branch.target > stepCount) {
					errs = append(errs, errors.NewConfigError(errors.ReasonDanglingConditionRef,
						"step %d (%s): %s references step %d which does not exist",
						step.StepOrder, step.StepName, branch.name, branch.target))
				}
			}
		}
	case definitions.StepDelay:
		var cfg definitions.DelayConfig
		if err := definitions.DecodeStepConfig(step.Config, &cfg); err != nil {
			fail("invalid delay config: %v", err)
		} else if cfg.DurationSeconds <= 0 {
			fail("delay needs a positive duration")
		}
	default:
		fail("unknown step type %q", step.StepType)
	}
	return errs
}

// MarshalIR renders the compiled workflow as canonical JSON. Struct field
// order is fixed and encoding/json sorts map keys, so equal workflows always
// marshal to equal bytes.
func MarshalIR(workflow *definitions.Workflow) ([]byte, error) {
	return json.Marshal(workflow)
}

// UnmarshalIR loads a compiled workflow back from its canonical JSON.
func UnmarshalIR(data []byte) (*definitions.Workflow, error) {
	var workflow definitions.Workflow
	if err := json.Unmarshal(data, &workflow); err != nil {
		return nil, errors.NewValidationError("malformed workflow IR: %v", err)
	}
	return &workflow, nil
}

// MarshalPipelineIR renders one compiled pipeline as canonical JSON.
func MarshalPipelineIR(pipeline *definitions.Pipeline) ([]byte, error) {
	return json.Marshal(pipeline)
}

// UnmarshalPipelineIR loads one compiled pipeline from its canonical JSON.
func UnmarshalPipelineIR(data []byte) (*definitions.Pipeline, error) {
	var pipeline definitions.Pipeline
	if err := json.Unmarshal(data, &pipeline); err != nil {
		return nil, errors.NewValidationError("malformed pipeline IR: %v", err)
	}
	return &pipeline, nil
}
