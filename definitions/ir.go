package definitions

import (
	"github.com/google/uuid"
)

type SourceType string

const (
	SourceSenderApp  SourceType = "sender_app"
	SourceMQTTSource SourceType = "mqtt_source"
)

type DestinationType string

const (
	DestinationDatabase DestinationType = "database"
	DestinationREST     DestinationType = "rest"
	DestinationSAP      DestinationType = "sap"
)

type NullHandling string

const (
	NullSkip       NullHandling = "skip"
	NullUseDefault NullHandling = "use_default"
	NullRequired   NullHandling = "required"
)

type QueryOperation string

const (
	OpInsert QueryOperation = "insert"
	OpUpdate QueryOperation = "update"
	OpUpsert QueryOperation = "upsert"
	OpSelect QueryOperation = "select"
	OpDelete QueryOperation = "delete"
)

type StepType string

const (
	StepRestCall  StepType = "rest_call"
	StepDBQuery   StepType = "db_query"
	StepSAPQuery  StepType = "sap_query"
	StepTransform StepType = "transform"
	StepCondition StepType = "condition"
	StepDelay     StepType = "delay"
)

type OnErrorPolicy string

const (
	OnErrorStop  OnErrorPolicy = "stop"
	OnErrorSkip  OnErrorPolicy = "skip"
	OnErrorRetry OnErrorPolicy = "retry"
)

// RetentionPolicy governs how long execution log entries of a workflow are kept.
// DeleteFailedImmediately wins over RetentionHours for FAILED entries.
type RetentionPolicy struct {
	DeleteFailedImmediately bool    `json:"deleteFailedImmediately,omitempty"`
	RetentionHours          float64 `json:"retentionHours,omitempty"`
}

// Workflow is the unit of authoring: replaced as a whole on every save,
// deleting it cascades to its pipelines.
type Workflow struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	IsActive    bool            `json:"isActive"`
	Retention   RetentionPolicy `json:"retention"`
	Pipelines   []Pipeline      `json:"pipelines"`
}

// Pipeline is one source-to-destination flow in its compiled form. Exactly one
// source identity and exactly one destination identity are set, matching
// SourceType and DestinationType. A pipeline with an empty Steps list runs the
// single-hop mapping path; a non-empty Steps list runs the sequential step
// machine instead.
type Pipeline struct {
	ID                uuid.UUID          `json:"id"`
	WorkflowID        uuid.UUID          `json:"workflowId"`
	SourceType        SourceType         `json:"sourceType"`
	ApplicationID     string             `json:"applicationId,omitempty"`
	MQTTSourceID      string             `json:"mqttSourceId,omitempty"`
	DestinationType   DestinationType    `json:"destinationType"`
	DestinationID     string             `json:"destinationId,omitempty"`
	RESTDestinationID string             `json:"restDestinationId,omitempty"`
	SAPDestinationID  string             `json:"sapDestinationId,omitempty"`
	TargetTable       string             `json:"targetTable,omitempty"`
	FieldMappings     []FieldMapping     `json:"fieldMappings"`
	SAPConfig         *SAPPipelineConfig `json:"sapConfig,omitempty"`
	Steps             []WorkflowStep     `json:"steps,omitempty"`
}

// FieldMapping binds one source field to one destination column. SourceField is
// unique within a pipeline and no two mappings may target the same
// DestinationColumn.
type FieldMapping struct {
	SourceField       string       `json:"sourceField"`
	DestinationColumn string       `json:"destinationColumn"`
	DataType          string       `json:"dataType,omitempty"`
	TransformType     string       `json:"transformType,omitempty"`
	TransformParam    string       `json:"transformParam,omitempty"`
	DefaultValue      string       `json:"defaultValue,omitempty"`
	NullHandling      NullHandling `json:"nullHandling,omitempty"`
}

type SAPPipelineConfig struct {
	QueryType        QueryOperation `json:"queryType"`
	TargetSchema     string         `json:"sapTargetSchema"`
	TargetTable      string         `json:"sapTargetTable"`
	PrimaryKeyColumn string         `json:"primaryKeyColumn,omitempty"`
}

// WorkflowStep is one unit of work in a sequential pipeline. StepOrder is
// 1-based and contiguous within a pipeline; the compiler renumbers on every
// structural change. Config holds the step-type specific block and is decoded
// into the typed step configs below.
type WorkflowStep struct {
	StepOrder      int               `json:"stepOrder"`
	StepName       string            `json:"stepName"`
	StepType       StepType          `json:"stepType"`
	OnError        OnErrorPolicy     `json:"onError"`
	MaxRetries     int               `json:"maxRetries"`
	TimeoutSeconds float64           `json:"timeoutSeconds"`
	IsActive       bool              `json:"isActive"`
	InputMapping   map[string]string `json:"inputMapping,omitempty"`
	OutputVariable string            `json:"outputVariable,omitempty"`
	Config         map[string]any    `json:"config,omitempty"`
}

type RestCallConfig struct {
	DestinationID string `mapstructure:"destinationId"`
	Method        string `mapstructure:"method"`
	Path          string `mapstructure:"path"`
	BodyTemplate  string `mapstructure:"bodyTemplate"`
}

type DBQueryConfig struct {
	DestinationID    string         `mapstructure:"destinationId"`
	QueryType        QueryOperation `mapstructure:"queryType"`
	Table            string         `mapstructure:"table"`
	PrimaryKeyColumn string         `mapstructure:"primaryKeyColumn"`
	CustomQuery      string         `mapstructure:"customQuery"`
}

type SAPQueryConfig struct {
	DestinationID    string         `mapstructure:"destinationId"`
	QueryType        QueryOperation `mapstructure:"queryType"`
	Schema           string         `mapstructure:"schema"`
	Table            string         `mapstructure:"table"`
	PrimaryKeyColumn string         `mapstructure:"primaryKeyColumn"`
}

type TransformStepConfig struct {
	Rename map[string]string `mapstructure:"rename"`
}

// ConditionConfig redirects control flow. OnTrueStep/OnFalseStep are 1-based
// step orders; zero means fall through to the next step.
type ConditionConfig struct {
	Expression  string `mapstructure:"expression"`
	OnTrueStep  int    `mapstructure:"onTrueStep"`
	OnFalseStep int    `mapstructure:"onFalseStep"`
}

type DelayConfig struct {
	DurationSeconds float64 `mapstructure:"durationSeconds"`
}

// Destination resolves the pipeline's single destination identity.
func (p *Pipeline) Destination() DestinationRef {
	switch p.DestinationType {
	case DestinationDatabase:
		return DestinationRef{Type: DestinationDatabase, ID: p.DestinationID}
	case DestinationREST:
		return DestinationRef{Type: DestinationREST, ID: p.RESTDestinationID}
	case DestinationSAP:
		return DestinationRef{Type: DestinationSAP, ID: p.SAPDestinationID}
	}
	return DestinationRef{}
}

// SourceID resolves the pipeline's single source identity.
func (p *Pipeline) SourceID() string {
	if p.SourceType == SourceSenderApp {
		return p.ApplicationID
	}
	return p.MQTTSourceID
}
