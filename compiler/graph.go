package compiler

import (
	"github.com/bridgeflow/gateway/definitions"
	"github.com/google/uuid"
)

type NodeKind string

const (
	NodeSenderApp  NodeKind = "sender_app"
	NodeMQTTSource NodeKind = "mqtt_source"
	NodeDatabase   NodeKind = "database"
	NodeREST       NodeKind = "rest"
	NodeSAP        NodeKind = "sap"
)

func (k NodeKind) isSource() bool {
	return k == NodeSenderApp || k == NodeMQTTSource
}

func (k NodeKind) isDestination() bool {
	return k == NodeDatabase || k == NodeREST || k == NodeSAP
}

// Node is one canvas node of the authored graph. RefID is the identity of the
// sender app, MQTT source or destination the node stands for.
type Node struct {
	ID    string   `json:"id"`
	Kind  NodeKind `json:"kind"`
	RefID string   `json:"refId"`
}

// Edge connects a source node to a destination node and carries the pipeline
// configuration authored on the connection.
type Edge struct {
	SourceNodeID string      `json:"sourceNodeId"`
	TargetNodeID string      `json:"targetNodeId"`
	Config       *EdgeConfig `json:"config,omitempty"`
}

// EdgeConfig is the authored pipeline configuration of one edge. An empty
// Steps list yields a single-hop mapping pipeline; a non-empty list yields a
// sequential step pipeline.
type EdgeConfig struct {
	TargetTable   string                         `json:"targetTable,omitempty"`
	FieldMappings []definitions.FieldMapping     `json:"fieldMappings,omitempty"`
	SAPConfig     *definitions.SAPPipelineConfig `json:"sapConfig,omitempty"`
	Steps         []definitions.WorkflowStep     `json:"steps,omitempty"`
}

// Graph is one authored workflow as emitted by the canvas.
type Graph struct {
	WorkflowID  uuid.UUID                   `json:"workflowId"`
	Name        string                      `json:"name"`
	Description string                      `json:"description,omitempty"`
	IsActive    bool                        `json:"isActive"`
	Retention   definitions.RetentionPolicy `json:"retention"`
	Nodes       []Node                      `json:"nodes"`
	Edges       []Edge                      `json:"edges"`
}
