package repo

import (
	"github.com/bridgeflow/gateway/compiler"
	"github.com/bridgeflow/gateway/definitions"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func compiledWorkflow(t *testing.T) *definitions.Workflow {
	t.Helper()
	workflow, err := compiler.Compile(&compiler.Graph{
		WorkflowID: uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		Name:       "wf",
		IsActive:   true,
		Retention:  definitions.RetentionPolicy{RetentionHours: 24},
		Nodes: []compiler.Node{
			{ID: "n1", Kind: compiler.NodeSenderApp, RefID: "app-1"},
			{ID: "n2", Kind: compiler.NodeDatabase, RefID: "db-1"},
		},
		Edges: []compiler.Edge{
			{SourceNodeID: "n1", TargetNodeID: "n2", Config: &compiler.EdgeConfig{
				TargetTable: "readings",
				FieldMappings: []definitions.FieldMapping{
					{SourceField: "temperature", DestinationColumn: "temp_c", NullHandling: definitions.NullRequired},
				},
			}},
		},
	})
	require.NoError(t, err)
	return workflow
}

func TestWorkflowStore_SaveAndReloadRoundTrips(t *testing.T) {
	store := NewWorkflowStore(newTestDB(t))
	workflow := compiledWorkflow(t)

	require.NoError(t, store.Save(workflow))

	reloaded, err := store.GetWorkflowByID(workflow.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)

	originalIR, err := compiler.MarshalIR(workflow)
	require.NoError(t, err)
	reloadedIR, err := compiler.MarshalIR(reloaded)
	require.NoError(t, err)
	assert.Equal(t, originalIR, reloadedIR)
}

func TestWorkflowStore_SaveReplacesPipelines(t *testing.T) {
	store := NewWorkflowStore(newTestDB(t))
	workflow := compiledWorkflow(t)

	require.NoError(t, store.Save(workflow))
	require.NoError(t, store.Save(workflow))

	pipeline, err := store.GetPipelineByID(workflow.Pipelines[0].ID)
	require.NoError(t, err)
	require.NotNil(t, pipeline)
	assert.Equal(t, "readings", pipeline.TargetTable)
}

func TestWorkflowStore_DeleteCascades(t *testing.T) {
	store := NewWorkflowStore(newTestDB(t))
	workflow := compiledWorkflow(t)
	require.NoError(t, store.Save(workflow))

	require.NoError(t, store.Delete(workflow.ID))

	reloaded, err := store.GetWorkflowByID(workflow.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded)

	pipeline, err := store.GetPipelineByID(workflow.Pipelines[0].ID)
	require.NoError(t, err)
	assert.Nil(t, pipeline)
}

func TestWorkflowStore_ListActiveWorkflows(t *testing.T) {
	store := NewWorkflowStore(newTestDB(t))

	active := compiledWorkflow(t)
	require.NoError(t, store.Save(active))

	inactive := compiledWorkflow(t)
	inactive.ID = uuid.MustParse("7ba7b810-9dad-11d1-80b4-00c04fd430c8")
	inactive.IsActive = false
	inactive.Pipelines[0].ID = uuid.MustParse("8ba7b810-9dad-11d1-80b4-00c04fd430c8")
	inactive.Pipelines[0].WorkflowID = inactive.ID
	require.NoError(t, store.Save(inactive))

	workflows, err := store.ListActiveWorkflows()
	require.NoError(t, err)
	require.Len(t, workflows, 1)
	assert.Equal(t, active.ID, workflows[0].ID)
}

func TestWorkflowStore_GetMissingReturnsNil(t *testing.T) {
	store := NewWorkflowStore(newTestDB(t))

	workflow, err := store.GetWorkflowByID(uuid.New())
	require.NoError(t, err)
	assert.Nil(t, workflow)
}
