package api

import (
	"bytes"
	"encoding/json"
	"github.com/bridgeflow/gateway/config"
	"github.com/bridgeflow/gateway/engine"
	"github.com/bridgeflow/gateway/engine/enginetests"
	"github.com/bridgeflow/gateway/repo"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))

	workflows := repo.NewWorkflowStore(db)
	senderApps := repo.NewSenderAppStore(db)
	logs := repo.NewLogStore(db)
	log := logrus.New()

	eng := engine.New(&config.Config{MaxWorkers: 2}, new(enginetests.MockAdapter), logs, workflows, log)
	t.Cleanup(eng.Stop)

	server := NewServer(workflows, senderApps, logs, eng, log)
	router := gin.New()
	server.RegisterRoutes(router)
	return router
}

func performJSON(router *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func validGraph() map[string]any {
	return map[string]any{
		"name":     "sensor ingest",
		"isActive": true,
		"nodes": []map[string]any{
			{"id": "src", "kind": "sender_app", "refId": "app-1"},
			{"id": "dst", "kind": "database", "refId": "db-1"},
		},
		"edges": []map[string]any{
			{
				"sourceNodeId": "src",
				"targetNodeId": "dst",
				"config": map[string]any{
					"targetTable": "readings",
					"fieldMappings": []map[string]any{
						{"sourceField": "temperature", "destinationColumn": "temp_c", "dataType": "number"},
					},
				},
			},
		},
	}
}

func TestSaveWorkflow_CompilesAndPersists(t *testing.T) {
	router := setupTestServer(t)

	recorder := performJSON(router, http.MethodPost, "/v1/workflows", validGraph(), nil)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var saved struct {
		ID        string `json:"id"`
		Pipelines []struct {
			ID string `json:"id"`
		} `json:"pipelines"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &saved))
	require.Len(t, saved.Pipelines, 1)

	// the workflow is readable back through the store
	recorder = performJSON(router, http.MethodGet, "/v1/workflows/"+saved.ID, nil, nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestSaveWorkflow_ConfigErrorsAreStructured(t *testing.T) {
	router := setupTestServer(t)

	graph := validGraph()
	graph["edges"] = []map[string]any{
		{
			"sourceNodeId": "src",
			"targetNodeId": "dst",
			"config": map[string]any{
				// database destination with no table and no mappings
			},
		},
	}

	recorder := performJSON(router, http.MethodPost, "/v1/workflows", graph, nil)
	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	var response struct {
		Errors []struct {
			Reason string `json:"reason"`
			Detail string `json:"detail"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Len(t, response.Errors, 2)
	reasons := map[string]bool{}
	for _, e := range response.Errors {
		reasons[e.Reason] = true
	}
	assert.True(t, reasons["missing_field_mappings"])
	assert.True(t, reasons["missing_target_table"])
}

func TestDeleteWorkflow(t *testing.T) {
	router := setupTestServer(t)

	recorder := performJSON(router, http.MethodPost, "/v1/workflows", validGraph(), nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var saved struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &saved))

	recorder = performJSON(router, http.MethodDelete, "/v1/workflows/"+saved.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = performJSON(router, http.MethodGet, "/v1/workflows/"+saved.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestCreateSenderApp_ReturnsMasterKeyOnce(t *testing.T) {
	router := setupTestServer(t)

	recorder := performJSON(router, http.MethodPost, "/v1/sender-apps", map[string]any{"name": "telemetry"}, nil)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created struct {
		KeyID     string `json:"keyId"`
		MasterKey string `json:"masterKey"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	assert.NotEmpty(t, created.KeyID)
	assert.NotEmpty(t, created.MasterKey)
}

func TestIngest_RejectsBadCredentials(t *testing.T) {
	router := setupTestServer(t)

	pipelineID := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

	recorder := performJSON(router, http.MethodPost, "/v1/ingest/"+pipelineID, map[string]any{"a": 1}, nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = performJSON(router, http.MethodPost, "/v1/ingest/"+pipelineID, map[string]any{"a": 1}, map[string]string{
		keyIDHeader:     "nope",
		masterKeyHeader: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestIngest_AcceptsAuthenticatedRecord(t *testing.T) {
	router := setupTestServer(t)

	recorder := performJSON(router, http.MethodPost, "/v1/sender-apps", map[string]any{"name": "telemetry"}, nil)
	require.Equal(t, http.StatusCreated, recorder.Code)
	var created struct {
		KeyID     string `json:"keyId"`
		MasterKey string `json:"masterKey"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))

	recorder = performJSON(router, http.MethodPost, "/v1/ingest/6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		map[string]any{"temperature": 21.5}, map[string]string{
			keyIDHeader:     created.KeyID,
			masterKeyHeader: created.MasterKey,
		})
	require.Equal(t, http.StatusAccepted, recorder.Code)

	var response struct {
		RunID string `json:"runId"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.NotEmpty(t, response.RunID)
}

func TestAutoMapEndpoint(t *testing.T) {
	router := setupTestServer(t)

	recorder := performJSON(router, http.MethodPost, "/v1/pipelines/automap", map[string]any{
		"sourceFields":       []string{"Temperature", "device_id"},
		"destinationColumns": []string{"temperature", "zone"},
	}, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var response struct {
		FieldMappings []struct {
			SourceField       string `json:"sourceField"`
			DestinationColumn string `json:"destinationColumn"`
		} `json:"fieldMappings"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.Len(t, response.FieldMappings, 1)
	assert.Equal(t, "Temperature", response.FieldMappings[0].SourceField)
	assert.Equal(t, "temperature", response.FieldMappings[0].DestinationColumn)
}
