package api

import (
	"github.com/bridgeflow/gateway/compiler"
	"github.com/bridgeflow/gateway/definitions"
	"github.com/bridgeflow/gateway/mapping"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"net/http"
)

// saveWorkflow compiles the authored graph and persists the result. The save
// is atomic: any configuration error rejects the whole workflow and nothing
// is stored.
func (s *Server) saveWorkflow(c *gin.Context) {
	var graph compiler.Graph
	if err := c.ShouldBindJSON(&graph); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if graph.WorkflowID == uuid.Nil {
		graph.WorkflowID = uuid.New()
	}

	workflow, err := compiler.Compile(&graph)
	if err != nil {
		s.handleError(c, err)
		return
	}
	if err := s.workflows.Save(workflow); err != nil {
		s.handleError(c, err)
		return
	}
	s.log.WithField("workflow_id", workflow.ID).Infof("saved workflow %q with %d pipeline(s)", workflow.Name, len(workflow.Pipelines))
	c.JSON(http.StatusOK, workflow)
}

func (s *Server) getWorkflow(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workflow id"})
		return
	}
	workflow, err := s.workflows.GetWorkflowByID(id)
	if err != nil {
		s.handleError(c, err)
		return
	}
	if workflow == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "workflow not found"})
		return
	}
	c.JSON(http.StatusOK, workflow)
}

func (s *Server) deleteWorkflow(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workflow id"})
		return
	}
	if err := s.workflows.Delete(id); err != nil {
		s.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// autoMap suggests field mappings by case-insensitive name match. Existing
// mappings are never overwritten; the call is idempotent.
func (s *Server) autoMap(c *gin.Context) {
	var request struct {
		SourceFields       []string                   `json:"sourceFields"`
		DestinationColumns []string                   `json:"destinationColumns"`
		Existing           []definitions.FieldMapping `json:"existing"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	mappings := mapping.AutoMap(request.SourceFields, request.DestinationColumns, request.Existing)
	c.JSON(http.StatusOK, gin.H{"fieldMappings": mappings})
}
