package api

import (
	"github.com/bridgeflow/gateway/definitions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"net/http"
)

// ingest authenticates the sender app and submits one record for execution.
// The call returns as soon as the run is queued; the outcome lands in the
// execution log.
func (s *Server) ingest(c *gin.Context) {
	pipelineID, err := uuid.Parse(c.Param("pipelineID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pipeline id"})
		return
	}

	keyID := c.GetHeader(keyIDHeader)
	masterKey := c.GetHeader(masterKeyHeader)
	if keyID == "" || masterKey == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing sender app credentials"})
		return
	}
	if _, err := s.senderApps.Verify(keyID, masterKey); err != nil {
		s.log.WithError(err).Warnf("rejected ingest for pipeline %s", pipelineID)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid sender app credentials"})
		return
	}

	var record definitions.Record
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	runID := s.engine.Submit(pipelineID, record)
	c.JSON(http.StatusAccepted, gin.H{"runId": runID})
}
