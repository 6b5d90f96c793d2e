package api

import (
	"github.com/gin-gonic/gin"
	"net/http"
)

// createSenderApp registers a sender app. The response is the only place the
// plaintext master key ever appears; only its hash is stored.
func (s *Server) createSenderApp(c *gin.Context) {
	var request struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	app, masterKey, err := s.senderApps.Create(request.Name)
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":        app.ID,
		"name":      app.Name,
		"keyId":     app.KeyID,
		"masterKey": masterKey,
	})
}
