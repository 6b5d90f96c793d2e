package api

import (
	"github.com/bridgeflow/gateway/definitions"
	"github.com/gin-gonic/gin"
	"net/http"
	"strconv"
	"time"
)

func (s *Server) queryLogs(c *gin.Context) {
	filter := definitions.LogFilter{
		Status:      c.Query("status"),
		Source:      c.Query("source"),
		Destination: c.Query("destination"),
	}
	if from, err := parseTimeParam(c.Query("from")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from timestamp"})
		return
	} else {
		filter.From = from
	}
	if to, err := parseTimeParam(c.Query("to")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to timestamp"})
		return
	} else {
		filter.To = to
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "50"))

	entries, total, err := s.logs.Query(filter)
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"entries":  entries,
		"total":    total,
		"page":     filter.Page,
		"pageSize": filter.PageSize,
	})
}

func (s *Server) logStats(c *gin.Context) {
	stats, err := s.logs.Stats()
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func parseTimeParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
