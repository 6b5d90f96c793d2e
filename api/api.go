// Package api is the HTTP surface of the gateway: workflow authoring,
// record ingestion, execution log queries and sender app issuance.
package api

import (
	"errors"
	"github.com/bridgeflow/gateway/compiler"
	"github.com/bridgeflow/gateway/definitions"
	"github.com/bridgeflow/gateway/engine"
	gatewayerrors "github.com/bridgeflow/gateway/errors"
	"github.com/bridgeflow/gateway/repo"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"net/http"
)

const (
	keyIDHeader     = "X-Api-Key-Id"
	masterKeyHeader = "X-Api-Key"
)

type Server struct {
	workflows  *repo.DefaultWorkflowStore
	senderApps *repo.SenderAppStore
	logs       definitions.LogStore
	engine     *engine.Engine
	log        *logrus.Logger
}

func NewServer(workflows *repo.DefaultWorkflowStore, senderApps *repo.SenderAppStore, logs definitions.LogStore, eng *engine.Engine, log *logrus.Logger) *Server {
	return &Server{
		workflows:  workflows,
		senderApps: senderApps,
		logs:       logs,
		engine:     eng,
		log:        log,
	}
}

func (s *Server) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/v1")
	{
		v1.POST("/workflows", s.saveWorkflow)
		v1.GET("/workflows/:id", s.getWorkflow)
		v1.DELETE("/workflows/:id", s.deleteWorkflow)
		v1.POST("/ingest/:pipelineID", s.ingest)
		v1.GET("/logs", s.queryLogs)
		v1.GET("/logs/stats", s.logStats)
		v1.POST("/sender-apps", s.createSenderApp)
		v1.POST("/pipelines/automap", s.autoMap)
	}
}

// handleError maps the error taxonomy onto HTTP statuses. Configuration
// errors carry their full structured list so the canvas can annotate every
// offending element at once.
func (s *Server) handleError(c *gin.Context, err error) {
	if errors.Is(err, gatewayerrors.ErrConfig) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": configErrorList(err)})
		return
	}
	if errors.Is(err, gatewayerrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.log.WithError(err).Error("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

type configErrorView struct {
	Reason string `json:"reason"`
	Detail string `json:"detail"`
}

func configErrorList(err error) []configErrorView {
	var errs []error
	var validationErrs compiler.ValidationErrors
	if errors.As(err, &validationErrs) {
		errs = validationErrs
	} else {
		errs = []error{err}
	}
	views := make([]configErrorView, 0, len(errs))
	for _, e := range errs {
		var configErr *gatewayerrors.ConfigError
		if errors.As(e, &configErr) {
			views = append(views, configErrorView{Reason: string(configErr.Reason), Detail: configErr.Detail})
		} else {
			views = append(views, configErrorView{Detail: e.Error()})
		}
	}
	return views
}
