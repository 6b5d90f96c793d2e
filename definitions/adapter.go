package definitions

import (
	"context"
	"time"
)

// DestinationRef identifies one configured destination of the adapter layer.
type DestinationRef struct {
	Type DestinationType
	ID   string
}

// ExecutionResult is the uniform outcome of one destination call.
type ExecutionResult struct {
	Success      bool
	RowsAffected int64
	HTTPStatus   int
	Latency      time.Duration
	Body         []byte
}

// DestinationAdapter executes one payload against one destination. The payload
// is a query.Statement for database/sap destinations and a RESTRequest for
// rest destinations. Implementations own connection pooling and must honor
// context cancellation.
type DestinationAdapter interface {
	Execute(ctx context.Context, ref DestinationRef, payload any) (*ExecutionResult, error)
}

// RESTRequest is the payload shape for rest destinations.
type RESTRequest struct {
	Method  string
	Path    string
	Body    []byte
	Headers map[string]string
}
