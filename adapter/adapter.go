// Package adapter owns the destination connections the engine executes
// against. The engine only sees the uniform DestinationAdapter contract;
// pooling and protocol details stay here.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"github.com/bridgeflow/gateway/config"
	"github.com/bridgeflow/gateway/definitions"
	gatewayerrors "github.com/bridgeflow/gateway/errors"
	"github.com/sirupsen/logrus"
)

var ErrUnknownDestination = errors.New("unknown destination")

// Registry dispatches execution requests to the configured destination
// adapters by destination type and id.
type Registry struct {
	sql  *SQLAdapter
	rest *RESTAdapter
	sap  *SAPAdapter
	log  *logrus.Logger
}

func NewRegistry(destinations config.Destinations, log *logrus.Logger) *Registry {
	return &Registry{
		sql:  NewSQLAdapter(destinations.Databases),
		rest: NewRESTAdapter(destinations.REST),
		sap:  NewSAPAdapter(destinations.SAP),
		log:  log,
	}
}

func (r *Registry) Execute(ctx context.Context, ref definitions.DestinationRef, payload any) (*definitions.ExecutionResult, error) {
	var result *definitions.ExecutionResult
	var err error

	switch ref.Type {
	case definitions.DestinationDatabase:
		result, err = r.sql.Execute(ctx, ref.ID, payload)
	case definitions.DestinationREST:
		result, err = r.rest.Execute(ctx, ref.ID, payload)
	case definitions.DestinationSAP:
		result, err = r.sap.Execute(ctx, ref.ID, payload)
	default:
		return nil, fmt.Errorf("%w: type %q", ErrUnknownDestination, ref.Type)
	}

	if err != nil {
		r.log.WithError(err).WithField("destination", ref.ID).Debug("destination call failed")
		return nil, classify(ctx, ref.ID, err)
	}
	return result, nil
}

// classify folds context expiry into the timeout flavor of DestinationError
// so the engine can treat it under the step's onError policy.
func classify(ctx context.Context, destination string, err error) error {
	if errors.Is(err, gatewayerrors.ErrDestination) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return gatewayerrors.NewDestinationTimeoutError(destination, err)
	}
	return gatewayerrors.NewDestinationError(destination, err)
}
