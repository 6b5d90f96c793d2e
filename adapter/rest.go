package adapter

import (
	"bytes"
	"context"
	"fmt"
	"github.com/bridgeflow/gateway/config"
	"github.com/bridgeflow/gateway/definitions"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultRESTTimeout = 30 * time.Second

// HTTPClient is the transport seam for tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type restDestination struct {
	config config.RESTDestinationConfig
	client HTTPClient
}

// RESTAdapter executes RESTRequest payloads against configured HTTP
// destinations. One client per destination; its timeout bounds the connection
// only, per-call deadlines come from the step context.
type RESTAdapter struct {
	destinations map[string]*restDestination
}

func NewRESTAdapter(configs []config.RESTDestinationConfig) *RESTAdapter {
	destinations := make(map[string]*restDestination, len(configs))
	for _, c := range configs {
		timeout := defaultRESTTimeout
		if c.TimeoutSeconds > 0 {
			timeout = time.Duration(c.TimeoutSeconds) * time.Second
		}
		destinations[c.ID] = &restDestination{
			config: c,
			client: &http.Client{Timeout: timeout},
		}
	}
	return &RESTAdapter{destinations: destinations}
}

// SetClient swaps the HTTP client of one destination; tests use it to inject
// a mock transport.
func (a *RESTAdapter) SetClient(id string, client HTTPClient) {
	if d, ok := a.destinations[id]; ok {
		d.client = client
	}
}

func (a *RESTAdapter) Execute(ctx context.Context, id string, payload any) (*definitions.ExecutionResult, error) {
	request, ok := payload.(*definitions.RESTRequest)
	if !ok {
		return nil, fmt.Errorf("rest destination %q expects a request, got %T", id, payload)
	}
	destination, ok := a.destinations[id]
	if !ok {
		return nil, fmt.Errorf("%w: rest destination %q", ErrUnknownDestination, id)
	}

	method := request.Method
	if method == "" {
		method = http.MethodPost
	}
	url := strings.TrimSuffix(destination.config.BaseURL, "/") + "/" + strings.TrimPrefix(request.Path, "/")

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(request.Body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range destination.config.Headers {
		req.Header.Set(key, value)
	}
	for key, value := range request.Headers {
		req.Header.Set(key, value)
	}

	started := time.Now()
	resp, err := destination.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("received non-2xx response: %s", resp.Status)
	}

	return &definitions.ExecutionResult{
		Success:    true,
		HTTPStatus: resp.StatusCode,
		Latency:    time.Since(started),
		Body:       body,
	}, nil
}
