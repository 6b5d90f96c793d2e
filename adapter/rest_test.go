package adapter

import (
	"context"
	"github.com/bridgeflow/gateway/config"
	"github.com/bridgeflow/gateway/definitions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"strings"
	"testing"
)

type stubClient struct {
	lastRequest *http.Request
	status      int
	body        string
}

func (c *stubClient) Do(req *http.Request) (*http.Response, error) {
	c.lastRequest = req
	return &http.Response{
		StatusCode: c.status,
		Status:     http.StatusText(c.status),
		Body:       io.NopCloser(strings.NewReader(c.body)),
	}, nil
}

func newRESTUnderTest(stub *stubClient) *RESTAdapter {
	adapter := NewRESTAdapter([]config.RESTDestinationConfig{
		{ID: "rest-1", BaseURL: "http://example.test/api", Headers: map[string]string{"X-Api-Key": "k"}},
	})
	adapter.SetClient("rest-1", stub)
	return adapter
}

func TestRESTAdapter_Success(t *testing.T) {
	stub := &stubClient{status: http.StatusCreated, body: `{"ok":true}`}
	adapter := newRESTUnderTest(stub)

	result, err := adapter.Execute(context.Background(), "rest-1", &definitions.RESTRequest{
		Method: http.MethodPost,
		Path:   "/readings",
		Body:   []byte(`{"temp_c":25.5}`),
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, http.StatusCreated, result.HTTPStatus)
	assert.Equal(t, `{"ok":true}`, string(result.Body))
	assert.Equal(t, "http://example.test/api/readings", stub.lastRequest.URL.String())
	assert.Equal(t, "k", stub.lastRequest.Header.Get("X-Api-Key"))
}

func TestRESTAdapter_Non2xxFails(t *testing.T) {
	stub := &stubClient{status: http.StatusBadGateway}
	adapter := newRESTUnderTest(stub)

	_, err := adapter.Execute(context.Background(), "rest-1", &definitions.RESTRequest{Path: "/readings"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-2xx")
}

func TestRESTAdapter_UnknownDestination(t *testing.T) {
	adapter := NewRESTAdapter(nil)

	_, err := adapter.Execute(context.Background(), "missing", &definitions.RESTRequest{})
	assert.ErrorIs(t, err, ErrUnknownDestination)
}

func TestRESTAdapter_WrongPayloadType(t *testing.T) {
	adapter := newRESTUnderTest(&stubClient{status: http.StatusOK})

	_, err := adapter.Execute(context.Background(), "rest-1", "not a request")
	assert.Error(t, err)
}
