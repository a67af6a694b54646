package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// HTTPClient talks to a gateway started on a real listener.
type HTTPClient struct {
	Client  *http.Client
	BaseURL string
}

type Response struct {
	*http.Response
	Body []byte
}

func NewHTTPClient(addr string) *HTTPClient {
	return &HTTPClient{
		Client:  &http.Client{Timeout: 10 * time.Second},
		BaseURL: "http://" + addr,
	}
}

func (r *Response) GetJSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

func (r *Response) AssertStatus(t *testing.T, expectedStatus int) {
	t.Helper()
	require.Equal(t, expectedStatus, r.StatusCode, "unexpected status code. Response: %s", string(r.Body))
}

func (c *HTTPClient) Get(path string) (*Response, error) {
	return c.Request(http.MethodGet, path, nil, "")
}

func (c *HTTPClient) PostJSON(path string, body any) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.Request(http.MethodPost, path, bytes.NewReader(payload), "application/json")
}

func (c *HTTPClient) Request(method, path string, body io.Reader, contentType string) (*Response, error) {
	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{Response: resp, Body: raw}, nil
}
