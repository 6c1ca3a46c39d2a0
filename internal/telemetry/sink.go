package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SinkClient posts capture calls to the telemetry sink's HTTP API.
type SinkClient struct {
	httpClient *http.Client
	host       string
	apiKey     string
}

// NewSinkClient creates a client for the telemetry sink.
func NewSinkClient(httpClient *http.Client, host, apiKey string) *SinkClient {
	return &SinkClient{
		httpClient: httpClient,
		host:       strings.TrimSuffix(host, "/"),
		apiKey:     apiKey,
	}
}

// capturePayload is the sink's capture wire format.
type capturePayload struct {
	APIKey     string         `json:"api_key"`
	Event      string         `json:"event"`
	DistinctID string         `json:"distinct_id"`
	Properties map[string]any `json:"properties,omitempty"`
	Timestamp  string         `json:"timestamp"`
}

// Capture sends a single event to the sink.
func (c *SinkClient) Capture(ctx context.Context, distinctID, event string, properties map[string]any) error {
	payload := capturePayload{
		APIKey:     c.apiKey,
		Event:      event,
		DistinctID: distinctID,
		Properties: properties,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal capture payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/capture/", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build capture request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post capture: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("capture rejected: status %d", resp.StatusCode)
	}
	return nil
}
