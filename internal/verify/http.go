package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
	}
}

// getJSON performs a GET request and decodes the JSON response into v.
func (c *HTTPClient) getJSON(ctx context.Context, path string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s returned %d: %s", path, resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// uploadCSV posts raw CSV content to /datasets and returns the status.
func (c *HTTPClient) uploadCSV(ctx context.Context, content string) (datasetStatusResponse, error) {
	var status datasetStatusResponse

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/datasets", bytes.NewBufferString(content))
	if err != nil {
		return status, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/csv")

	resp, err := c.client.Do(req)
	if err != nil {
		return status, fmt.Errorf("upload failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return status, fmt.Errorf("failed to read upload response: %w", err)
	}
	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return status, fmt.Errorf("POST /datasets returned %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, &status); err != nil {
		return status, fmt.Errorf("failed to decode upload response: %w", err)
	}
	return status, nil
}

// waitForIngestion polls /datasets/{id} until the dataset completes.
func (c *HTTPClient) waitForIngestion(ctx context.Context, config *Config, datasetID string) (datasetStatusResponse, error) {
	deadline := time.Now().Add(config.PollTimeout)

	for {
		var status datasetStatusResponse
		if err := c.getJSON(ctx, "/datasets/"+datasetID, &status); err != nil {
			return status, err
		}

		switch status.Status {
		case "completed":
			return status, nil
		case "failed":
			return status, fmt.Errorf("ingestion failed: %s", status.Error)
		}

		if time.Now().After(deadline) {
			return status, fmt.Errorf("ingestion did not complete within %s", config.PollTimeout)
		}

		select {
		case <-ctx.Done():
			return status, fmt.Errorf("verification canceled: %w", ctx.Err())
		case <-time.After(config.PollInterval):
		}
	}
}

// checkServiceHealth verifies the service is running.
func (c *HTTPClient) checkServiceHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("service unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("healthz returned %d", resp.StatusCode)
	}
	return nil
}
