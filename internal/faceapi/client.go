// Package faceapi is the HTTP client for the external face-emotion
// classifier collaborator. The core only needs the returned label; target
// features come from the fixed emotion table.
package faceapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrServiceUnavailable is returned when the classifier cannot be reached
// or keeps failing after retries.
var ErrServiceUnavailable = errors.New("face classifier unavailable")

// Classification is the classifier's response: a label, its confidence and
// the per-class confidence distribution.
type Classification struct {
	Emotion      string             `json:"emotion"`
	Confidence   float64            `json:"confidence"`
	Distribution map[string]float64 `json:"distribution"`
}

// Client calls the face-emotion classifier service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a classifier client for the given service base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Classify sends raw image bytes to the classifier and returns its
// classification. Transient failures (5xx, 429) are retried with
// exponential backoff.
func (c *Client) Classify(ctx context.Context, image []byte) (*Classification, error) {
	delays := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
	var lastErr error

	for attempt := 0; attempt <= len(delays); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delays[attempt-1]):
			}
		}

		result, retryable, err := c.classifyOnce(ctx, image)
		if err == nil {
			return result, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, lastErr)
}

// classifyOnce performs a single classification request. The bool result
// reports whether a failure is worth retrying.
func (c *Client) classifyOnce(ctx context.Context, image []byte) (*Classification, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", bytes.NewReader(image))
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return nil, true, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, false, fmt.Errorf("classifier returned status %d: %s", resp.StatusCode, body)
	}

	var result Classification
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, false, fmt.Errorf("parsing classifier response: %w", err)
	}
	if result.Emotion == "" {
		return nil, false, errors.New("classifier response missing emotion label")
	}

	return &result, false, nil
}
