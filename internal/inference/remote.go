package inference

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

// RemoteModel calls an external model server over HTTP.
// The server exposes GET {base}/metadata and POST {base}/predict.
type RemoteModel struct {
	baseURL    string
	httpClient *http.Client
	name       string
	expected   int
}

// RemoteMetadata is returned by GET {base}/metadata
type RemoteMetadata struct {
	Name        string `json:"name"`
	NFeaturesIn int    `json:"n_features_in"`
}

// RemotePredictRequest is the body of POST {base}/predict
type RemotePredictRequest struct {
	Instances [][]float64 `json:"instances"`
}

// RemotePredictResponse is the reply of POST {base}/predict
type RemotePredictResponse struct {
	Predictions []float64 `json:"predictions"`
}

// NewRemoteModel connects to a model server and reads its metadata once.
// The expected feature count is fixed for the lifetime of the client.
func NewRemoteModel(ctx context.Context, baseURL string, timeout time.Duration) (*RemoteModel, error) {
	m := &RemoteModel{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}

	var meta RemoteMetadata
	if err := m.do(ctx, http.MethodGet, "/metadata", nil, &meta); err != nil {
		return nil, fmt.Errorf("failed to read model metadata: %w", err)
	}
	if meta.NFeaturesIn <= 0 {
		return nil, fmt.Errorf("model server reported n_features_in=%d", meta.NFeaturesIn)
	}

	m.expected = meta.NFeaturesIn
	m.name = meta.Name
	if m.name == "" {
		m.name = "remote:" + m.baseURL
	}
	return m, nil
}

// Name implements Model
func (m *RemoteModel) Name() string { return m.name }

// ExpectedFeatures implements Model
func (m *RemoteModel) ExpectedFeatures() int { return m.expected }

// Predict implements Model
func (m *RemoteModel) Predict(ctx context.Context, features []float64) (float64, error) {
	if err := checkFeatureCount(m, features); err != nil {
		return 0, err
	}

	var resp RemotePredictResponse
	req := RemotePredictRequest{Instances: [][]float64{features}}
	if err := m.do(ctx, http.MethodPost, "/predict", req, &resp); err != nil {
		return 0, err
	}
	if len(resp.Predictions) != 1 {
		return 0, fmt.Errorf("model server returned %d predictions, expected 1", len(resp.Predictions))
	}
	return resp.Predictions[0], nil
}

func (m *RemoteModel) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		reqBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(reqBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, m.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model server request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
