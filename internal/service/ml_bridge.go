package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/homespark/backend/internal/domain"
)

// MLBridge handles communication with the Python recommendation service.
// Each call is a single attempt; retries and timeouts belong to MLGateway.
type MLBridge struct {
	serviceURL string
	httpClient *http.Client
}

// NewMLBridge creates a new ML bridge
func NewMLBridge(serviceURL string) *MLBridge {
	return &MLBridge{
		serviceURL: strings.TrimRight(serviceURL, "/"),
		httpClient: &http.Client{},
	}
}

type rawMLBody struct {
	Recommendations  json.RawMessage `json:"recommendations"`
	ModelType        string          `json:"model_type"`
	ModelVersion     string          `json:"model_version"`
	ProcessingTimeMs *float64        `json:"processing_time_ms"`
	ProcessingTime   *float64        `json:"processing_time"`
}

// Recommend posts the request to /api/recommendations
func (b *MLBridge) Recommend(ctx context.Context, req domain.MLRequest) (domain.RawMLResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return domain.RawMLResponse{}, fmt.Errorf("ml_bridge: failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/recommendations", b.serviceURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.RawMLResponse{}, fmt.Errorf("ml_bridge: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return domain.RawMLResponse{}, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.RawMLResponse{}, classifyStatus(resp)
	}

	var raw rawMLBody
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		if ctx.Err() != nil {
			return domain.RawMLResponse{}, classifyTransportError(ctx, err)
		}
		return domain.RawMLResponse{}, domain.NewError(domain.ErrMalformedResponse, "ml_bridge: invalid JSON body", err)
	}

	trimmed := bytes.TrimSpace(raw.Recommendations)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return domain.RawMLResponse{}, domain.NewError(domain.ErrMalformedResponse, "ml_bridge: recommendations is missing or not an array", nil)
	}

	var items []domain.RawRecommendation
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return domain.RawMLResponse{}, domain.NewError(domain.ErrMalformedResponse, "ml_bridge: recommendations contains non-object items", err)
	}

	out := domain.RawMLResponse{
		Recommendations: items,
		ModelType:       raw.ModelType,
		ModelVersion:    raw.ModelVersion,
	}
	switch {
	case raw.ProcessingTimeMs != nil:
		out.ProcessingTimeMs = *raw.ProcessingTimeMs
	case raw.ProcessingTime != nil:
		out.ProcessingTimeMs = *raw.ProcessingTime
	}
	return out, nil
}

// Health calls GET /api/health on the ML service
func (b *MLBridge) Health(ctx context.Context) (domain.MLHealth, error) {
	url := fmt.Sprintf("%s/api/health", b.serviceURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.MLHealth{}, fmt.Errorf("ml_bridge: failed to create health request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return domain.MLHealth{}, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.MLHealth{}, classifyStatus(resp)
	}

	var payload struct {
		Status      string `json:"status"`
		ModelLoaded bool   `json:"model_loaded"`
		Timestamp   string `json:"timestamp"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.MLHealth{}, domain.NewError(domain.ErrMalformedResponse, "ml_bridge: invalid health body", err)
	}

	return domain.MLHealth{
		Healthy:     payload.Status == "" || strings.EqualFold(payload.Status, "healthy"),
		ModelLoaded: payload.ModelLoaded,
		Timestamp:   payload.Timestamp,
	}, nil
}

func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.NewError(domain.ErrMLTimeout, "", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.NewError(domain.ErrMLTimeout, "", err)
	}
	return domain.NewError(domain.ErrMLUnreachable, "", err)
}

func classifyStatus(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	cause := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.NewError(domain.ErrMLNotFound, "", cause)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return domain.NewError(domain.ErrMLServerError, "", cause)
	default:
		return domain.NewError(domain.ErrMLRejected, "", cause)
	}
}
