package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// UnsplashService searches Unsplash for a single landscape photo
type UnsplashService struct {
	accessKey  string
	baseURL    string
	httpClient *http.Client
}

// NewUnsplashService creates a new Unsplash client
func NewUnsplashService(accessKey, baseURL string) *UnsplashService {
	return &UnsplashService{
		accessKey: accessKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type unsplashSearchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// SearchPhoto returns the first result's regular-size URL, or "" when nothing matched
func (s *UnsplashService) SearchPhoto(ctx context.Context, query string) (string, error) {
	if s.accessKey == "" {
		return "", fmt.Errorf("unsplash: %w", errMissingAPIKey)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", "1")
	params.Set("orientation", "landscape")
	params.Set("client_id", s.accessKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search/photos?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("unsplash: failed to create request: %w", err)
	}
	req.Header.Set("Accept-Version", "v1")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("unsplash: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unsplash: unexpected status %d", resp.StatusCode)
	}

	var body unsplashSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("unsplash: failed to decode response: %w", err)
	}
	if len(body.Results) == 0 {
		return "", nil
	}
	return body.Results[0].URLs.Regular, nil
}

// photoQuery builds the search terms for a recommendation
func photoQuery(name, style, roomType, indoorOutdoor string) string {
	terms := []string{name, style, roomType, indoorOutdoor, "eco friendly sustainable"}
	return strings.Join(strings.Fields(strings.Join(terms, " ")), " ")
}
