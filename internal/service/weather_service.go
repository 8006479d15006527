package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/homespark/backend/internal/domain"
)

var errMissingAPIKey = errors.New("no API key configured")

// WeatherService talks to OpenWeatherMap for geocoding and current weather
type WeatherService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewWeatherService creates a new weather service
func NewWeatherService(apiKey, baseURL string) *WeatherService {
	return &WeatherService{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// OpenWeatherResponse represents the OpenWeatherMap current weather response
type OpenWeatherResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Name string `json:"name"`
}

// Geocode resolves a city name via the direct geocoding endpoint
func (s *WeatherService) Geocode(ctx context.Context, query string) ([]domain.GeoLocation, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("weather: geocode: %w", errMissingAPIKey)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", "1")
	params.Set("appid", s.apiKey)

	var hits []domain.GeoLocation
	if err := s.getJSON(ctx, "/geo/1.0/direct?"+params.Encode(), &hits); err != nil {
		return nil, fmt.Errorf("weather: geocode %q: %w", query, err)
	}
	return hits, nil
}

// CurrentWeather fetches metric conditions for a coordinate
func (s *WeatherService) CurrentWeather(ctx context.Context, lat, lon float64) (domain.Weather, error) {
	if s.apiKey == "" {
		return domain.Weather{}, fmt.Errorf("weather: current: %w", errMissingAPIKey)
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("appid", s.apiKey)
	params.Set("units", "metric")

	var owResp OpenWeatherResponse
	if err := s.getJSON(ctx, "/data/2.5/weather?"+params.Encode(), &owResp); err != nil {
		return domain.Weather{}, fmt.Errorf("weather: current: %w", err)
	}

	weather := domain.Weather{
		Temperature: owResp.Main.Temp,
		Humidity:    owResp.Main.Humidity,
		Timestamp:   time.Now(),
	}
	if len(owResp.Weather) > 0 {
		weather.Description = owResp.Weather[0].Description
	}
	return weather, nil
}

func (s *WeatherService) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
