package service

import (
	"context"

	"github.com/homespark/backend/internal/domain"
)

// RecommendationRepository is re-exported from domain for convenience
type RecommendationRepository = domain.RecommendationRepository

// Geocoder resolves a place name. An empty slice means the place is unknown;
// an error means the service itself failed.
type Geocoder interface {
	Geocode(ctx context.Context, query string) ([]domain.GeoLocation, error)
}

// WeatherProvider returns current conditions at a coordinate
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, lat, lon float64) (domain.Weather, error)
}

// RecommendationClient performs a single call to the ML service
type RecommendationClient interface {
	Recommend(ctx context.Context, req domain.MLRequest) (domain.RawMLResponse, error)
	Health(ctx context.Context) (domain.MLHealth, error)
}

// ImageSearch finds a photo URL for a free-text query. An empty URL means no hit.
type ImageSearch interface {
	SearchPhoto(ctx context.Context, query string) (string, error)
}
