package domain

import (
	"context"
	"time"
)

// RecommendationRepository defines the interface for fetch-log persistence
// This follows the Dependency Inversion Principle - domain defines the interface
type RecommendationRepository interface {
	// SaveRecommendationLog persists one fetch outcome
	SaveRecommendationLog(ctx context.Context, entry RecommendationLog) error

	// GetRecommendationHistory retrieves fetch outcomes within a time range
	GetRecommendationHistory(ctx context.Context, from, to time.Time) ([]RecommendationLog, error)

	// Health checks database connectivity
	Health(ctx context.Context) error
}

// ClimateCache stores climate results for a bounded time.
// Implementations own expiry; Get reports a miss for expired entries.
type ClimateCache interface {
	Get(ctx context.Context, key string) (ClimateResult, bool, error)
	Set(ctx context.Context, key string, result ClimateResult) error
}
