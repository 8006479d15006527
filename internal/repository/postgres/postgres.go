package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homespark/backend/internal/domain"
)

const schema = `
	CREATE TABLE IF NOT EXISTS recommendation_logs (
		id                 BIGSERIAL PRIMARY KEY,
		request_id         UUID NOT NULL,
		preferences        JSONB NOT NULL,
		result_count       INTEGER NOT NULL,
		is_fallback        BOOLEAN NOT NULL,
		error_kind         TEXT NOT NULL DEFAULT '',
		model_type         TEXT NOT NULL DEFAULT '',
		processing_time_ms DOUBLE PRECISION NOT NULL DEFAULT 0,
		timestamp          TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS recommendation_logs_timestamp_idx ON recommendation_logs (timestamp);
`

// PostgresRepository implements domain.RecommendationRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Migrate creates the log table if it does not exist
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: failed to migrate: %w", err)
	}
	return nil
}

// SaveRecommendationLog persists one fetch outcome to PostgreSQL
func (r *PostgresRepository) SaveRecommendationLog(ctx context.Context, entry domain.RecommendationLog) error {
	prefs, err := json.Marshal(entry.Preferences)
	if err != nil {
		return fmt.Errorf("postgres: failed to encode preferences: %w", err)
	}

	query := `
		INSERT INTO recommendation_logs (
			request_id, preferences, result_count, is_fallback,
			error_kind, model_type, processing_time_ms, timestamp
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.pool.Exec(ctx, query,
		entry.RequestID, prefs, entry.ResultCount, entry.IsFallback,
		string(entry.ErrorKind), entry.ModelType, entry.ProcessingTimeMs, entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save recommendation log: %w", err)
	}

	return nil
}

// GetRecommendationHistory retrieves logged fetches from PostgreSQL
func (r *PostgresRepository) GetRecommendationHistory(ctx context.Context, from, to time.Time) ([]domain.RecommendationLog, error) {
	query := `
		SELECT request_id::text, preferences, result_count, is_fallback,
			   error_kind, model_type, processing_time_ms, timestamp
		FROM recommendation_logs
		WHERE timestamp BETWEEN $1 AND $2
		ORDER BY timestamp DESC
		LIMIT 100
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query recommendation logs: %w", err)
	}
	defer rows.Close()

	var results []domain.RecommendationLog
	for rows.Next() {
		var (
			l     domain.RecommendationLog
			prefs []byte
			kind  string
		)
		err := rows.Scan(
			&l.RequestID, &prefs, &l.ResultCount, &l.IsFallback,
			&kind, &l.ModelType, &l.ProcessingTimeMs, &l.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan recommendation log row: %w", err)
		}
		if err := json.Unmarshal(prefs, &l.Preferences); err != nil {
			return nil, fmt.Errorf("postgres: failed to decode preferences: %w", err)
		}
		l.ErrorKind = domain.ErrorKind(kind)
		results = append(results, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to read recommendation logs: %w", err)
	}

	return results, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
