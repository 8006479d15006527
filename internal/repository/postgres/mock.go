package postgres

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/homespark/backend/internal/domain"
)

const mockHistoryLimit = 100

// MockRepository implements domain.RecommendationRepository in memory for
// testing/demo mode. Entries are lost on restart.
type MockRepository struct {
	mu   sync.Mutex
	logs []domain.RecommendationLog
}

// NewMockRepository creates a new mock repository
func NewMockRepository() *MockRepository {
	return &MockRepository{}
}

// SaveRecommendationLog keeps the entry in memory
func (r *MockRepository) SaveRecommendationLog(ctx context.Context, entry domain.RecommendationLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, entry)
	return nil
}

// GetRecommendationHistory returns entries within [from, to], newest first
func (r *MockRepository) GetRecommendationHistory(ctx context.Context, from, to time.Time) ([]domain.RecommendationLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.RecommendationLog
	for _, l := range r.logs {
		if l.Timestamp.Before(from) || l.Timestamp.After(to) {
			continue
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if len(out) > mockHistoryLimit {
		out = out[:mockHistoryLimit]
	}
	return out, nil
}

// Health always returns nil in mock mode
func (r *MockRepository) Health(ctx context.Context) error {
	return nil
}
