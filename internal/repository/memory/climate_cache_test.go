package memory

import (
	"context"
	"testing"
	"time"

	"github.com/homespark/backend/internal/domain"
)

func TestClimateCacheExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := NewClimateCache(30*time.Minute, func() time.Time { return now })
	ctx := context.Background()

	want := domain.ClimateResult{Climate: domain.ClimateCold, Source: domain.SourceWeatherAPI, Success: true}
	if err := cache.Set(ctx, "London", want); err != nil {
		t.Fatalf("Set: %v", err)
	}

	now = now.Add(29 * time.Minute)
	got, ok, err := cache.Get(ctx, "London")
	if err != nil || !ok {
		t.Fatalf("expected hit before expiry, ok=%v err=%v", ok, err)
	}
	if got.Climate != want.Climate {
		t.Fatalf("unexpected cached climate: %q", got.Climate)
	}

	now = now.Add(time.Minute + time.Second)
	if _, ok, _ := cache.Get(ctx, "London"); ok {
		t.Fatal("expected miss after expiry")
	}
	if cache.Len() != 0 {
		t.Fatalf("expired entry should be dropped, len=%d", cache.Len())
	}
}

func TestClimateCacheMissForUnknownKey(t *testing.T) {
	cache := NewClimateCache(time.Minute, nil)
	if _, ok, err := cache.Get(context.Background(), "nowhere"); ok || err != nil {
		t.Fatalf("expected clean miss, ok=%v err=%v", ok, err)
	}
}
