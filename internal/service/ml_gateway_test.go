package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/homespark/backend/internal/domain"
)

type scriptedClient struct {
	results []error
	resp    domain.RawMLResponse
	calls   int
	health  domain.MLHealth
	hErr    error
}

func (c *scriptedClient) Recommend(ctx context.Context, req domain.MLRequest) (domain.RawMLResponse, error) {
	i := c.calls
	c.calls++
	if i < len(c.results) && c.results[i] != nil {
		return domain.RawMLResponse{}, c.results[i]
	}
	return c.resp, nil
}

func (c *scriptedClient) Health(ctx context.Context) (domain.MLHealth, error) {
	return c.health, c.hErr
}

func newTestGateway(client RecommendationClient) (*MLGateway, *[]time.Duration) {
	g := NewMLGateway(client, 2, time.Second)
	var waits []time.Duration
	g.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return g, &waits
}

func TestGatewayRetriesThenSucceeds(t *testing.T) {
	client := &scriptedClient{
		results: []error{domain.NewError(domain.ErrMLUnreachable, "", errors.New("refused"))},
		resp:    domain.RawMLResponse{Recommendations: []domain.RawRecommendation{{"id": "a"}}},
	}
	g, waits := newTestGateway(client)

	resp, err := g.Call(context.Background(), domain.MLRequest{})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if len(resp.Recommendations) != 1 || client.calls != 2 {
		t.Fatalf("expected success on second attempt, calls=%d", client.calls)
	}
	if len(*waits) != 1 || (*waits)[0] != time.Second {
		t.Fatalf("unexpected backoff: %v", *waits)
	}
}

func TestGatewayExhaustsRetriesOnTimeout(t *testing.T) {
	timeout := domain.NewError(domain.ErrMLTimeout, "", context.DeadlineExceeded)
	client := &scriptedClient{results: []error{timeout, timeout, timeout}}
	g, waits := newTestGateway(client)

	_, err := g.Call(context.Background(), domain.MLRequest{})
	if !errors.Is(err, domain.ErrMLTimeout) {
		t.Fatalf("expected ErrMLTimeout, got %v", err)
	}
	if !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Fatal("timeouts should be classified as service unavailable")
	}
	if client.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", client.calls)
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(*waits) != len(want) || (*waits)[0] != want[0] || (*waits)[1] != want[1] {
		t.Fatalf("backoff = %v, want %v", *waits, want)
	}
}

func TestGatewayDoesNotRetryPermanentErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"malformed", domain.NewError(domain.ErrMalformedResponse, "", nil)},
		{"rejected", domain.NewError(domain.ErrMLRejected, "", errors.New("status 422"))},
		{"not found", domain.NewError(domain.ErrMLNotFound, "", errors.New("status 404"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &scriptedClient{results: []error{tt.err}}
			g, waits := newTestGateway(client)

			_, err := g.Call(context.Background(), domain.MLRequest{})
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
			if client.calls != 1 || len(*waits) != 0 {
				t.Fatalf("expected a single attempt, calls=%d waits=%v", client.calls, *waits)
			}
		})
	}
}

func TestGatewayClassifiesPlainErrors(t *testing.T) {
	client := &scriptedClient{results: []error{context.DeadlineExceeded, errors.New("boom"), errors.New("boom")}}
	g, _ := newTestGateway(client)

	_, err := g.Call(context.Background(), domain.MLRequest{})
	if !errors.Is(err, domain.ErrMLUnreachable) {
		t.Fatalf("expected last error classified as unreachable, got %v", err)
	}
}

func TestGatewayStopsWhenContextCancelled(t *testing.T) {
	client := &scriptedClient{results: []error{domain.NewError(domain.ErrMLUnreachable, "", nil)}}
	g := NewMLGateway(client, 2, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Call(ctx, domain.MLRequest{})
	if !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Fatalf("expected a service unavailable error, got %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("expected no retries after cancellation, got %d calls", client.calls)
	}
}

func TestGatewayBackoffCap(t *testing.T) {
	g := NewMLGateway(&scriptedClient{}, 5, time.Second)
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second, 5 * time.Second}
	for i, w := range want {
		if got := g.backoff(i + 1); got != w {
			t.Errorf("backoff(%d) = %s, want %s", i+1, got, w)
		}
	}
}

func TestGatewayHealth(t *testing.T) {
	ok := &scriptedClient{health: domain.MLHealth{Healthy: true, ModelLoaded: true}}
	g, _ := newTestGateway(ok)
	if h := g.Health(context.Background()); !h.Healthy || !h.ModelLoaded {
		t.Fatalf("unexpected health %+v", h)
	}

	down := &scriptedClient{hErr: domain.NewError(domain.ErrMLUnreachable, "", nil)}
	g, _ = newTestGateway(down)
	h := g.Health(context.Background())
	if h.Healthy || h.Error == "" {
		t.Fatalf("expected unhealthy with error, got %+v", h)
	}
}
