package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/homespark/backend/internal/domain"
)

const (
	enrichTimeout     = 5 * time.Second
	enrichConcurrency = 4
	logSaveTimeout    = 5 * time.Second
	fallbackModelType = "fallback"
	defaultModelType  = "NMF+KMeans"
)

// RecommendationService runs one recommendation fetch end to end:
// build the request, call the model, normalize, and degrade to the
// fallback when anything goes wrong.
type RecommendationService struct {
	builder    *RequestBuilder
	gateway    *MLGateway
	normalizer *ResponseNormalizer
	fallback   *FallbackSynthesizer
	images     ImageSearch
	repo       RecommendationRepository

	now  func() time.Time
	wgBg sync.WaitGroup // tracks background log writes for graceful shutdown
}

// NewRecommendationService creates a new recommendation service.
// images may be nil, in which case the static photo table is used as is.
func NewRecommendationService(
	builder *RequestBuilder,
	gateway *MLGateway,
	normalizer *ResponseNormalizer,
	fallback *FallbackSynthesizer,
	images ImageSearch,
	repo RecommendationRepository,
) *RecommendationService {
	return &RecommendationService{
		builder:    builder,
		gateway:    gateway,
		normalizer: normalizer,
		fallback:   fallback,
		images:     images,
		repo:       repo,
		now:        time.Now,
	}
}

// WaitBackground blocks until all background log writes complete.
// Call during graceful shutdown to avoid dropped writes.
func (s *RecommendationService) WaitBackground() {
	s.wgBg.Wait()
}

// GetRecommendations returns a non-empty result for valid input. Only
// invalid preferences or filters produce an error; every downstream
// failure becomes a flagged fallback with a notice.
func (s *RecommendationService) GetRecommendations(
	ctx context.Context,
	prefs domain.WizardPreferences,
	filters *domain.CustomizationFilters,
) (domain.RecommendationResult, error) {
	if err := prefs.Validate(); err != nil {
		return domain.RecommendationResult{}, err
	}
	if filters != nil {
		if err := filters.Validate(); err != nil {
			return domain.RecommendationResult{}, err
		}
	}

	merged := MergeFilters(prefs, filters)
	req := s.builder.Build(prefs, filters)

	result := domain.RecommendationResult{
		RequestID: uuid.NewString(),
		Timestamp: s.now(),
	}

	raw, err := s.gateway.Call(ctx, req)
	switch {
	case err != nil:
		log.Printf("[RECOMMEND] %s: using fallback: %v", result.RequestID, err)
		result.ErrorKind = domain.KindOf(err)
		if result.ErrorKind == "" {
			result.ErrorKind = domain.KindServiceUnavailable
		}
		result.Recommendations = s.fallback.SynthesizeFor(merged, result.ErrorKind)
		result.Notice = Notice(err)
		result.ModelInfo = domain.ModelInfo{ModelType: fallbackModelType, IsFallback: true}

	case len(raw.Recommendations) == 0:
		log.Printf("[RECOMMEND] %s: model returned no matches", result.RequestID)
		result.Recommendations = s.normalizer.Normalize(raw, merged)
		result.ErrorKind = domain.KindEmptyResult
		result.Notice = Notice(domain.ErrEmptyResult)
		result.ModelInfo = domain.ModelInfo{
			ModelType:        modelTypeOrDefault(raw.ModelType),
			ProcessingTimeMs: raw.ProcessingTimeMs,
			IsFallback:       true,
		}

	default:
		result.Success = true
		result.Recommendations = s.normalizer.Normalize(raw, merged)
		result.ModelInfo = domain.ModelInfo{
			ModelType:        modelTypeOrDefault(raw.ModelType),
			ProcessingTimeMs: raw.ProcessingTimeMs,
			IsRealtime:       true,
		}
	}
	result.ModelInfo.TotalResults = len(result.Recommendations)

	s.enrichImages(ctx, result.Recommendations)
	s.saveLog(result, merged)

	return result, nil
}

// GetHistory returns logged fetches from the last hours
func (s *RecommendationService) GetHistory(ctx context.Context, hours int) ([]domain.RecommendationLog, error) {
	if hours <= 0 {
		hours = 24
	}
	to := s.now()
	from := to.Add(-time.Duration(hours) * time.Hour)
	return s.repo.GetRecommendationHistory(ctx, from, to)
}

// MLHealth reports the ML service status
func (s *RecommendationService) MLHealth(ctx context.Context) domain.MLHealth {
	return s.gateway.Health(ctx)
}

// enrichImages swaps static photos for search hits. Failures keep the
// static URL; each goroutine owns exactly one slice element.
func (s *RecommendationService) enrichImages(ctx context.Context, recs []domain.Recommendation) {
	if s.images == nil || len(recs) == 0 {
		return
	}

	ectx, cancel := context.WithTimeout(ctx, enrichTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ectx)
	g.SetLimit(enrichConcurrency)
	for i := range recs {
		query := photoQuery(recs[i].Name, recs[i].Style, recs[i].RoomType, recs[i].IndoorOutdoor)
		i, query := i, query
		g.Go(func() error {
			url, err := s.images.SearchPhoto(gctx, query)
			if err != nil {
				log.Printf("[IMAGES] search failed for %q: %v", query, err)
				return nil
			}
			if url != "" {
				recs[i].Image = url
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (s *RecommendationService) saveLog(result domain.RecommendationResult, prefs domain.WizardPreferences) {
	if s.repo == nil {
		return
	}
	entry := domain.RecommendationLog{
		RequestID:        result.RequestID,
		Preferences:      prefs,
		ResultCount:      len(result.Recommendations),
		IsFallback:       result.ModelInfo.IsFallback,
		ErrorKind:        result.ErrorKind,
		ModelType:        result.ModelInfo.ModelType,
		ProcessingTimeMs: result.ModelInfo.ProcessingTimeMs,
		Timestamp:        result.Timestamp,
	}

	s.wgBg.Add(1)
	go func() {
		defer s.wgBg.Done()
		bgCtx, cancel := context.WithTimeout(context.Background(), logSaveTimeout)
		defer cancel()
		if err := s.repo.SaveRecommendationLog(bgCtx, entry); err != nil {
			log.Printf("Failed to save recommendation log: %v", err)
		}
	}()
}

// Notice returns the user-facing message for a pipeline failure
func Notice(err error) string {
	switch {
	case errors.Is(err, domain.ErrMLUnreachable):
		return "Unable to connect to the recommendation service. Showing a fallback recommendation."
	case errors.Is(err, domain.ErrMLTimeout):
		return "The recommendation service is taking too long. Showing a fallback recommendation."
	case errors.Is(err, domain.ErrMLServerError):
		return "The recommendation service is temporarily unavailable. Showing a fallback recommendation."
	case errors.Is(err, domain.ErrMLNotFound):
		return "Recommendation service endpoint not found. Check the server configuration."
	case errors.Is(err, domain.ErrMalformedResponse):
		return "The recommendation service returned an unexpected response. Showing a fallback recommendation."
	case errors.Is(err, domain.ErrEmptyResult):
		return "No renovations matched your preferences. Try adjusting your filters."
	case errors.Is(err, domain.ErrWeatherUnavailable), errors.Is(err, domain.ErrGeocodingUnavailable):
		return "Live weather is unavailable. Climate was estimated from the location name."
	default:
		return "Recommendation service error. Showing a fallback recommendation."
	}
}

func modelTypeOrDefault(t string) string {
	if t == "" {
		return defaultModelType
	}
	return t
}
