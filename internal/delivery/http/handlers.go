package http

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/homespark/backend/internal/domain"
	"github.com/homespark/backend/internal/service"
)

// Handler contains all HTTP handlers
type Handler struct {
	recSvc  *service.RecommendationService
	climate *service.ClimateResolver
	repo    service.RecommendationRepository
	policy  service.BudgetPolicy
}

// NewHandler creates a new handler
func NewHandler(
	recSvc *service.RecommendationService,
	climate *service.ClimateResolver,
	repo service.RecommendationRepository,
	policy service.BudgetPolicy,
) *Handler {
	return &Handler{
		recSvc:  recSvc,
		climate: climate,
		repo:    repo,
		policy:  policy,
	}
}

type recommendationRequest struct {
	Preferences domain.WizardPreferences     `json:"preferences"`
	Filters     *domain.CustomizationFilters `json:"filters,omitempty"`
}

type climateRequest struct {
	Location  string   `json:"location"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Override  string   `json:"climateType"`
}

type budgetRequest struct {
	Descriptor string `json:"descriptor"`
	Policy     string `json:"policy"`
}

// HealthCheck returns service liveness
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "homespark-backend",
		"version": "1.0.0",
	})
}

// DependencyHealth reports ML, weather and database status. It is advisory
// and always answers 200.
func (h *Handler) DependencyHealth(c *fiber.Ctx) error {
	ctx := c.Context()

	dbStatus := "ok"
	if err := h.repo.Health(ctx); err != nil {
		dbStatus = err.Error()
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"ml":       h.recSvc.MLHealth(ctx),
		"weather":  h.climate.CheckHealth(ctx),
		"database": dbStatus,
	})
}

// GetRecommendations runs the recommendation pipeline
func (h *Handler) GetRecommendations(c *fiber.Ctx) error {
	var req recommendationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	result, err := h.recSvc.GetRecommendations(c.Context(), req.Preferences, req.Filters)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(result)
}

// GetRecommendationHistory returns logged fetches within the last N hours
func (h *Handler) GetRecommendationHistory(c *fiber.Ctx) error {
	hours := c.QueryInt("hours", 24)
	if hours < 1 || hours > 720 { // max 30 days
		hours = 24
	}

	data, err := h.recSvc.GetHistory(c.Context(), hours)
	if err != nil {
		log.Printf("Failed to fetch recommendation history: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch recommendation history")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"count":   len(data),
	})
}

// ResolveClimate detects the climate for a location or coordinate pair.
// Outages degrade to name-pattern classification with a notice; bad input
// is a 400 so the user can correct it.
func (h *Handler) ResolveClimate(c *fiber.Ctx) error {
	var req climateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if override := strings.TrimSpace(req.Override); override != "" {
		climate, ok := normalizeClimate(override)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "climateType must be Cold, Humid or Dry")
		}
		return c.JSON(domain.ClimateResponse{
			Data:    domain.ClimateResult{Climate: climate, Source: domain.SourceUserOverride, Success: true},
			Success: true,
		})
	}

	query := service.QueryFromLocation(req.Location)
	if req.Latitude != nil && req.Longitude != nil && strings.TrimSpace(req.Location) == "" {
		query = domain.ClimateQuery{Latitude: req.Latitude, Longitude: req.Longitude}
	}

	result, err := h.climate.Resolve(c.Context(), query)
	switch {
	case err == nil:
		return c.JSON(domain.ClimateResponse{Data: result, Success: true})
	case domain.IsFallbackEligible(err):
		log.Printf("[CLIMATE] falling back to pattern classification: %v", err)
		return c.JSON(domain.ClimateResponse{
			Data:    service.ClassifyByPattern(req.Location),
			Success: true,
			Notice:  service.Notice(err),
		})
	default:
		return domainError(err)
	}
}

// ClassifyClimatePattern classifies a location name without any network call
func (h *Handler) ClassifyClimatePattern(c *fiber.Ctx) error {
	location := c.Query("location")
	return c.JSON(domain.ClimateResponse{
		Data:    service.ClassifyByPattern(location),
		Success: true,
	})
}

// ParseBudget exposes the budget descriptor parser
func (h *Handler) ParseBudget(c *fiber.Ctx) error {
	var req budgetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	policy := h.policy
	if req.Policy != "" {
		policy = service.ParseBudgetPolicy(req.Policy)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"policy":  policy,
		"data":    service.ParseBudget(req.Descriptor, policy),
	})
}

// domainError maps classified errors onto HTTP errors
func domainError(err error) error {
	var e *domain.Error
	if errors.As(err, &e) && e.Kind == domain.KindInvalidInput {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	log.Printf("Unhandled error: %v", err)
	return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
}

func normalizeClimate(s string) (string, bool) {
	for _, c := range []string{domain.ClimateCold, domain.ClimateHumid, domain.ClimateDry} {
		if strings.EqualFold(s, c) {
			return c, true
		}
	}
	return "", false
}
