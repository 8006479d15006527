package service

import (
	"fmt"
	"strings"

	"github.com/homespark/backend/internal/domain"
)

// RequestBuilder maps wizard answers onto the ML request schema
type RequestBuilder struct {
	policy              BudgetPolicy
	maxResults          int
	confidenceThreshold float64
}

// NewRequestBuilder creates a new request builder
func NewRequestBuilder(policy BudgetPolicy, maxResults int, confidenceThreshold float64) *RequestBuilder {
	return &RequestBuilder{
		policy:              policy,
		maxResults:          maxResults,
		confidenceThreshold: confidenceThreshold,
	}
}

// Build overlays filters (if any) onto prefs and maps the result
func (b *RequestBuilder) Build(prefs domain.WizardPreferences, filters *domain.CustomizationFilters) domain.MLRequest {
	merged := MergeFilters(prefs, filters)
	budget := ParseBudget(merged.Budget, b.policy)

	return domain.MLRequest{
		UserPreferences: domain.MLUserPreferences{
			BudgetMin:       budget.Min,
			BudgetMax:       budget.Max,
			StylePreference: strings.ToLower(orDefault(merged.Style, domain.StyleModern)),
			RoomType:        strings.ReplaceAll(strings.ToLower(orDefault(merged.RoomType, "kitchen")), "-", "_"),
			IndoorOutdoor:   strings.ToLower(orDefault(merged.IndoorOutdoor, domain.Indoor)),
			Location:        strings.TrimSpace(merged.Location),
			ClimateType:     strings.ToLower(orDefault(merged.ClimateType, domain.ClimateDry)),
		},
		RequestSettings: domain.MLRequestSettings{
			MaxResults:          b.maxResults,
			IncludeExplanation:  true,
			ConfidenceThreshold: b.confidenceThreshold,
		},
	}
}

// MergeFilters returns a copy of prefs with the customization filters applied.
// The budget range wins over the wizard budget, "All" leaves indoor/outdoor
// alone, and only the first selected style is used.
func MergeFilters(prefs domain.WizardPreferences, filters *domain.CustomizationFilters) domain.WizardPreferences {
	merged := prefs
	if filters == nil {
		return merged
	}

	if filters.BudgetRange != nil {
		merged.Budget = fmt.Sprintf("%d-%d", filters.BudgetRange[0], filters.BudgetRange[1])
	}
	if io := strings.TrimSpace(filters.IndoorOutdoor); io != "" && !strings.EqualFold(io, domain.AnyArea) {
		merged.IndoorOutdoor = io
	}
	for _, s := range filters.Styles {
		if s = strings.TrimSpace(s); s != "" {
			merged.Style = s
			break
		}
	}
	return merged
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
