package service

import (
	"fmt"
	"strings"

	"github.com/homespark/backend/internal/domain"
	"github.com/homespark/backend/pkg/utils"
)

const (
	fallbackConfidence   = 0.85
	fallbackMatchPercent = 85
	fallbackModelVersion = "fallback"
)

// FallbackSynthesizer builds a single placeholder recommendation from the
// user's own answers when the model cannot be used.
type FallbackSynthesizer struct {
	policy BudgetPolicy
}

// NewFallbackSynthesizer creates a new fallback synthesizer
func NewFallbackSynthesizer(policy BudgetPolicy) *FallbackSynthesizer {
	return &FallbackSynthesizer{policy: policy}
}

// Synthesize never fails; missing answers fall back to defaults. The
// explanation assumes the model could not be reached.
func (f *FallbackSynthesizer) Synthesize(prefs domain.WizardPreferences) []domain.Recommendation {
	return f.SynthesizeFor(prefs, domain.KindServiceUnavailable)
}

// SynthesizeFor is Synthesize with the explanation worded for reason
func (f *FallbackSynthesizer) SynthesizeFor(prefs domain.WizardPreferences, reason domain.ErrorKind) []domain.Recommendation {
	style := orDefault(prefs.Style, domain.StyleModern)
	room := orDefault(prefs.RoomType, "kitchen")
	io := orDefault(prefs.IndoorOutdoor, domain.Indoor)
	climate := orDefault(prefs.ClimateType, domain.ClimateDry)
	price := budgetPrice(prefs.Budget, f.policy)

	rec := domain.Recommendation{
		ID:              "fallback-1",
		Name:            generateName(style, room, io),
		Image:           ImageURL(style, room),
		MatchPercentage: fallbackMatchPercent,
		Price:           price,
		Timeline:        EstimateTimeline(price),
		ROI:             EstimateROI(price, fallbackConfidence),
		Style:           utils.Capitalize(style),
		RoomType:        utils.TitleWords(room),
		IndoorOutdoor:   utils.Capitalize(io),
		ClimateType:     utils.Capitalize(climate),
		Attributes:      CostBreakdown(price, room, io),
		Explanation: fmt.Sprintf(
			"This %s %s renovation is based on your selections. %s",
			strings.ToLower(style), strings.ToLower(utils.TitleWords(room)), fallbackReason(reason),
		),
		Features:        FeaturesFor(room, io),
		Materials:       MaterialsFor(climate, io),
		ModelConfidence: fallbackConfidence,
		ModelData: domain.ModelData{
			IsFallback:   true,
			ModelVersion: fallbackModelVersion,
		},
	}
	return []domain.Recommendation{rec}
}

func fallbackReason(reason domain.ErrorKind) string {
	switch reason {
	case domain.KindEmptyResult:
		return "The AI model found no close matches, so this is a fallback recommendation."
	case domain.KindMalformedResponse:
		return "The AI model returned an unreadable answer, so this is a fallback recommendation."
	default:
		return "The AI model is currently unavailable, so this is a fallback recommendation."
	}
}

// budgetPrice is the midpoint of the budget, or of the policy default when
// the descriptor yields nothing positive.
func budgetPrice(descriptor string, policy BudgetPolicy) float64 {
	if mid := ParseBudget(descriptor, policy).Midpoint(); mid > 0 {
		return float64(mid)
	}
	return float64(ParseBudget("", policy).Midpoint())
}
