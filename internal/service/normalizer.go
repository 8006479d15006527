package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/homespark/backend/internal/domain"
	"github.com/homespark/backend/pkg/utils"
)

const (
	defaultModelConfidence = 0.8
	defaultModelVersion    = "1.0"
)

// ResponseNormalizer turns raw ML items into UI recommendations.
// Normalize is pure: the same input always yields the same output.
type ResponseNormalizer struct {
	policy   BudgetPolicy
	fallback *FallbackSynthesizer
}

// NewResponseNormalizer creates a new response normalizer
func NewResponseNormalizer(policy BudgetPolicy, fallback *FallbackSynthesizer) *ResponseNormalizer {
	return &ResponseNormalizer{
		policy:   policy,
		fallback: fallback,
	}
}

// Normalize maps every raw item in order. An empty response is handed to
// the fallback synthesizer so the result is never empty.
func (n *ResponseNormalizer) Normalize(raw domain.RawMLResponse, prefs domain.WizardPreferences) []domain.Recommendation {
	if len(raw.Recommendations) == 0 {
		return n.fallback.SynthesizeFor(prefs, domain.KindEmptyResult)
	}

	seen := make(map[string]bool, len(raw.Recommendations))
	out := make([]domain.Recommendation, 0, len(raw.Recommendations))
	for i, item := range raw.Recommendations {
		rec := n.normalizeItem(item, i, raw, prefs)
		base := rec.ID
		for k := i + 1; seen[rec.ID]; k++ {
			rec.ID = fmt.Sprintf("%s-%d", base, k)
		}
		seen[rec.ID] = true
		out = append(out, rec)
	}
	return out
}

func (n *ResponseNormalizer) normalizeItem(item domain.RawRecommendation, index int, raw domain.RawMLResponse, prefs domain.WizardPreferences) domain.Recommendation {
	room := firstString(item, prefs.RoomType, "kitchen", "room_type", "roomType")
	style := firstString(item, prefs.Style, domain.StyleModern, "style")
	io := firstString(item, prefs.IndoorOutdoor, domain.Indoor, "indoor_outdoor", "indoorOutdoor")
	climate := firstString(item, prefs.ClimateType, domain.ClimateDry, "climate_suitability", "climate_type", "climateType")

	confidence, percent := n.scores(item)

	price, ok := item.Number("estimated_price", "price", "total_cost", "budget_estimate")
	if !ok || price <= 0 {
		price = budgetPrice(prefs.Budget, n.policy)
	}

	id, ok := item.String("id")
	if !ok {
		id = fmt.Sprintf("ml-rec-%d", index+1)
	}

	name, ok := item.String("item_name", "name", "title")
	if !ok {
		name = generateName(style, room, io)
	}

	image, ok := item.String("image", "image_url")
	if !ok {
		image = ImageURL(style, room)
	}

	timeline, ok := item.String("timeline", "estimated_timeline")
	if !ok {
		timeline = EstimateTimeline(price)
	}

	roi, ok := item.String("roi", "return_on_investment")
	if !ok {
		roi = EstimateROI(price, confidence)
	}

	attributes, ok := item.CostBreakdown("attributes", "cost_breakdown")
	if ok {
		attributes = reconcileBreakdown(price, attributes)
	} else {
		attributes = CostBreakdown(price, room, io)
	}

	explanation, ok := item.String("explanation")
	if !ok {
		explanation = generateExplanation(style, room, confidence)
	}

	features, ok := item.Strings("features")
	if !ok {
		features = FeaturesFor(room, io)
	}

	materials, ok := item.Strings("materials")
	if !ok {
		materials = MaterialsFor(climate, io)
	}

	quality, ok := item.String("match_quality")
	if !ok || !validMatchQuality(quality) {
		quality = MatchQuality(confidence)
	}

	version := raw.ModelVersion
	if version == "" {
		version = defaultModelVersion
	}

	return domain.Recommendation{
		ID:              id,
		Name:            name,
		Image:           image,
		MatchPercentage: percent,
		MatchQuality:    quality,
		Price:           price,
		Timeline:        timeline,
		ROI:             roi,
		Style:           utils.Capitalize(style),
		RoomType:        utils.TitleWords(room),
		IndoorOutdoor:   utils.Capitalize(io),
		ClimateType:     utils.Capitalize(climate),
		Attributes:      attributes,
		Explanation:     explanation,
		Features:        features,
		Materials:       materials,
		ModelConfidence: confidence,
		ModelData: domain.ModelData{
			OriginalResponse: item,
			ProcessingTimeMs: raw.ProcessingTimeMs,
			ModelVersion:     version,
		},
	}
}

// scores derives confidence in [0,1] and a match percentage in [0,100].
// Either one fills in for the other when only one is present; match scores
// at or below 1 are read as fractions.
func (n *ResponseNormalizer) scores(item domain.RawRecommendation) (float64, int) {
	confidence, hasConf := item.Score("confidence", "modelConfidence")
	percent, hasPct := item.Score("matchPercentage", "match_score")
	if hasPct && percent <= 1 {
		percent *= 100
	}

	switch {
	case hasConf:
		confidence = utils.Clamp(confidence, 0, 1)
	case hasPct:
		confidence = utils.Clamp(percent/100, 0, 1)
	default:
		confidence = defaultModelConfidence
	}
	if !hasPct {
		percent = confidence * 100
	}
	return confidence, utils.ClampInt(int(math.Round(percent)), 0, 100)
}

func firstString(item domain.RawRecommendation, pref, def string, keys ...string) string {
	if s, ok := item.String(keys...); ok {
		return strings.TrimSpace(s)
	}
	return orDefault(pref, def)
}
