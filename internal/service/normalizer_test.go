package service

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/homespark/backend/internal/domain"
)

func newTestNormalizer() *ResponseNormalizer {
	return NewResponseNormalizer(BudgetPolicyNormalized, NewFallbackSynthesizer(BudgetPolicyNormalized))
}

var kitchenPrefs = domain.WizardPreferences{
	IndoorOutdoor: "Indoor",
	Budget:        "200-400",
	Style:         "Modern",
	RoomType:      "kitchen",
	Location:      "Austin",
	ClimateType:   "Dry",
}

func decodeRaw(t *testing.T, body string) domain.RawMLResponse {
	t.Helper()
	var raw domain.RawMLResponse
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return raw
}

func TestNormalizeMapsFieldsInOrder(t *testing.T) {
	raw := decodeRaw(t, `{
		"model_version": "2.1",
		"processing_time_ms": 42,
		"recommendations": [
			{"id": "a", "name": "Open Kitchen", "price": 320, "confidence": 0.93, "style": "modern", "room_type": "kitchen"},
			{"id": "b", "name": "Galley Kitchen", "price": 260, "confidence": 0.71}
		]
	}`)

	recs := newTestNormalizer().Normalize(raw, kitchenPrefs)
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	if recs[0].ID != "a" || recs[1].ID != "b" {
		t.Fatalf("order not preserved: %s, %s", recs[0].ID, recs[1].ID)
	}

	first := recs[0]
	if first.Name != "Open Kitchen" || first.Price != 320 || first.MatchPercentage != 93 {
		t.Errorf("unexpected mapping: %+v", first)
	}
	if first.Style != "Modern" || first.RoomType != "Kitchen" || first.IndoorOutdoor != "Indoor" {
		t.Errorf("unexpected display fields: %s/%s/%s", first.Style, first.RoomType, first.IndoorOutdoor)
	}
	if first.MatchQuality != "Perfect" {
		t.Errorf("unexpected match quality %q", first.MatchQuality)
	}
	if first.ModelData.IsFallback || first.ModelData.ModelVersion != "2.1" || first.ModelData.ProcessingTimeMs != 42 {
		t.Errorf("unexpected model data: %+v", first.ModelData)
	}
	if first.ModelData.OriginalResponse["name"] != "Open Kitchen" {
		t.Error("original response should be kept verbatim")
	}
	if !strings.Contains(first.Explanation, "excellent match") {
		t.Errorf("high confidence explanation expected, got %q", first.Explanation)
	}
}

func TestNormalizeAlternateKeys(t *testing.T) {
	raw := decodeRaw(t, `{"recommendations": [
		{"item_name": "Spa Bathroom", "estimated_price": 410, "match_score": 0.92, "room_type": "bathroom", "climate_suitability": "humid"}
	]}`)

	rec := newTestNormalizer().Normalize(raw, kitchenPrefs)[0]
	if rec.Name != "Spa Bathroom" || rec.Price != 410 {
		t.Fatalf("alternate keys not read: %+v", rec)
	}
	if rec.MatchPercentage != 92 || math.Abs(rec.ModelConfidence-0.92) > 1e-9 {
		t.Fatalf("match score should drive both scores, got %d / %v", rec.MatchPercentage, rec.ModelConfidence)
	}
	if rec.ID != "ml-rec-1" {
		t.Errorf("expected generated id, got %q", rec.ID)
	}
	if _, ok := rec.Attributes["vanity"]; !ok {
		t.Errorf("bathroom template expected, got %+v", rec.Attributes)
	}
	if rec.Materials[0] != "Quartz" || rec.ClimateType != "Humid" {
		t.Errorf("humid materials expected, got %v (%s)", rec.Materials, rec.ClimateType)
	}
}

func TestNormalizeDefaultsFromPreferences(t *testing.T) {
	raw := decodeRaw(t, `{"recommendations": [{}]}`)

	rec := newTestNormalizer().Normalize(raw, kitchenPrefs)[0]
	if rec.Price != 300 {
		t.Errorf("missing price should fall back to the budget midpoint, got %v", rec.Price)
	}
	if rec.ModelConfidence != defaultModelConfidence || rec.MatchPercentage != 80 {
		t.Errorf("unexpected default scores: %v / %d", rec.ModelConfidence, rec.MatchPercentage)
	}
	if rec.Name != "Modern Kitchen Renovation" {
		t.Errorf("unexpected generated name %q", rec.Name)
	}
	if rec.Timeline != "2-3 weeks" || rec.ROI == "" || rec.Image == "" {
		t.Errorf("derived fields missing: %+v", rec)
	}
	if rec.ModelData.ModelVersion != defaultModelVersion {
		t.Errorf("unexpected model version %q", rec.ModelData.ModelVersion)
	}
}

func TestNormalizeOutdoorPrecedence(t *testing.T) {
	prefs := kitchenPrefs
	prefs.IndoorOutdoor = "Outdoor"
	raw := decodeRaw(t, `{"recommendations": [{"price": 400, "room_type": "kitchen"}]}`)

	rec := newTestNormalizer().Normalize(raw, prefs)[0]
	if _, ok := rec.Attributes["hardscape"]; !ok {
		t.Fatalf("outdoor template expected, got %+v", rec.Attributes)
	}
	if rec.Name != "Modern Kitchen Outdoor Renovation" {
		t.Errorf("unexpected name %q", rec.Name)
	}
	if rec.Features[0] != "Weather Resistant" {
		t.Errorf("outdoor features expected, got %v", rec.Features)
	}
}

func TestNormalizeDuplicateIDs(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"repeated id", `{"recommendations": [{"id": "x"}, {"id": "x"}, {"id": "y"}]}`, []string{"x", "x-2", "y"}},
		{"suffix already taken", `{"recommendations": [{"id": "a-3"}, {"id": "a"}, {"id": "a"}]}`, []string{"a-3", "a", "a-4"}},
		{"default ids collide", `{"recommendations": [{"id": "ml-rec-2"}, {}]}`, []string{"ml-rec-2", "ml-rec-2-2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := newTestNormalizer().Normalize(decodeRaw(t, tt.body), kitchenPrefs)
			ids := map[string]bool{}
			for i, r := range recs {
				if ids[r.ID] {
					t.Fatalf("duplicate id %q", r.ID)
				}
				ids[r.ID] = true
				if r.ID != tt.want[i] {
					t.Errorf("recs[%d].ID = %q, want %q", i, r.ID, tt.want[i])
				}
			}
		})
	}
}

func TestNormalizeZeroScoreIsKept(t *testing.T) {
	raw := decodeRaw(t, `{"recommendations": [
		{"confidence": 0.0, "estimated_price": 300},
		{"match_score": 0, "estimated_price": 300}
	]}`)

	for _, r := range newTestNormalizer().Normalize(raw, kitchenPrefs) {
		if r.ModelConfidence != 0 || r.MatchPercentage != 0 {
			t.Errorf("%s: zero score replaced: conf=%v pct=%d", r.ID, r.ModelConfidence, r.MatchPercentage)
		}
		if r.MatchQuality != "Basic" {
			t.Errorf("%s: match quality %q, want Basic", r.ID, r.MatchQuality)
		}
		if r.ROI != "13%" {
			t.Errorf("%s: ROI %q should use the zero score", r.ID, r.ROI)
		}
	}
}

func TestNormalizeInvariants(t *testing.T) {
	raw := decodeRaw(t, `{"recommendations": [
		{"price": 333.33, "confidence": 1.7, "room_type": "bedroom"},
		{"total_cost": 8500, "match_score": 150},
		{"price": -20, "confidence": -1},
		{"budget_estimate": "275", "cost_breakdown": {"a": {"item": "A", "price": 10}, "b": {"item": "B", "price": 10}}}
	]}`)

	recs := newTestNormalizer().Normalize(raw, kitchenPrefs)
	for _, r := range recs {
		if r.ModelConfidence < 0 || r.ModelConfidence > 1 {
			t.Errorf("%s: confidence %v out of range", r.ID, r.ModelConfidence)
		}
		if r.MatchPercentage < 0 || r.MatchPercentage > 100 {
			t.Errorf("%s: match percentage %d out of range", r.ID, r.MatchPercentage)
		}
		if r.Price <= 0 {
			t.Errorf("%s: price %v not positive", r.ID, r.Price)
		}
		var sum float64
		for _, item := range r.Attributes {
			sum += item.Price
		}
		if math.Abs(sum-r.Price) > float64(len(r.Attributes)-1) {
			t.Errorf("%s: attributes sum %v, price %v", r.ID, sum, r.Price)
		}
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	raw := decodeRaw(t, `{"model_version": "2.1", "recommendations": [
		{"id": "a", "price": 320, "confidence": 0.93, "features": ["Island"]},
		{"match_score": 0.5}
	]}`)

	n := newTestNormalizer()
	first := n.Normalize(raw, kitchenPrefs)
	second := n.Normalize(raw, kitchenPrefs)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("normalizing the same response twice should give equal output")
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatal("encoded output differs between runs")
	}
}

func TestNormalizeEmptyDelegatesToFallback(t *testing.T) {
	recs := newTestNormalizer().Normalize(domain.RawMLResponse{}, kitchenPrefs)
	if len(recs) != 1 || !recs[0].ModelData.IsFallback {
		t.Fatalf("expected one fallback recommendation, got %+v", recs)
	}
	if strings.Contains(recs[0].Explanation, "unavailable") || !strings.Contains(recs[0].Explanation, "no close matches") {
		t.Errorf("empty result should not claim the model is down: %q", recs[0].Explanation)
	}
}

func TestSynthesizeExplainsReason(t *testing.T) {
	f := NewFallbackSynthesizer(BudgetPolicyNormalized)
	tests := []struct {
		reason domain.ErrorKind
		want   string
	}{
		{domain.KindServiceUnavailable, "currently unavailable"},
		{domain.KindEmptyResult, "no close matches"},
		{domain.KindMalformedResponse, "unreadable answer"},
	}
	for _, tt := range tests {
		t.Run(string(tt.reason), func(t *testing.T) {
			rec := f.SynthesizeFor(kitchenPrefs, tt.reason)[0]
			if !strings.Contains(rec.Explanation, tt.want) {
				t.Errorf("explanation %q should contain %q", rec.Explanation, tt.want)
			}
		})
	}
	if got := f.Synthesize(kitchenPrefs)[0].Explanation; !strings.Contains(got, "currently unavailable") {
		t.Errorf("default explanation %q", got)
	}
}

func TestSynthesizeFromPreferences(t *testing.T) {
	recs := NewFallbackSynthesizer(BudgetPolicyNormalized).Synthesize(kitchenPrefs)
	if len(recs) != 1 {
		t.Fatalf("expected exactly one recommendation, got %d", len(recs))
	}
	rec := recs[0]
	if !rec.ModelData.IsFallback || rec.ModelConfidence != fallbackConfidence {
		t.Errorf("unexpected fallback flags: %+v", rec.ModelData)
	}
	if rec.Price != 300 || rec.Style != "Modern" || rec.RoomType != "Kitchen" {
		t.Errorf("fallback should reflect the answers, got %+v", rec)
	}
	if !strings.Contains(rec.Explanation, "fallback") {
		t.Errorf("explanation should say it is a fallback: %q", rec.Explanation)
	}
}

func TestSynthesizeEmptyPreferences(t *testing.T) {
	for _, policy := range []BudgetPolicy{BudgetPolicyNormalized, BudgetPolicyDollar} {
		recs := NewFallbackSynthesizer(policy).Synthesize(domain.WizardPreferences{})
		rec := recs[0]
		if rec.Style != "Modern" || rec.RoomType != "Kitchen" || rec.IndoorOutdoor != "Indoor" {
			t.Errorf("%s: defaults not applied: %+v", policy, rec)
		}
		if rec.Price <= 0 {
			t.Errorf("%s: price %v not positive", policy, rec.Price)
		}
	}

	zero := NewFallbackSynthesizer(BudgetPolicyNormalized).Synthesize(domain.WizardPreferences{Budget: "0-0"})
	if zero[0].Price != 275 {
		t.Errorf("zero budget should use the default midpoint, got %v", zero[0].Price)
	}
}

func TestNormalizeMultibyteStyle(t *testing.T) {
	raw := decodeRaw(t, `{"recommendations": [{"style": "élégant", "price": 300}]}`)

	rec := newTestNormalizer().Normalize(raw, kitchenPrefs)[0]
	if rec.Style != "Élégant" {
		t.Errorf("unexpected style %q", rec.Style)
	}
	if rec.Name != "Élégant Kitchen Renovation" {
		t.Errorf("unexpected name %q", rec.Name)
	}
}
