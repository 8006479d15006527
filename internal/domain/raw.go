package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// RawRecommendation is one loosely-typed item from the ML service.
// No key is guaranteed; accessors take alternate key names in priority
// order and treat null, zero and empty values as absent. Score is the
// exception: a score of zero is a real answer.
type RawRecommendation map[string]any

// String returns the first present value among keys, formatting numbers
func (r RawRecommendation) String(keys ...string) (string, bool) {
	for _, k := range keys {
		switch v := r[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s, true
			}
		case float64:
			if v != 0 {
				return strconv.FormatFloat(v, 'f', -1, 64), true
			}
		case json.Number:
			if v.String() != "" && v.String() != "0" {
				return v.String(), true
			}
		}
	}
	return "", false
}

// Number returns the first present non-zero numeric value among keys.
// Numeric strings are accepted.
func (r RawRecommendation) Number(keys ...string) (float64, bool) {
	for _, k := range keys {
		if f, ok := toFloat(r[k]); ok && f != 0 {
			return f, true
		}
	}
	return 0, false
}

// Score returns the first numeric value among keys, zero included
func (r RawRecommendation) Score(keys ...string) (float64, bool) {
	for _, k := range keys {
		if f, ok := toFloat(r[k]); ok {
			return f, true
		}
	}
	return 0, false
}

// Strings returns the first present non-empty list of strings among keys
func (r RawRecommendation) Strings(keys ...string) ([]string, bool) {
	for _, k := range keys {
		var out []string
		switch v := r[k].(type) {
		case []string:
			out = append(out, v...)
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
					out = append(out, s)
				}
			}
		}
		if len(out) > 0 {
			return out, true
		}
	}
	return nil, false
}

// CostBreakdown returns the first present breakdown object among keys.
// Buckets without a usable price are dropped.
func (r RawRecommendation) CostBreakdown(keys ...string) (map[string]CostItem, bool) {
	for _, k := range keys {
		obj, ok := r[k].(map[string]any)
		if !ok {
			continue
		}
		out := make(map[string]CostItem, len(obj))
		for name, raw := range obj {
			bucket, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			price, ok := toFloat(bucket["price"])
			if !ok {
				continue
			}
			label, _ := bucket["item"].(string)
			if label == "" {
				label = name
			}
			out[name] = CostItem{Item: label, Price: price}
		}
		if len(out) > 0 {
			return out, true
		}
	}
	return nil, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}
