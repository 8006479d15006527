package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/homespark/backend/pkg/utils"
)

// BudgetPolicy selects how a budget descriptor is turned into a range
type BudgetPolicy string

const (
	// BudgetPolicyNormalized reads descriptors on the wizard's 0-550 scale
	BudgetPolicyNormalized BudgetPolicy = "normalized"
	// BudgetPolicyDollar reads descriptors as absolute dollar estimates
	BudgetPolicyDollar BudgetPolicy = "dollar"
)

const (
	dollarWindow     = 2000
	dollarFloor      = 1000
	dollarDefaultMin = 5000
	dollarDefaultMax = 15000

	scaleWindow = 50
	scaleMin    = 0
	scaleMax    = 550
)

var (
	thousandsSuffix = regexp.MustCompile(`(\d)\s*[kK]\b`)
	currencyChars   = regexp.MustCompile(`[$€£]`)
	groupedDigits   = regexp.MustCompile(`(\d),(\d{3})\b`)
	integerPattern  = regexp.MustCompile(`\d+`)
)

// BudgetRange is a numeric budget window
type BudgetRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Midpoint returns the rounded center of the range
func (b BudgetRange) Midpoint() int {
	return (b.Min + b.Max + 1) / 2
}

// ParseBudgetPolicy maps a config value to a policy, defaulting to normalized
func ParseBudgetPolicy(s string) BudgetPolicy {
	if BudgetPolicy(strings.ToLower(strings.TrimSpace(s))) == BudgetPolicyDollar {
		return BudgetPolicyDollar
	}
	return BudgetPolicyNormalized
}

// ParseBudget turns a free-form descriptor such as "200-400", "$5k" or
// "about 300" into a range. It never fails.
func ParseBudget(descriptor string, policy BudgetPolicy) BudgetRange {
	numbers := extractIntegers(descriptor, policy)

	if policy == BudgetPolicyDollar {
		switch {
		case len(numbers) >= 2:
			return BudgetRange{Min: numbers[0], Max: numbers[1]}
		case len(numbers) == 1:
			v := numbers[0]
			return BudgetRange{Min: max(dollarFloor, v-dollarWindow), Max: v + dollarWindow}
		default:
			return BudgetRange{Min: dollarDefaultMin, Max: dollarDefaultMax}
		}
	}

	switch {
	case len(numbers) >= 2:
		return BudgetRange{
			Min: utils.ClampInt(numbers[0], scaleMin, scaleMax),
			Max: utils.ClampInt(numbers[1], scaleMin, scaleMax),
		}
	case len(numbers) == 1:
		v := utils.ClampInt(numbers[0], scaleMin, scaleMax)
		return BudgetRange{Min: max(scaleMin, v-scaleWindow), Max: min(scaleMax, v+scaleWindow)}
	default:
		return BudgetRange{Min: scaleMin, Max: scaleMax}
	}
}

// extractIntegers pulls whole numbers out of descriptor. Dollar amounts may
// use thousands separators ("$5,000"); the 0-550 scale never does, so there a
// comma separates values ("200,400").
func extractIntegers(descriptor string, policy BudgetPolicy) []int {
	clean := thousandsSuffix.ReplaceAllString(descriptor, "${1}000")
	clean = currencyChars.ReplaceAllString(clean, "")
	if policy == BudgetPolicyDollar {
		for groupedDigits.MatchString(clean) {
			clean = groupedDigits.ReplaceAllString(clean, "${1}${2}")
		}
	}

	var out []int
	for _, m := range integerPattern.FindAllString(clean, -1) {
		n, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
