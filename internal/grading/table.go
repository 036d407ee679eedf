package grading

import (
	"errors"
	"sort"

	"github.com/noah-isme/gradebook-go-api/internal/models"
)

// ErrTableEmpty indicates a scheme has no transmutation rules at all.
var ErrTableEmpty = errors.New("transmutation table has no rules")

// ErrTableGap indicates the configured ranges leave part of [0,100] uncovered.
var ErrTableGap = errors.New("transmutation table has a coverage gap")

// ErrTableOverlap indicates two rules claim the same percentage.
var ErrTableOverlap = errors.New("transmutation table rules overlap")

// ErrRuleBoundsInvalid indicates a rule whose minimum exceeds its maximum.
var ErrRuleBoundsInvalid = errors.New("transmutation rule bounds are inverted")

const (
	// boundaryStep is the largest allowed distance between one rule's
	// inclusive upper bound and the next rule's lower bound. Seed data uses
	// fractional boundaries such as 84.99 followed by 85.
	boundaryStep = 0.01
	epsilon      = 1e-9
)

// Table is a validated, ordered transmutation table. Lookup treats each rule
// as half-open at the top (a percent on the 84.99/85 boundary seam belongs to
// the lower rule), so the inclusive seed ranges never leave values like
// 84.995 unmatched.
type Table struct {
	rules []models.TransmutationRule
}

// NewTable sorts and validates the rule set: bounds must be ordered within
// each rule, ranges must not overlap, and together they must cover [0,100].
func NewTable(rules []models.TransmutationRule) (Table, error) {
	if len(rules) == 0 {
		return Table{}, ErrTableEmpty
	}

	sorted := make([]models.TransmutationRule, len(rules))
	copy(sorted, rules)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinPercent < sorted[j].MinPercent
	})

	for i, rule := range sorted {
		if rule.MinPercent > rule.MaxPercent+epsilon {
			return Table{}, ErrRuleBoundsInvalid
		}
		if i == 0 {
			if rule.MinPercent > epsilon {
				return Table{}, ErrTableGap
			}
			continue
		}

		previous := sorted[i-1]
		if rule.MinPercent < previous.MaxPercent-epsilon {
			return Table{}, ErrTableOverlap
		}
		if rule.MinPercent > previous.MaxPercent+boundaryStep+epsilon {
			return Table{}, ErrTableGap
		}
	}

	if sorted[len(sorted)-1].MaxPercent < 100-epsilon {
		return Table{}, ErrTableGap
	}

	return Table{rules: sorted}, nil
}

// Lookup clamps percent to [0,100] and returns the transmuted grade of the
// rule containing it. A miss means the table was never validated (or is
// empty) and is reported as a configuration error, never defaulted.
func (t Table) Lookup(percent float64) (float64, error) {
	if len(t.rules) == 0 {
		return 0, ErrTableEmpty
	}

	p := clamp(percent, 0, 100)

	for i := len(t.rules) - 1; i >= 0; i-- {
		if p >= t.rules[i].MinPercent-epsilon {
			return t.rules[i].Grade, nil
		}
	}

	return 0, ErrTableGap
}

// Rules returns the validated rules in ascending order.
func (t Table) Rules() []models.TransmutationRule {
	return t.rules
}

func clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

// DefaultTransmutationRules returns the seed table applied when a scheme is
// configured without an explicit rule set.
func DefaultTransmutationRules() []models.TransmutationRule {
	return []models.TransmutationRule{
		{MinPercent: 0, MaxPercent: 9.99, Grade: 40},
		{MinPercent: 10, MaxPercent: 19.99, Grade: 45},
		{MinPercent: 20, MaxPercent: 29.99, Grade: 50},
		{MinPercent: 30, MaxPercent: 39.99, Grade: 54},
		{MinPercent: 40, MaxPercent: 49.99, Grade: 58},
		{MinPercent: 50, MaxPercent: 54.99, Grade: 62},
		{MinPercent: 55, MaxPercent: 59.99, Grade: 66},
		{MinPercent: 60, MaxPercent: 64.99, Grade: 70},
		{MinPercent: 65, MaxPercent: 69.99, Grade: 74},
		{MinPercent: 70, MaxPercent: 74.99, Grade: 78},
		{MinPercent: 75, MaxPercent: 79.99, Grade: 82},
		{MinPercent: 80, MaxPercent: 84.99, Grade: 86},
		{MinPercent: 85, MaxPercent: 89.99, Grade: 90},
		{MinPercent: 90, MaxPercent: 95.99, Grade: 95},
		{MinPercent: 96, MaxPercent: 100, Grade: 99},
	}
}
