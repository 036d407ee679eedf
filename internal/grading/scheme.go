package grading

import "errors"

// ErrWeightsInvalid indicates category weights that do not sum to 100.
var ErrWeightsInvalid = errors.New("category weights must sum to 100")

// weightTolerance absorbs floating error in configured weights.
const weightTolerance = 0.01

// ValidateWeights checks the three category weights at configuration time.
// Each must lie in [0,100] and together they must sum to 100 within the
// tolerance.
func ValidateWeights(writtenWork, performanceTask, quarterlyAssessment float64) error {
	for _, weight := range []float64{writtenWork, performanceTask, quarterlyAssessment} {
		if weight < 0 || weight > 100 {
			return ErrWeightsInvalid
		}
	}

	sum := writtenWork + performanceTask + quarterlyAssessment
	if sum < 100-weightTolerance || sum > 100+weightTolerance {
		return ErrWeightsInvalid
	}

	return nil
}
