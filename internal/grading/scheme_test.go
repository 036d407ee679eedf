package grading

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateWeights(t *testing.T) {
	require.NoError(t, ValidateWeights(30, 50, 20))
	require.NoError(t, ValidateWeights(33.33, 33.33, 33.345), "floating error within tolerance")

	require.ErrorIs(t, ValidateWeights(30, 50, 25), ErrWeightsInvalid)
	require.ErrorIs(t, ValidateWeights(30, 50, 19.5), ErrWeightsInvalid)
	require.ErrorIs(t, ValidateWeights(-10, 90, 20), ErrWeightsInvalid)
	require.ErrorIs(t, ValidateWeights(110, -5, -5), ErrWeightsInvalid)
}
