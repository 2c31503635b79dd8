package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUtility_LogBranch(t *testing.T) {
	u, err := Utility(2.5, 1)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(2.5), u, 1e-15)
}

func TestUtility_PowerForm(t *testing.T) {
	// σ=2: u(c) = -1/c
	u, err := Utility(4, 2)
	require.NoError(t, err)
	assert.InDelta(t, -0.25, u, 1e-15)
}

func TestUtility_InvalidInputs(t *testing.T) {
	tests := []struct {
		name  string
		c     float64
		sigma float64
	}{
		{"zero consumption", 0, 2},
		{"negative consumption", -1, 2},
		{"zero sigma", 1, 0},
		{"negative sigma", 1, -0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Utility(tt.c, tt.sigma)
			assert.Error(t, err)
		})
	}
}

func TestMarginalUtility(t *testing.T) {
	assert.InDelta(t, 0.5, MarginalUtility(2, 1), 1e-15)
	assert.InDelta(t, 0.25, MarginalUtility(2, 2), 1e-15)
}
