package sarimax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolyMul(t *testing.T) {
	// (1 - 0.5B)(1 + 0.2B) = 1 - 0.3B - 0.1B^2
	got := polyMul([]float64{1, -0.5}, []float64{1, 0.2})
	assert.InDeltaSlice(t, []float64{1, -0.3, -0.1}, got, 1e-12)
}

func TestSeasonalPolynomials(t *testing.T) {
	assert.Equal(t, []float64{1, 0, 0, 0, -0.7}, arPolynomial([]float64{0.7}, 4))
	assert.Equal(t, []float64{1, 0.4, 0.2}, maPolynomial([]float64{0.4, 0.2}, 1))
}

func TestDifferencingPolynomial(t *testing.T) {
	assert.Equal(t, []float64{1}, differencingPolynomial(0, 0, 4))
	assert.Equal(t, []float64{1, -2, 1}, differencingPolynomial(2, 0, 4))
	assert.Equal(t, []float64{1, -1, 0, 0, -1, 1}, differencingPolynomial(1, 1, 4))
}

func TestApplyPolynomial(t *testing.T) {
	x := []float64{1, 4, 9, 16, 25}
	assert.Equal(t, []float64{3, 5, 7, 9}, applyPolynomial([]float64{1, -1}, x))
	assert.Equal(t, []float64{2, 2, 2}, applyPolynomial([]float64{1, -2, 1}, x))
	assert.Nil(t, applyPolynomial([]float64{1, 0, 0, 0, 0, -1}, x))
}

func TestPsiWeights(t *testing.T) {
	// AR(1) with phi = 0.5: psi_j = 0.5^j
	psi := psiWeights([]float64{1, -0.5}, []float64{1}, 4)
	assert.InDeltaSlice(t, []float64{1, 0.5, 0.25, 0.125}, psi, 1e-12)

	// MA(1): 1, theta, 0, ...
	psi = psiWeights([]float64{1}, []float64{1, 0.3}, 3)
	assert.InDeltaSlice(t, []float64{1, 0.3, 0}, psi, 1e-12)

	// Random walk: all ones
	psi = psiWeights([]float64{1, -1}, []float64{1}, 3)
	assert.InDeltaSlice(t, []float64{1, 1, 1}, psi, 1e-12)
}

func TestConstrainStationary(t *testing.T) {
	for _, x := range [][]float64{{0.3}, {2, -1}, {-5, 4, 0.5}, {1.5, -0.5, 0.2, 0.1}} {
		phi := constrainStationary(x)
		assert.True(t, isStationary(phi), "%v -> %v", x, phi)
		assert.InDeltaSlice(t, x, unconstrainStationary(phi), 1e-6)
	}

	// A single coefficient is the partial autocorrelation itself.
	phi := constrainStationary([]float64{1})
	assert.InDelta(t, 1/1.4142135623730951, phi[0], 1e-12)
}

func TestIsStationary(t *testing.T) {
	assert.True(t, isStationary(nil))
	assert.True(t, isStationary([]float64{0.9}))
	assert.False(t, isStationary([]float64{1}))
	assert.True(t, isStationary([]float64{0.5, 0.3}))
	assert.False(t, isStationary([]float64{0.7, 0.4}))
}
