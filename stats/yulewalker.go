package stats

// YuleWalker estimates AR(order) coefficients from autocorrelations
// acf[0..order] by Levinson-Durbin recursion. It also returns the ratio of
// the innovation variance to the series variance. The recursion stops
// early, keeping the coefficients found so far, if that ratio reaches zero.
func YuleWalker(acf []float64, order int) ([]float64, float64) {
	if order <= 0 || len(acf) <= order {
		return nil, 1
	}

	phi := make([]float64, order)
	phi[0] = acf[1]
	v := 1 - phi[0]*phi[0]

	next := make([]float64, order)
	for i := 1; i < order; i++ {
		if v <= 0 {
			break
		}
		lambda := acf[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * acf[i-j]
		}
		lambda /= v

		for j := 0; j < i; j++ {
			next[j] = phi[j] - lambda*phi[i-1-j]
		}
		next[i] = lambda
		copy(phi[:i+1], next[:i+1])

		v *= 1 - lambda*lambda
	}

	return phi, v
}
