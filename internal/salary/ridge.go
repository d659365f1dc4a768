package salary

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DefaultAlpha is the L2 penalty strength.
const DefaultAlpha = 1.0

// Ridge is a fitted linear model with an unpenalized intercept.
type Ridge struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
	Alpha     float64   `json:"alpha"`
}

// fitRidge solves (XcᵀXc + αI) w = Xcᵀyc on centered data and recovers the
// intercept as ȳ - x̄·w.
func fitRidge(rows [][]float64, y []float64, alpha float64) (*Ridge, error) {
	n := len(rows)
	if n == 0 || n != len(y) {
		return nil, fmt.Errorf("need matching non-empty samples, got %d rows and %d targets", n, len(y))
	}
	p := len(rows[0])
	if p == 0 {
		return nil, fmt.Errorf("no features")
	}

	xMean := make([]float64, p)
	var yMean float64
	for i, row := range rows {
		for j, v := range row {
			xMean[j] += v
		}
		yMean += y[i]
	}
	for j := range xMean {
		xMean[j] /= float64(n)
	}
	yMean /= float64(n)

	xc := mat.NewDense(n, p, nil)
	yc := mat.NewVecDense(n, nil)
	for i, row := range rows {
		for j, v := range row {
			xc.Set(i, j, v-xMean[j])
		}
		yc.SetVec(i, y[i]-yMean)
	}

	var gram mat.SymDense
	gram.SymOuterK(1, xc.T())
	for j := 0; j < p; j++ {
		gram.SetSym(j, j, gram.At(j, j)+alpha)
	}

	var rhs mat.VecDense
	rhs.MulVec(xc.T(), yc)

	var chol mat.Cholesky
	if ok := chol.Factorize(&gram); !ok {
		return nil, fmt.Errorf("normal equations are not positive definite")
	}
	var w mat.VecDense
	if err := chol.SolveVecTo(&w, &rhs); err != nil {
		return nil, fmt.Errorf("solve failed: %w", err)
	}

	weights := make([]float64, p)
	intercept := yMean
	for j := range weights {
		weights[j] = w.AtVec(j)
		intercept -= xMean[j] * weights[j]
	}

	r := &Ridge{Weights: weights, Intercept: intercept, Alpha: alpha}
	if !r.finite() {
		return nil, fmt.Errorf("solution is not finite")
	}
	return r, nil
}

// Predict evaluates the model on one feature row.
func (r *Ridge) Predict(x []float64) float64 {
	out := r.Intercept
	for j, v := range x {
		out += r.Weights[j] * v
	}
	return out
}

func (r *Ridge) finite() bool {
	if math.IsNaN(r.Intercept) || math.IsInf(r.Intercept, 0) {
		return false
	}
	for _, w := range r.Weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return false
		}
	}
	return true
}
