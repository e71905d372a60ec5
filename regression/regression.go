// Package regression fits a single-feature linear model by ordinary least
// squares.
package regression

import "errors"

var (
	ErrLengthMismatch = errors.New("x and y must have the same length")
	ErrTooFewPoints   = errors.New("at least two points are required")
	ErrZeroVariance   = errors.New("x values must not all be equal")
)

// Model is y = Intercept + Slope*x.
type Model struct {
	Intercept float64
	Slope     float64
}

func (m Model) Predict(x float64) float64 {
	return m.Intercept + m.Slope*x
}

// Fit returns the least-squares line through (xs[i], ys[i]).
func Fit(xs, ys []float64) (Model, error) {
	if len(xs) != len(ys) {
		return Model{}, ErrLengthMismatch
	}
	if len(xs) < 2 {
		return Model{}, ErrTooFewPoints
	}

	n := float64(len(xs))
	var meanX, meanY float64
	for i := range xs {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= n
	meanY /= n

	var sxx, sxy float64
	for i := range xs {
		dx := xs[i] - meanX
		sxx += dx * dx
		sxy += dx * (ys[i] - meanY)
	}
	if sxx == 0 {
		return Model{}, ErrZeroVariance
	}

	slope := sxy / sxx
	return Model{Intercept: meanY - slope*meanX, Slope: slope}, nil
}
