package model

import "math"

// Metrics holds the held-out evaluation of a fitted model
type Metrics struct {
	MSE float64 `json:"mse"`
	R2  float64 `json:"r2"`
}

// Evaluate computes mean squared error and the coefficient of
// determination of predictions against actuals. R2 is NaN when the
// actuals are constant.
func Evaluate(actual, predicted []float64) Metrics {
	n := float64(len(actual))
	if n == 0 {
		return Metrics{MSE: math.NaN(), R2: math.NaN()}
	}

	var sse float64
	var mean float64
	for i := range actual {
		d := actual[i] - predicted[i]
		sse += d * d
		mean += actual[i]
	}
	mean /= n

	var sst float64
	for _, v := range actual {
		d := v - mean
		sst += d * d
	}

	m := Metrics{MSE: sse / n}
	if sst == 0 {
		m.R2 = math.NaN()
	} else {
		m.R2 = 1 - sse/sst
	}
	return m
}
