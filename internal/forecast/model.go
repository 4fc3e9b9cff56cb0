// internal/forecast/model.go
package forecast

import (
	"fmt"
	"time"

	"github.com/freshmark/backend-go/internal/domain"
)

// ridgeLambda keeps the normal equations solvable when a feature is constant
// over the training window (its standardized column is all zeros).
const ridgeLambda = 1e-8

// fitStandardizer computes per-feature mean and scale on the training rows.
// Zero scales are replaced by 1 so constant features map to zero.
func fitStandardizer(rows []FeatureRow) (means, scales []float64) {
	means = make([]float64, FeatureCount)
	scales = make([]float64, FeatureCount)

	column := make([]float64, len(rows))
	for j := 0; j < FeatureCount; j++ {
		for i, row := range rows {
			column[i] = row.Vector()[j]
		}
		means[j] = mean(column)
		scales[j] = populationStd(column)
		if scales[j] == 0 {
			scales[j] = 1
		}
	}
	return means, scales
}

func standardize(features, means, scales []float64) []float64 {
	out := make([]float64, len(features))
	for j := range features {
		out[j] = (features[j] - means[j]) / scales[j]
	}
	return out
}

// fitModel fits a least-squares linear regression of units sold on the
// standardized features via the normal equations.
func fitModel(rows []FeatureRow) (*domain.TrainedModel, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no feature rows to fit")
	}

	means, scales := fitStandardizer(rows)

	// Design matrix with a leading intercept column.
	dim := FeatureCount + 1
	x := make([][]float64, len(rows))
	y := make([]float64, len(rows))
	for i, row := range rows {
		scaled := standardize(row.Vector(), means, scales)
		x[i] = append([]float64{1}, scaled...)
		y[i] = row.UnitsSold
	}

	// Normal equations: (X^T X + lambda I) beta = X^T y.
	a := make([][]float64, dim)
	b := make([]float64, dim)
	for i := 0; i < dim; i++ {
		a[i] = make([]float64, dim)
		for j := 0; j < dim; j++ {
			sum := 0.0
			for k := range x {
				sum += x[k][i] * x[k][j]
			}
			a[i][j] = sum
		}
		if i > 0 {
			a[i][i] += ridgeLambda
		}
		for k := range x {
			b[i] += x[k][i] * y[k]
		}
	}

	beta, err := solveLinearSystem(a, b)
	if err != nil {
		return nil, fmt.Errorf("fit linear model: %w", err)
	}

	return &domain.TrainedModel{
		Coefficients:  beta[1:],
		Intercept:     beta[0],
		FeatureMeans:  means,
		FeatureScales: scales,
		Observations:  len(rows),
		TrainedAt:     time.Now().UTC(),
	}, nil
}

// predict applies the model to a raw (unstandardized) feature vector.
func predict(m *domain.TrainedModel, features []float64) float64 {
	scaled := standardize(features, m.FeatureMeans, m.FeatureScales)
	return m.Intercept + dot(m.Coefficients, scaled)
}
