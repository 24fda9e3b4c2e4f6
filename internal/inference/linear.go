package inference

import (
	"context"
	"fmt"
)

// LinearModel scores intercept + Σ coefficient·feature
type LinearModel struct {
	name         string
	intercept    float64
	coefficients []float64
}

// NewLinearModel builds a linear model over nFeatures inputs
func NewLinearModel(name string, intercept float64, coefficients []float64, nFeatures int) (*LinearModel, error) {
	if len(coefficients) != nFeatures {
		return nil, fmt.Errorf("linear model has %d coefficients, expected %d", len(coefficients), nFeatures)
	}
	if name == "" {
		name = "linear"
	}
	coef := make([]float64, len(coefficients))
	copy(coef, coefficients)
	return &LinearModel{name: name, intercept: intercept, coefficients: coef}, nil
}

// Name implements Model
func (m *LinearModel) Name() string { return m.name }

// ExpectedFeatures implements Model
func (m *LinearModel) ExpectedFeatures() int { return len(m.coefficients) }

// Predict implements Model
func (m *LinearModel) Predict(_ context.Context, features []float64) (float64, error) {
	if err := checkFeatureCount(m, features); err != nil {
		return 0, err
	}
	sum := m.intercept
	for i, x := range features {
		sum += m.coefficients[i] * x
	}
	return sum, nil
}
