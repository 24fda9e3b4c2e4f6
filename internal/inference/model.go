// Package inference defines the regression model contract and its
// implementations: in-process linear and tree-ensemble models decoded from an
// artifact, and a client for a remote model server.
package inference

import (
	"context"
	"errors"
	"fmt"
)

// Model maps a fixed-length feature vector to a price in lakhs.
// Implementations are immutable after construction and safe for concurrent use.
type Model interface {
	// Name identifies the model in logs and health output
	Name() string

	// ExpectedFeatures is the feature count the model was trained on
	ExpectedFeatures() int

	// Predict scores one feature vector
	Predict(ctx context.Context, features []float64) (float64, error)
}

// ErrFeatureCount is returned when a vector does not match ExpectedFeatures
var ErrFeatureCount = errors.New("feature count does not match model")

func checkFeatureCount(m Model, features []float64) error {
	if len(features) != m.ExpectedFeatures() {
		return fmt.Errorf("%w: got %d, expected %d", ErrFeatureCount, len(features), m.ExpectedFeatures())
	}
	return nil
}
