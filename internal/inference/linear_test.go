package inference

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearModel_Predict(t *testing.T) {
	m, err := NewLinearModel("", 10, []float64{1, 0.5, -2}, 3)
	require.NoError(t, err)

	assert.Equal(t, "linear", m.Name())
	assert.Equal(t, 3, m.ExpectedFeatures())

	got, err := m.Predict(context.Background(), []float64{2, 4, 1})
	require.NoError(t, err)
	assert.InDelta(t, 10+2+2-2, got, 1e-9)
}

func TestLinearModel_FeatureCount(t *testing.T) {
	_, err := NewLinearModel("m", 0, []float64{1, 2}, 3)
	require.Error(t, err)

	m, err := NewLinearModel("m", 0, []float64{1, 2}, 2)
	require.NoError(t, err)

	_, err = m.Predict(context.Background(), []float64{1, 2, 3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFeatureCount))
}
