package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"estimator/internal/metrics"
	"estimator/internal/model"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, m *stubModel, store PredictionStore) (*EstimatorService, *metrics.Metrics) {
	t.Helper()
	reg := metrics.New()
	rt := Runtime{Vocabulary: testVocabulary(t)}
	if m != nil {
		rt.Model = m
	}
	return NewEstimatorService(rt, store, reg, nil), reg
}

func TestPredict_Success(t *testing.T) {
	stub := &stubModel{score: 55.0, expected: 43}
	svc, reg := newTestService(t, stub, nil)

	resp, err := svc.Predict(context.Background(), model.RawInput{
		"city":          "Mumbai",
		"property_type": "Apartment",
		"bedrooms":      3,
		"area_sqft":     1200,
	})
	require.NoError(t, err)

	assert.Equal(t, "₹ 55.00 Lakhs", resp.Price)
	assert.Equal(t, 55.0, resp.PriceLakhs)
	assert.Equal(t, model.PredictionDetails{
		City:          "Mumbai",
		PropertyType:  "Apartment",
		AreaSqft:      1200,
		FeaturesCount: 43,
	}, resp.Details)
	assert.Empty(t, resp.PredictionID)

	features := stub.lastFeatures()
	require.Len(t, features, 43)
	assert.Equal(t, 6.0, features[0])
	assert.Equal(t, 3.0, features[4])
	assert.Equal(t, 3000.0, features[26])
	assert.Equal(t, 14400.0, features[30])

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.PredictionCount(metrics.OutcomeSuccess)))
}

func TestPredict_CorrectsRawScore(t *testing.T) {
	for raw, want := range map[float64]string{
		-12:   "₹ 12.00 Lakhs",
		15000: "₹ 1500.00 Lakhs",
	} {
		svc, _ := newTestService(t, &stubModel{score: raw, expected: 43}, nil)
		resp, err := svc.Predict(context.Background(), model.RawInput{"city": "Pune", "property_type": "Villa"})
		require.NoError(t, err)
		assert.Equal(t, want, resp.Price)
	}
}

func TestPredict_UnknownCategoryStillPredicts(t *testing.T) {
	stub := &stubModel{score: 40, expected: 43}
	svc, reg := newTestService(t, stub, nil)

	resp, err := svc.Predict(context.Background(), model.RawInput{"city": "Atlantis", "property_type": "Apartment"})
	require.NoError(t, err)
	assert.Equal(t, "Atlantis", resp.Details.City)

	features := stub.lastFeatures()
	assert.Equal(t, 0.0, features[0])
	assert.Equal(t, 65.0, features[31])
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.UnknownCategoryCount(VocabCity)))
}

func TestPredict_Errors(t *testing.T) {
	valid := model.RawInput{"city": "Mumbai", "property_type": "Apartment"}

	tests := []struct {
		name        string
		stub        *stubModel
		noVocab     bool
		input       model.RawInput
		wantErr     error
		wantOutcome string
	}{
		{
			name:        "missing city",
			stub:        &stubModel{score: 1, expected: 43},
			input:       model.RawInput{"property_type": "Apartment"},
			wantErr:     ErrMissingField,
			wantOutcome: metrics.OutcomeInvalidInput,
		},
		{
			name:        "zero area",
			stub:        &stubModel{score: 1, expected: 43},
			input:       model.RawInput{"city": "Mumbai", "property_type": "Apartment", "area_sqft": 0},
			wantErr:     ErrInvalidArea,
			wantOutcome: metrics.OutcomeInvalidInput,
		},
		{
			name:        "no model",
			input:       valid,
			wantErr:     ErrModelUnavailable,
			wantOutcome: metrics.OutcomeUnavailable,
		},
		{
			name:        "no vocabulary",
			stub:        &stubModel{score: 1, expected: 43},
			noVocab:     true,
			input:       valid,
			wantErr:     ErrModelUnavailable,
			wantOutcome: metrics.OutcomeUnavailable,
		},
		{
			name:        "schema mismatch",
			stub:        &stubModel{score: 1, expected: 40},
			input:       valid,
			wantErr:     ErrFeatureSchemaMismatch,
			wantOutcome: metrics.OutcomeSchemaMismatch,
		},
		{
			name:        "model error",
			stub:        &stubModel{expected: 43, err: errors.New("boom")},
			input:       valid,
			wantErr:     ErrPredictionFailed,
			wantOutcome: metrics.OutcomeError,
		},
		{
			name:        "area overflows derived features",
			stub:        &stubModel{score: 1, expected: 43},
			input:       model.RawInput{"city": "Mumbai", "property_type": "Apartment", "area_sqft": 1.7e308},
			wantErr:     ErrPredictionFailed,
			wantOutcome: metrics.OutcomeError,
		},
		{
			name:        "infinite score",
			stub:        &stubModel{score: math.Inf(1), expected: 43},
			input:       valid,
			wantErr:     ErrPredictionFailed,
			wantOutcome: metrics.OutcomeError,
		},
		{
			name:        "NaN score",
			stub:        &stubModel{score: math.NaN(), expected: 43},
			input:       valid,
			wantErr:     ErrPredictionFailed,
			wantOutcome: metrics.OutcomeError,
		},
		{
			name:        "model panic",
			stub:        &stubModel{expected: 43, panicMsg: "index out of range"},
			input:       valid,
			wantErr:     ErrPredictionFailed,
			wantOutcome: metrics.OutcomeError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := metrics.New()
			rt := Runtime{}
			if tt.stub != nil {
				rt.Model = tt.stub
			}
			if !tt.noVocab {
				rt.Vocabulary = testVocabulary(t)
			}
			svc := NewEstimatorService(rt, nil, reg, nil)

			resp, err := svc.Predict(context.Background(), tt.input)
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 1.0, testutil.ToFloat64(reg.PredictionCount(tt.wantOutcome)))
		})
	}
}

func TestPredict_OverflowingAreaNeverReachesModel(t *testing.T) {
	stub := &stubModel{score: 1, expected: 43}
	svc, _ := newTestService(t, stub, newMemoryStore())

	_, err := svc.Predict(context.Background(), model.RawInput{
		"city": "Mumbai", "property_type": "Apartment", "area_sqft": 1.7e308,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a finite number")
	assert.Nil(t, stub.lastFeatures())
}

func TestPredict_SchemaMismatchMessage(t *testing.T) {
	svc, _ := newTestService(t, &stubModel{score: 1, expected: 40}, nil)

	_, err := svc.Predict(context.Background(), model.RawInput{"city": "Mumbai", "property_type": "Apartment"})

	var mismatch *FeatureSchemaMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 43, mismatch.Got)
	assert.Equal(t, 40, mismatch.Expected)
	assert.Equal(t, "Feature mismatch: got 43, expected 40", err.Error())
}

func TestPredict_ModelErrorMessage(t *testing.T) {
	svc, _ := newTestService(t, &stubModel{expected: 43, err: errors.New("boom")}, nil)

	_, err := svc.Predict(context.Background(), model.RawInput{"city": "Mumbai", "property_type": "Apartment"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestPredict_AuditsWhenStoreConfigured(t *testing.T) {
	store := newMemoryStore()
	svc, _ := newTestService(t, &stubModel{score: 72.5, expected: 43}, store)

	resp, err := svc.Predict(context.Background(), model.RawInput{
		"city":          "Delhi",
		"property_type": "Villa",
		"area_sqft":     "1500",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.PredictionID)
	svc.Wait()

	entry, err := svc.GetPrediction(context.Background(), resp.PredictionID)
	require.NoError(t, err)
	assert.Equal(t, "Delhi", entry.City)
	assert.Equal(t, "Villa", entry.PropertyType)
	assert.Equal(t, 1500.0, entry.AreaSqft)
	assert.Equal(t, 72.5, entry.RawScore)
	assert.Equal(t, 72.5, entry.PriceLakhs)
	assert.Equal(t, "stub", entry.ModelName)
	assert.Len(t, entry.Features.Slice(), 43)
	assert.Equal(t, "Villa", entry.Input["property_type"])
}

func TestHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled without store", func(t *testing.T) {
		svc, _ := newTestService(t, &stubModel{expected: 43}, nil)
		_, err := svc.GetPrediction(ctx, "any")
		assert.ErrorIs(t, err, ErrHistoryDisabled)
		_, err = svc.SimilarPredictions(ctx, "any", 5)
		assert.ErrorIs(t, err, ErrHistoryDisabled)
	})

	t.Run("unknown id", func(t *testing.T) {
		svc, _ := newTestService(t, &stubModel{expected: 43}, newMemoryStore())
		_, err := svc.GetPrediction(ctx, "missing")
		assert.ErrorIs(t, err, ErrPredictionNotFound)
		_, err = svc.SimilarPredictions(ctx, "missing", 5)
		assert.ErrorIs(t, err, ErrPredictionNotFound)
	})

	t.Run("similar excludes self", func(t *testing.T) {
		svc, _ := newTestService(t, &stubModel{score: 50, expected: 43}, newMemoryStore())
		var ids []string
		for _, city := range []string{"Mumbai", "Pune", "Chennai"} {
			resp, err := svc.Predict(ctx, model.RawInput{"city": city, "property_type": "Apartment"})
			require.NoError(t, err)
			ids = append(ids, resp.PredictionID)
		}
		svc.Wait()

		similar, err := svc.SimilarPredictions(ctx, ids[0], 5)
		require.NoError(t, err)
		require.Len(t, similar, 2)
		for _, s := range similar {
			assert.NotEqual(t, ids[0], s.PredictionID)
		}
	})
}

func TestExplain(t *testing.T) {
	// Explain never touches the model
	svc, _ := newTestService(t, nil, nil)

	in, named, err := svc.Explain(model.RawInput{"city": "Kolkata", "property_type": "Apartment", "total_floors": 2})
	require.NoError(t, err)
	assert.Equal(t, "Kolkata", in.City)
	require.Len(t, named, 43)
	assert.Equal(t, model.NamedFeature{Name: "City", Value: 5}, named[0])
	assert.Equal(t, model.NamedFeature{Name: "Lift_Available", Value: 0}, named[14])

	_, _, err = svc.Explain(model.RawInput{"city": "Kolkata"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestHealth(t *testing.T) {
	svc, _ := newTestService(t, &stubModel{expected: 43}, nil)
	assert.Equal(t, model.HealthResponse{
		Status:           "healthy",
		ModelLoaded:      true,
		EncodersLoaded:   true,
		ExpectedFeatures: 43,
		Model:            "stub",
	}, svc.Health())

	degraded := NewEstimatorService(Runtime{}, nil, nil, nil)
	assert.Equal(t, model.HealthResponse{Status: "degraded"}, degraded.Health())
}

func TestSchema(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)
	schema := svc.Schema()
	assert.Equal(t, 43, schema.Count)
	assert.Equal(t, FeatureNames(), schema.Features)
}
