package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"estimator/internal/config"
	"estimator/internal/model"
	"estimator/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func testdata() *FileSource {
	return NewFileSource("testdata")
}

func TestLoadModel_MatchesFeatureSchema(t *testing.T) {
	m, err := LoadModel(context.Background(), testdata(), "model.json", service.FeatureNames())
	require.NoError(t, err)

	assert.Equal(t, "price-linear-v1", m.Name())
	assert.Equal(t, service.FeatureCount, m.ExpectedFeatures())

	b := service.NewFeatureBuilder(service.NewEncoder(mustVocabulary(t), nil, nil))
	score, err := m.Predict(context.Background(), b.Build(model.DefaultInput()))
	require.NoError(t, err)
	assert.InDelta(t, 75.0, score, 1e-9)
}

func TestLoadModel_ForestYAML(t *testing.T) {
	m, err := LoadModel(context.Background(), testdata(), "forest.yaml", service.FeatureNames())
	require.NoError(t, err)
	assert.Equal(t, "price-gbm-v1", m.Name())

	b := service.NewFeatureBuilder(service.NewEncoder(mustVocabulary(t), nil, nil))

	in := model.DefaultInput()
	score, err := m.Predict(context.Background(), b.Build(in))
	require.NoError(t, err)
	assert.InDelta(t, 45.0, score, 1e-9)

	in.Bedrooms = 3
	in.AreaSqft = 1200
	score, err = m.Predict(context.Background(), b.Build(in))
	require.NoError(t, err)
	assert.InDelta(t, 85.0, score, 1e-9)
}

func TestLoadModel_RejectsSchemaDrift(t *testing.T) {
	_, err := LoadModel(context.Background(), testdata(), "drifted_model.json", service.FeatureNames())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "drifted_model.json")
}

func TestLoadModel_Errors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.pkl"), []byte("binary"), 0o644))
	src := NewFileSource(dir)

	_, err := LoadModel(context.Background(), src, "missing.json", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = LoadModel(context.Background(), src, "broken.json", nil)
	assert.ErrorContains(t, err, "failed to decode")

	_, err = LoadModel(context.Background(), src, "model.pkl", nil)
	assert.ErrorContains(t, err, "unsupported artifact format")
}

func TestLoadVocabulary(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		field   string
		labels  []string
		wantErr string
	}{
		{name: "json", file: "label_encoders.json", field: "Facing", labels: []string{"East", "North", "South", "West"}},
		{name: "yaml", file: "label_encoders.yaml", field: "City", labels: []string{"Delhi", "Mumbai"}},
		{name: "duplicate labels", file: "duplicate_labels.json", wantErr: "duplicate label"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := LoadVocabulary(context.Background(), testdata(), tt.file)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			v, ok := set.Field(tt.field)
			require.True(t, ok)
			assert.Equal(t, tt.labels, v.Labels())
		})
	}
}

func TestLoadVocabulary_Empty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.json"), []byte("{}"), 0o644))

	_, err := LoadVocabulary(context.Background(), NewFileSource(dir), "empty.json")
	assert.ErrorContains(t, err, "empty")
}

func TestLoad_Bundle(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	cfg := config.ArtifactConfig{Model: "model.json", Vocabulary: "label_encoders.json"}

	b := Load(context.Background(), cfg, testdata(), service.FeatureNames(), zap.New(core))
	require.NoError(t, b.ModelErr)
	require.NoError(t, b.VocabularyErr)
	assert.NotNil(t, b.Model)
	assert.NotNil(t, b.Vocabulary)
	assert.Equal(t, 1, logs.FilterMessage("✅ Model loaded").Len())
	assert.Equal(t, 1, logs.FilterMessage("✅ Encoders loaded").Len())
}

func TestLoad_BundleDegraded(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	cfg := config.ArtifactConfig{Model: "missing.json", Vocabulary: "label_encoders.json"}

	b := Load(context.Background(), cfg, testdata(), service.FeatureNames(), zap.New(core))
	assert.ErrorIs(t, b.ModelErr, ErrNotFound)
	assert.Nil(t, b.Model)
	assert.NotNil(t, b.Vocabulary)
	assert.Equal(t, 1, logs.FilterMessage("❌ Error loading model").Len())
}

func mustVocabulary(t *testing.T) *model.VocabularySet {
	t.Helper()
	set, err := LoadVocabulary(context.Background(), testdata(), "label_encoders.json")
	require.NoError(t, err)
	return set
}
