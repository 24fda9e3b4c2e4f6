package artifact

import (
	"context"
	"fmt"

	"estimator/internal/config"
	"estimator/internal/inference"
	"estimator/internal/model"

	"go.uber.org/zap"
)

// LoadVocabulary decodes a field → ordered labels artifact
func LoadVocabulary(ctx context.Context, src Source, name string) (*model.VocabularySet, error) {
	var raw map[string][]string
	if err := decode(ctx, src, name, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("vocabulary artifact %s is empty", name)
	}
	return model.NewVocabularySet(raw)
}

// LoadModel decodes an in-process model artifact and checks it against schema
func LoadModel(ctx context.Context, src Source, name string, schema []string) (inference.Model, error) {
	var a inference.Artifact
	if err := decode(ctx, src, name, &a); err != nil {
		return nil, err
	}
	m, err := inference.FromArtifact(a, schema)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return m, nil
}

// Bundle is the outcome of loading both artifacts. A failed artifact leaves
// its field nil and records the cause so the server can start degraded.
type Bundle struct {
	Model         inference.Model
	Vocabulary    *model.VocabularySet
	ModelErr      error
	VocabularyErr error
}

// Load loads the model and vocabulary described by cfg. The model comes from
// cfg.Artifacts.ModelServerURL when set, otherwise from src.
func Load(ctx context.Context, cfg config.ArtifactConfig, src Source, schema []string, logger *zap.Logger) Bundle {
	if logger == nil {
		logger = zap.NewNop()
	}
	var b Bundle

	if cfg.ModelServerURL != "" {
		b.Model, b.ModelErr = loadRemoteModel(ctx, cfg)
	} else {
		b.Model, b.ModelErr = LoadModel(ctx, src, cfg.Model, schema)
	}
	if b.ModelErr != nil {
		b.Model = nil
		logger.Error("❌ Error loading model", zap.Error(b.ModelErr))
	} else {
		logger.Info("✅ Model loaded",
			zap.String("model", b.Model.Name()),
			zap.Int("expected_features", b.Model.ExpectedFeatures()),
		)
	}

	b.Vocabulary, b.VocabularyErr = LoadVocabulary(ctx, src, cfg.Vocabulary)
	if b.VocabularyErr != nil {
		b.Vocabulary = nil
		logger.Error("❌ Error loading encoders", zap.Error(b.VocabularyErr))
	} else {
		logger.Info("✅ Encoders loaded", zap.Strings("fields", b.Vocabulary.Fields()))
	}

	return b
}

// loadRemoteModel connects to the model server. A server declaring a different
// feature count is still accepted; the estimator reports the mismatch per request.
func loadRemoteModel(ctx context.Context, cfg config.ArtifactConfig) (inference.Model, error) {
	m, err := inference.NewRemoteModel(ctx, cfg.ModelServerURL, cfg.ModelTimeout)
	if err != nil {
		return nil, err
	}
	return m, nil
}
