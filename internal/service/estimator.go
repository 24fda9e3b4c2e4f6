package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"estimator/internal/metrics"
	"estimator/internal/model"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
)

// PredictionStore persists predictions for later lookup
type PredictionStore interface {
	LogPrediction(ctx context.Context, entry *model.PredictionLog) error
	GetPrediction(ctx context.Context, predictionID string) (*model.PredictionLog, error)
	SimilarPredictions(ctx context.Context, predictionID string, limit int) ([]model.SimilarPrediction, error)
}

const auditTimeout = 5 * time.Second

// EstimatorService runs the prediction pipeline:
// validate → build features → check schema → score → finalize
type EstimatorService struct {
	runtime   Runtime
	validator *InputValidator
	builder   *FeatureBuilder
	store     PredictionStore
	metrics   *metrics.Metrics
	logger    *zap.Logger
	pending   sync.WaitGroup
}

// NewEstimatorService creates the service. store may be nil to disable the audit log.
func NewEstimatorService(rt Runtime, store PredictionStore, m *metrics.Metrics, logger *zap.Logger) *EstimatorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	m.SetArtifactLoaded("model", rt.ModelLoaded())
	m.SetArtifactLoaded("vocabulary", rt.VocabularyLoaded())

	return &EstimatorService{
		runtime:   rt,
		validator: NewInputValidator(),
		builder:   NewFeatureBuilder(NewEncoder(rt.Vocabulary, logger, m)),
		store:     store,
		metrics:   m,
		logger:    logger.Named("estimator"),
	}
}

// Predict estimates the price of the listing described by raw
func (s *EstimatorService) Predict(ctx context.Context, raw model.RawInput) (resp *model.PredictResponse, err error) {
	startTime := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("❌ Prediction panicked", zap.Any("panic", r), zap.Any("input", raw))
			resp, err = nil, fmt.Errorf("%w: %v", ErrPredictionFailed, r)
		}
		s.metrics.ObservePrediction(outcome(err), time.Since(startTime).Seconds())
	}()

	s.logger.Debug("📩 Received data", zap.Any("input", raw))

	if !s.runtime.Ready() {
		return nil, ErrModelUnavailable
	}

	in, err := s.validator.Validate(raw)
	if err != nil {
		return nil, err
	}

	s.logger.Info("🏠 Processing",
		zap.String("city", in.City),
		zap.String("property_type", in.PropertyType),
		zap.Float64("area_sqft", in.AreaSqft),
	)

	features := s.builder.Build(in)
	s.logger.Debug("🔢 Built features for model", zap.Int("count", len(features)))

	if expected := s.runtime.ExpectedFeatures(); len(features) != expected {
		mismatch := &FeatureSchemaMismatchError{Got: len(features), Expected: expected}
		s.logger.Error("❌ Feature schema mismatch",
			zap.Int("got", mismatch.Got),
			zap.Int("expected", mismatch.Expected),
			zap.String("model", s.runtime.Model.Name()),
		)
		return nil, mismatch
	}

	if slot := nonFiniteSlot(features); slot >= 0 {
		s.logger.Error("❌ Non-finite feature value",
			zap.Int("slot", slot),
			zap.String("feature", FeatureNames()[slot]),
			zap.Float64("area_sqft", in.AreaSqft),
		)
		return nil, fmt.Errorf("%w: feature %s is not a finite number", ErrPredictionFailed, FeatureNames()[slot])
	}

	score, err := s.runtime.Model.Predict(ctx, features)
	if err != nil {
		s.logger.Error("❌ Prediction Failed", zap.Error(err), zap.Any("input", in))
		return nil, fmt.Errorf("%w: %v", ErrPredictionFailed, err)
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		s.logger.Error("❌ Model returned a non-finite score", zap.String("model", s.runtime.Model.Name()))
		return nil, fmt.Errorf("%w: model returned a non-finite score", ErrPredictionFailed)
	}

	result := Finalize(score)
	s.logger.Info("💰 Predicted price", zap.String("price", result.Display), zap.Float64("raw_score", score))

	resp = &model.PredictResponse{
		Price:      result.Display,
		PriceLakhs: result.PriceLakhs,
		Details: model.PredictionDetails{
			City:          in.City,
			PropertyType:  in.PropertyType,
			AreaSqft:      in.AreaSqft,
			FeaturesCount: len(features),
		},
	}

	if s.store != nil {
		resp.PredictionID = uuid.NewString()
		s.audit(resp.PredictionID, in, features, result)
	}

	return resp, nil
}

// Explain validates raw and returns the named feature vector without scoring it.
// It works without a model so schema problems can be inspected offline.
func (s *EstimatorService) Explain(raw model.RawInput) (model.NormalizedInput, []model.NamedFeature, error) {
	in, err := s.validator.Validate(raw)
	if err != nil {
		return in, nil, err
	}
	return in, Named(s.builder.Build(in)), nil
}

// Health reports artifact availability
func (s *EstimatorService) Health() model.HealthResponse {
	resp := model.HealthResponse{
		Status:           "healthy",
		ModelLoaded:      s.runtime.ModelLoaded(),
		EncodersLoaded:   s.runtime.VocabularyLoaded(),
		ExpectedFeatures: s.runtime.ExpectedFeatures(),
	}
	if s.runtime.Model != nil {
		resp.Model = s.runtime.Model.Name()
	}
	if !s.runtime.Ready() {
		resp.Status = "degraded"
	}
	return resp
}

// Schema lists the feature slots in model order
func (s *EstimatorService) Schema() model.SchemaResponse {
	names := FeatureNames()
	return model.SchemaResponse{Features: names, Count: len(names)}
}

// GetPrediction returns an audited prediction
func (s *EstimatorService) GetPrediction(ctx context.Context, predictionID string) (*model.PredictionLog, error) {
	if s.store == nil {
		return nil, ErrHistoryDisabled
	}
	entry, err := s.store.GetPrediction(ctx, predictionID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrPredictionNotFound
	}
	return entry, nil
}

// SimilarPredictions returns past predictions whose feature vectors are closest to predictionID's
func (s *EstimatorService) SimilarPredictions(ctx context.Context, predictionID string, limit int) ([]model.SimilarPrediction, error) {
	if s.store == nil {
		return nil, ErrHistoryDisabled
	}
	if _, err := s.GetPrediction(ctx, predictionID); err != nil {
		return nil, err
	}
	return s.store.SimilarPredictions(ctx, predictionID, limit)
}

// Wait blocks until in-flight audit writes finish
func (s *EstimatorService) Wait() {
	s.pending.Wait()
}

// audit logs the prediction without blocking the response
func (s *EstimatorService) audit(predictionID string, in model.NormalizedInput, features model.FeatureVector, result model.PredictionResult) {
	vec := make([]float32, len(features))
	for i, f := range features {
		vec[i] = float32(f)
	}

	entry := &model.PredictionLog{
		PredictionID: predictionID,
		City:         in.City,
		PropertyType: in.PropertyType,
		AreaSqft:     in.AreaSqft,
		Input:        model.InputMap(in),
		Features:     pgvector.NewVector(vec),
		RawScore:     result.RawScore,
		PriceLakhs:   result.PriceLakhs,
		ModelName:    s.runtime.Model.Name(),
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()
		if err := s.store.LogPrediction(ctx, entry); err != nil {
			s.logger.Warn("⚠️ Failed to log prediction", zap.String("prediction_id", predictionID), zap.Error(err))
		}
	}()
}

// nonFiniteSlot returns the first NaN or infinite slot, or -1
func nonFiniteSlot(features model.FeatureVector) int {
	for i, f := range features {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return i
		}
	}
	return -1
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrValidation):
		return metrics.OutcomeInvalidInput
	case errors.Is(err, ErrModelUnavailable):
		return metrics.OutcomeUnavailable
	case errors.Is(err, ErrFeatureSchemaMismatch):
		return metrics.OutcomeSchemaMismatch
	default:
		return metrics.OutcomeError
	}
}
