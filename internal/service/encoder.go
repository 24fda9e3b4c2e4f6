package service

import (
	"estimator/internal/metrics"
	"estimator/internal/model"

	"go.uber.org/zap"
)

// FallbackCode is the code of the first trained category, used for anything unknown
const FallbackCode = 0

// Encoder maps categorical labels to their trained integer codes.
// Unknown labels degrade to FallbackCode; encoding never fails.
type Encoder struct {
	vocab   *model.VocabularySet
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewEncoder creates an encoder over an immutable vocabulary set
func NewEncoder(vocab *model.VocabularySet, logger *zap.Logger, m *metrics.Metrics) *Encoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Encoder{
		vocab:   vocab,
		logger:  logger.Named("encoder"),
		metrics: m,
	}
}

// Encode returns the code of value in field's vocabulary
func (e *Encoder) Encode(field, value string) int {
	v, ok := e.vocab.Field(field)
	if !ok {
		return FallbackCode
	}

	if code, ok := v.Index(value); ok {
		return code
	}

	e.logger.Warn("⚠️ Unknown category, using default",
		zap.String("field", field),
		zap.String("value", value),
	)
	e.metrics.UnknownCategory(field)
	return FallbackCode
}
