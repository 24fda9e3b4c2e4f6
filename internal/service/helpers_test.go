package service

import (
	"context"
	"sync"
	"testing"

	"estimator/internal/model"

	"github.com/stretchr/testify/require"
)

// stubModel returns a fixed score and remembers the last vector it saw
type stubModel struct {
	score    float64
	expected int
	err      error
	panicMsg string

	mu   sync.Mutex
	last []float64
}

func (m *stubModel) Name() string          { return "stub" }
func (m *stubModel) ExpectedFeatures() int { return m.expected }

func (m *stubModel) Predict(_ context.Context, features []float64) (float64, error) {
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	m.mu.Lock()
	m.last = append([]float64(nil), features...)
	m.mu.Unlock()
	return m.score, m.err
}

func (m *stubModel) lastFeatures() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// testVocabulary mirrors the sorted label order of the trained encoders
func testVocabulary(t *testing.T) *model.VocabularySet {
	t.Helper()
	set, err := model.NewVocabularySet(map[string][]string{
		VocabCity:         {"Ahmedabad", "Bengaluru", "Chennai", "Delhi", "Hyderabad", "Kolkata", "Mumbai", "Pune"},
		VocabPropertyType: {"Apartment", "Independent House", "Villa"},
		VocabFurnishing:   {"Furnished", "Semi-Furnished", "Unfurnished"},
		VocabParking:      {"No", "Yes"},
		VocabFacing:       {"East", "North", "South", "West"},
	})
	require.NoError(t, err)
	return set
}

// memoryStore is an in-memory PredictionStore
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]*model.PredictionLog
	order   []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: map[string]*model.PredictionLog{}}
}

func (s *memoryStore) LogPrediction(_ context.Context, entry *model.PredictionLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.PredictionID] = entry
	s.order = append(s.order, entry.PredictionID)
	return nil
}

func (s *memoryStore) GetPrediction(_ context.Context, id string) (*model.PredictionLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[id], nil
}

func (s *memoryStore) SimilarPredictions(_ context.Context, id string, limit int) ([]model.SimilarPrediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.SimilarPrediction
	for _, other := range s.order {
		if other == id || len(out) == limit {
			continue
		}
		out = append(out, model.SimilarPrediction{PredictionLog: *s.entries[other]})
	}
	return out, nil
}
