package service

import (
	"estimator/internal/inference"
	"estimator/internal/model"
)

// Runtime is the read-only state loaded once at startup: the model and the
// categorical vocabularies. Either may be nil when its artifact failed to load.
type Runtime struct {
	Model      inference.Model
	Vocabulary *model.VocabularySet
}

// ModelLoaded reports whether a model is available
func (r Runtime) ModelLoaded() bool {
	return r.Model != nil
}

// VocabularyLoaded reports whether vocabularies are available
func (r Runtime) VocabularyLoaded() bool {
	return r.Vocabulary != nil
}

// Ready reports whether predictions can be served
func (r Runtime) Ready() bool {
	return r.ModelLoaded() && r.VocabularyLoaded()
}

// ExpectedFeatures is the model's declared feature count, 0 without a model
func (r Runtime) ExpectedFeatures() int {
	if r.Model == nil {
		return 0
	}
	return r.Model.ExpectedFeatures()
}
