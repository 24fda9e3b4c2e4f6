package inference

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Model artifact types
const (
	TypeLinear = "linear"
	TypeForest = "forest"
)

// Tree ensemble aggregation modes
const (
	AggregateMean = "mean" // random forest
	AggregateSum  = "sum"  // gradient boosting
)

// Artifact is the persisted form of an in-process model
type Artifact struct {
	Type         string   `json:"type" yaml:"type" validate:"required,oneof=linear forest"`
	Name         string   `json:"name" yaml:"name"`
	NFeaturesIn  int      `json:"n_features_in" yaml:"n_features_in" validate:"gt=0"`
	FeatureNames []string `json:"feature_names,omitempty" yaml:"feature_names,omitempty" validate:"omitempty,dive,required"`

	// linear
	Intercept    float64   `json:"intercept,omitempty" yaml:"intercept,omitempty"`
	Coefficients []float64 `json:"coefficients,omitempty" yaml:"coefficients,omitempty" validate:"required_if=Type linear"`

	// forest
	Aggregation  string  `json:"aggregation,omitempty" yaml:"aggregation,omitempty" validate:"omitempty,oneof=mean sum"`
	BaseScore    float64 `json:"base_score,omitempty" yaml:"base_score,omitempty"`
	LearningRate float64 `json:"learning_rate,omitempty" yaml:"learning_rate,omitempty" validate:"gte=0"`
	Trees        []Tree  `json:"trees,omitempty" yaml:"trees,omitempty" validate:"required_if=Type forest,dive"`
}

// Tree is a binary regression tree in parallel-array layout.
// Node 0 is the root; a node is a leaf when ChildrenLeft is -1.
// Samples go left when features[Feature] <= Threshold.
type Tree struct {
	ChildrenLeft  []int     `json:"children_left" yaml:"children_left" validate:"required,min=1"`
	ChildrenRight []int     `json:"children_right" yaml:"children_right" validate:"required,min=1"`
	Feature       []int     `json:"feature" yaml:"feature" validate:"required,min=1"`
	Threshold     []float64 `json:"threshold" yaml:"threshold" validate:"required,min=1"`
	Value         []float64 `json:"value" yaml:"value" validate:"required,min=1"`
}

var validate = validator.New()

// FromArtifact validates an artifact and builds the model it describes.
// When the artifact carries feature names they must equal schema exactly,
// since slot order is the contract between the feature builder and the model.
func FromArtifact(a Artifact, schema []string) (Model, error) {
	if err := validate.Struct(a); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, fmt.Errorf("invalid model artifact: field %s failed %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return nil, fmt.Errorf("invalid model artifact: %w", err)
	}

	if len(a.FeatureNames) > 0 {
		if err := matchSchema(a.FeatureNames, schema); err != nil {
			return nil, err
		}
		if len(a.FeatureNames) != a.NFeaturesIn {
			return nil, fmt.Errorf("model artifact lists %d feature names but declares n_features_in=%d", len(a.FeatureNames), a.NFeaturesIn)
		}
	}

	switch a.Type {
	case TypeLinear:
		return NewLinearModel(a.Name, a.Intercept, a.Coefficients, a.NFeaturesIn)
	case TypeForest:
		return NewForestModel(a)
	default:
		return nil, fmt.Errorf("unsupported model type %q", a.Type)
	}
}

func matchSchema(names, schema []string) error {
	if schema == nil {
		return nil
	}
	if len(names) != len(schema) {
		return fmt.Errorf("model artifact has %d feature names, schema has %d", len(names), len(schema))
	}
	for i := range names {
		if names[i] != schema[i] {
			return fmt.Errorf("feature %d: model expects %q, schema builds %q", i+1, names[i], schema[i])
		}
	}
	return nil
}
