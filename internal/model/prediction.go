package model

// FeatureVector is the ordered numeric input of the regression model
type FeatureVector []float64

// NamedFeature pairs a feature slot with its value
type NamedFeature struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// PredictionResult is the post-processed model output
type PredictionResult struct {
	RawScore   float64 `json:"raw_score"`
	PriceLakhs float64 `json:"price_lakhs"`
	Display    string  `json:"price"`
}

// PredictResponse is returned by the predict endpoint
type PredictResponse struct {
	Price        string            `json:"price"`
	PriceLakhs   float64           `json:"price_lakhs"`
	Details      PredictionDetails `json:"details"`
	PredictionID string            `json:"prediction_id,omitempty"`
}

// PredictionDetails echoes the normalized request
type PredictionDetails struct {
	City          string  `json:"city"`
	PropertyType  string  `json:"property_type"`
	AreaSqft      float64 `json:"area_sqft"`
	FeaturesCount int     `json:"features_count"`
}

// HealthResponse reports artifact availability
type HealthResponse struct {
	Status           string `json:"status"`
	ModelLoaded      bool   `json:"model_loaded"`
	EncodersLoaded   bool   `json:"encoders_loaded"`
	ExpectedFeatures int    `json:"expected_features"`
	Model            string `json:"model,omitempty"`
	Version          string `json:"version,omitempty"`
}

// SchemaResponse lists the feature slots in model order
type SchemaResponse struct {
	Features []string `json:"features"`
	Count    int      `json:"count"`
}
