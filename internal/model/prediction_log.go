package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pgvector/pgvector-go"
)

// PredictionLog is one audited prediction
type PredictionLog struct {
	ID           int64           `json:"-" db:"id"`
	PredictionID string          `json:"prediction_id" db:"prediction_id"`
	City         string          `json:"city" db:"city"`
	PropertyType string          `json:"property_type" db:"property_type"`
	AreaSqft     float64         `json:"area_sqft" db:"area_sqft"`
	Input        JSONMap         `json:"input" db:"input"`
	Features     pgvector.Vector `json:"-" db:"features"`
	RawScore     float64         `json:"raw_score" db:"raw_score"`
	PriceLakhs   float64         `json:"price_lakhs" db:"price_lakhs"`
	ModelName    string          `json:"model" db:"model_name"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// SimilarPrediction is a past prediction ranked by feature-vector distance
type SimilarPrediction struct {
	PredictionLog
	Distance float64 `json:"distance" db:"distance"`
}

// JSONMap represents a JSON object field
type JSONMap map[string]interface{}

// Value implements driver.Valuer interface
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return json.Unmarshal([]byte(value.(string)), j)
	}
	return json.Unmarshal(bytes, j)
}

// InputMap converts a NormalizedInput into a JSONMap for storage
func InputMap(in NormalizedInput) JSONMap {
	return JSONMap{
		FieldCity:         in.City,
		FieldPropertyType: in.PropertyType,
		FieldBedrooms:     in.Bedrooms,
		FieldBathrooms:    in.Bathrooms,
		FieldAreaSqft:     in.AreaSqft,
		FieldAge:          in.Age,
		FieldFloor:        in.Floor,
		FieldTotalFloors:  in.TotalFloors,
		FieldFurnishing:   in.Furnishing,
		FieldParking:      in.Parking,
		FieldFacing:       in.Facing,
	}
}
