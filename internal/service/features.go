package service

import (
	"estimator/internal/model"
)

// Categorical vocabulary names, as the model was trained
const (
	VocabCity         = "City"
	VocabPropertyType = "Property_Type"
	VocabFurnishing   = "Furnishing"
	VocabParking      = "Parking"
	VocabFacing       = "Facing"
)

// DefaultPollutionIndex applies to cities missing from cityPollution
const DefaultPollutionIndex = 65

var cityPollution = map[string]float64{
	"Mumbai":    80,
	"Delhi":     90,
	"Bengaluru": 60,
	"Chennai":   70,
	"Hyderabad": 65,
	"Kolkata":   75,
	"Pune":      55,
	"Ahmedabad": 85,
}

// FeatureSlot is one named position of the feature vector
type FeatureSlot struct {
	Name   string
	Derive func(in model.NormalizedInput, enc *Encoder) float64
}

func constant(v float64) func(model.NormalizedInput, *Encoder) float64 {
	return func(model.NormalizedInput, *Encoder) float64 { return v }
}

func encoded(vocab string, value func(model.NormalizedInput) string) func(model.NormalizedInput, *Encoder) float64 {
	return func(in model.NormalizedInput, enc *Encoder) float64 {
		return float64(enc.Encode(vocab, value(in)))
	}
}

func boolean(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// FeatureSchema is the slot order the model was trained on. Do not reorder.
var FeatureSchema = []FeatureSlot{
	{"City", encoded(VocabCity, func(in model.NormalizedInput) string { return in.City })},
	{"Locality", constant(0)},
	{"Property_Type", encoded(VocabPropertyType, func(in model.NormalizedInput) string { return in.PropertyType })},
	{"RERA_Approved", constant(0)},
	{"BHK", func(in model.NormalizedInput, _ *Encoder) float64 { return float64(in.Bedrooms) }},
	{"Bathrooms", func(in model.NormalizedInput, _ *Encoder) float64 { return float64(in.Bathrooms) }},
	{"Balconies", func(in model.NormalizedInput, _ *Encoder) float64 { return float64(max(1, in.Bedrooms-1)) }},
	{"Floor", func(in model.NormalizedInput, _ *Encoder) float64 { return float64(in.Floor) }},
	{"Age_of_Property_years", func(in model.NormalizedInput, _ *Encoder) float64 { return float64(in.Age) }},
	{"Ready_to_Move", constant(0)},
	{"Furnishing", encoded(VocabFurnishing, func(in model.NormalizedInput) string { return in.Furnishing })},
	{"Parking", encoded(VocabParking, func(in model.NormalizedInput) string { return in.Parking })},
	{"Facing", encoded(VocabFacing, func(in model.NormalizedInput) string { return in.Facing })},
	{"Gated_Community", constant(1)},
	{"Lift_Available", func(in model.NormalizedInput, _ *Encoder) float64 { return boolean(in.TotalFloors > 3) }},
	{"Water_Supply", constant(0)},
	{"Security_Guard", constant(1)},
	{"Gym", constant(0)},
	{"Swimming_Pool", constant(0)},
	{"Power_Backup", constant(1)},
	{"Clubhouse", constant(0)},
	{"Play_Area", constant(1)},
	{"Near_School_km", constant(2.5)},
	{"Near_Hospital_km", constant(4.0)},
	{"Near_Metro_km", constant(3.0)},
	{"Near_Market_km", constant(1.5)},
	{"Monthly_Maintenance", func(in model.NormalizedInput, _ *Encoder) float64 { return in.AreaSqft * 2.5 }},
	{"EMI_Per_Lakh", constant(1100.0)},
	{"Interest_Rate", constant(8.5)},
	{"Resale", constant(1)},
	{"Property_Tax_Annual", func(in model.NormalizedInput, _ *Encoder) float64 { return in.AreaSqft * 12 }},
	{"Pollution_Index", func(in model.NormalizedInput, _ *Encoder) float64 { return pollutionIndex(in.City) }},
	{"Noise_Index", constant(50.0)},
	{"Crime_Rate", constant(15.0)},
	{"Internet_Availability", constant(8.0)},
	{"Public_Transport_Score", constant(7.5)},
	{"Flood_Zone", constant(0)},
	{"Earthquake_Zone", constant(0)},
	{"Civic_Amenities_Rating", constant(7.0)},
	{"Market_Demand_Rating", constant(6.5)},
	{"Rental_Yield_Percent", constant(3.5)},
	{"Carpet_Area_sqft", func(in model.NormalizedInput, _ *Encoder) float64 { return in.AreaSqft }},
	{"Total_Floors", func(in model.NormalizedInput, _ *Encoder) float64 { return float64(in.TotalFloors) }},
}

// FeatureCount is the length of every built vector
var FeatureCount = len(FeatureSchema)

func pollutionIndex(city string) float64 {
	if v, ok := cityPollution[city]; ok {
		return v
	}
	return DefaultPollutionIndex
}

// FeatureNames returns the slot names in model order
func FeatureNames() []string {
	names := make([]string, len(FeatureSchema))
	for i, slot := range FeatureSchema {
		names[i] = slot.Name
	}
	return names
}

// FeatureBuilder assembles feature vectors from normalized input
type FeatureBuilder struct {
	encoder *Encoder
}

// NewFeatureBuilder creates a builder that encodes categorical slots with enc
func NewFeatureBuilder(enc *Encoder) *FeatureBuilder {
	return &FeatureBuilder{encoder: enc}
}

// Build returns the feature vector for in. Its length is always FeatureCount;
// comparing it against the model's expected count is the caller's job.
func (b *FeatureBuilder) Build(in model.NormalizedInput) model.FeatureVector {
	vector := make(model.FeatureVector, len(FeatureSchema))
	for i, slot := range FeatureSchema {
		vector[i] = slot.Derive(in, b.encoder)
	}
	return vector
}

// Named pairs each value of a built vector with its slot name
func Named(vector model.FeatureVector) []model.NamedFeature {
	out := make([]model.NamedFeature, 0, len(vector))
	for i, value := range vector {
		name := ""
		if i < len(FeatureSchema) {
			name = FeatureSchema[i].Name
		}
		out = append(out, model.NamedFeature{Name: name, Value: value})
	}
	return out
}
