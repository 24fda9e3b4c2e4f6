package model

// RawInput is the partial, untyped field map a caller submits
type RawInput map[string]any

// Request field names
const (
	FieldCity         = "city"
	FieldPropertyType = "property_type"
	FieldBedrooms     = "bedrooms"
	FieldBathrooms    = "bathrooms"
	FieldAreaSqft     = "area_sqft"
	FieldAge          = "age"
	FieldFloor        = "floor"
	FieldTotalFloors  = "total_floors"
	FieldFurnishing   = "furnishing"
	FieldParking      = "parking"
	FieldFacing       = "facing"
)

// Defaults applied to absent optional fields
const (
	DefaultCity         = "Mumbai"
	DefaultPropertyType = "Apartment"
	DefaultBedrooms     = 2
	DefaultBathrooms    = 1
	DefaultAreaSqft     = 1000.0
	DefaultAge          = 5
	DefaultFloor        = 1
	DefaultTotalFloors  = 10
	DefaultFurnishing   = "Unfurnished"
	DefaultParking      = "No"
	DefaultFacing       = "North"
)

// NormalizedInput is a fully typed listing description with defaults applied
type NormalizedInput struct {
	City         string  `json:"city"`
	PropertyType string  `json:"property_type"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    int     `json:"bathrooms"`
	AreaSqft     float64 `json:"area_sqft"`
	Age          int     `json:"age"`
	Floor        int     `json:"floor"`
	TotalFloors  int     `json:"total_floors"`
	Furnishing   string  `json:"furnishing"`
	Parking      string  `json:"parking"`
	Facing       string  `json:"facing"`
}

// DefaultInput returns a NormalizedInput holding every default value
func DefaultInput() NormalizedInput {
	return NormalizedInput{
		City:         DefaultCity,
		PropertyType: DefaultPropertyType,
		Bedrooms:     DefaultBedrooms,
		Bathrooms:    DefaultBathrooms,
		AreaSqft:     DefaultAreaSqft,
		Age:          DefaultAge,
		Floor:        DefaultFloor,
		TotalFloors:  DefaultTotalFloors,
		Furnishing:   DefaultFurnishing,
		Parking:      DefaultParking,
		Facing:       DefaultFacing,
	}
}
