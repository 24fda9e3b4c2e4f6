package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"estimator/internal/model"
)

// InputValidator turns a partial RawInput into a NormalizedInput.
// It has no state and no side effects.
type InputValidator struct{}

// NewInputValidator creates an input validator
func NewInputValidator() *InputValidator {
	return &InputValidator{}
}

// Validate applies defaults, enforces required fields and checks numeric values
func (v *InputValidator) Validate(raw model.RawInput) (model.NormalizedInput, error) {
	in := model.DefaultInput()

	city, cityOK := requiredString(raw, model.FieldCity)
	propertyType, typeOK := requiredString(raw, model.FieldPropertyType)
	if !cityOK || !typeOK {
		field := model.FieldCity
		if cityOK {
			field = model.FieldPropertyType
		}
		return in, &ValidationError{
			Field:   field,
			Message: "City and Property Type are required",
			Err:     ErrMissingField,
		}
	}
	in.City = city
	in.PropertyType = propertyType

	area, err := optionalArea(raw)
	if err != nil {
		return in, err
	}
	in.AreaSqft = area

	ints := []struct {
		field string
		dst   *int
	}{
		{model.FieldBedrooms, &in.Bedrooms},
		{model.FieldBathrooms, &in.Bathrooms},
		{model.FieldAge, &in.Age},
		{model.FieldFloor, &in.Floor},
		{model.FieldTotalFloors, &in.TotalFloors},
	}
	for _, f := range ints {
		if err := optionalInt(raw, f.field, f.dst); err != nil {
			return in, err
		}
	}

	in.Furnishing = optionalString(raw, model.FieldFurnishing, in.Furnishing)
	in.Parking = optionalString(raw, model.FieldParking, in.Parking)
	in.Facing = optionalString(raw, model.FieldFacing, in.Facing)

	return in, nil
}

// lookup treats absent keys, JSON null and blank strings alike.
// Numeric fields use numericValue instead, where only an absent key means "use the default".
func lookup(raw model.RawInput, field string) (any, bool) {
	value, ok := raw[field]
	if !ok || value == nil {
		return nil, false
	}
	if s, isString := value.(string); isString && strings.TrimSpace(s) == "" {
		return nil, false
	}
	return value, true
}

func requiredString(raw model.RawInput, field string) (string, bool) {
	value, ok := lookup(raw, field)
	if !ok {
		return "", false
	}
	s, isString := value.(string)
	if !isString {
		return "", false
	}
	return strings.TrimSpace(s), true
}

func optionalString(raw model.RawInput, field, fallback string) string {
	value, ok := lookup(raw, field)
	if !ok {
		return fallback
	}
	if s, isString := value.(string); isString {
		return strings.TrimSpace(s)
	}
	return fmt.Sprint(value)
}

// numericValue reports whether field was sent at all. A present null or blank
// value is returned as nil so parsing rejects it.
func numericValue(raw model.RawInput, field string) (any, bool) {
	value, ok := raw[field]
	if !ok {
		return nil, false
	}
	if s, isString := value.(string); isString && strings.TrimSpace(s) == "" {
		return nil, true
	}
	return value, true
}

func optionalArea(raw model.RawInput) (float64, error) {
	value, ok := numericValue(raw, model.FieldAreaSqft)
	if !ok {
		return model.DefaultAreaSqft, nil
	}

	area, parsed := toFloat(value)
	if !parsed {
		return 0, &ValidationError{
			Field:   model.FieldAreaSqft,
			Message: "Invalid area value",
			Err:     ErrInvalidNumeric,
		}
	}
	if math.IsNaN(area) || math.IsInf(area, 0) || area <= 0 {
		return 0, &ValidationError{
			Field:   model.FieldAreaSqft,
			Message: "Area must be greater than 0",
			Err:     ErrInvalidArea,
		}
	}
	return area, nil
}

// optionalInt truncates JSON numbers toward zero and accepts integer strings.
// Anything else, null included, fails instead of silently falling back to the default.
func optionalInt(raw model.RawInput, field string, dst *int) error {
	value, ok := numericValue(raw, field)
	if !ok {
		return nil
	}

	invalid := &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("Invalid %s value", field),
		Err:     ErrInvalidNumeric,
	}

	switch n := value.(type) {
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return invalid
		}
		*dst = i
	case int:
		*dst = n
	case int64:
		*dst = int(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			*dst = int(i)
			return nil
		}
		f, err := n.Float64()
		if err != nil || !fitsInt(f) {
			return invalid
		}
		*dst = int(f)
	case float64:
		if !fitsInt(n) {
			return invalid
		}
		*dst = int(n)
	default:
		return invalid
	}
	return nil
}

func fitsInt(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && math.Abs(f) < math.MaxInt32
}

func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
