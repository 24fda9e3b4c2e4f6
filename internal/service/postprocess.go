package service

import (
	"fmt"
	"math"

	"estimator/internal/model"
)

// Corrections applied unconditionally to every raw model score.
// The thresholds are part of the output contract and must not change.
const (
	magnitudeCap     = 10000.0
	magnitudeDivisor = 10.0
)

// Finalize sanitizes a raw model score into a display-ready price in lakhs
func Finalize(raw float64) model.PredictionResult {
	price := raw
	if price < 0 {
		price = math.Abs(price)
	}
	if price > magnitudeCap {
		price = price / magnitudeDivisor
	}

	// Display is formatted from the rounded value so both fields agree
	lakhs := math.Round(price*100) / 100
	return model.PredictionResult{
		RawScore:   raw,
		PriceLakhs: lakhs,
		Display:    fmt.Sprintf("₹ %.2f Lakhs", lakhs),
	}
}
