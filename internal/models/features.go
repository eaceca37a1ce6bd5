package models

import (
	"fmt"
	"strconv"
)

// GenderCode is the numeric encoding the model was trained with.
type GenderCode int

const (
	GenderMale   GenderCode = 0
	GenderFemale GenderCode = 1
)

// Genders lists the choices offered by the form, in display order.
var Genders = []string{"Male", "Female"}

// ParseGender maps a form choice to its model encoding.
func ParseGender(s string) (GenderCode, error) {
	switch s {
	case "Male":
		return GenderMale, nil
	case "Female":
		return GenderFemale, nil
	}
	return 0, fmt.Errorf("unknown gender %q", s)
}

// FeatureCount is the number of columns the model expects.
const FeatureCount = 7

// FeatureNames is the model's column order.
var FeatureNames = [FeatureCount]string{"gender", "age", "height", "weight", "duration", "heart_rate", "body_temp"}

// FeatureRecord is one row of model input. Built per request and never stored.
type FeatureRecord struct {
	Gender      GenderCode
	Age         int
	HeightCm    int
	WeightKg    int
	DurationMin int
	HeartRate   int
	BodyTempC   float64
}

// Vector returns the record in FeatureNames order.
func (f FeatureRecord) Vector() []float64 {
	return []float64{
		float64(f.Gender),
		float64(f.Age),
		float64(f.HeightCm),
		float64(f.WeightKg),
		float64(f.DurationMin),
		float64(f.HeartRate),
		f.BodyTempC,
	}
}

// PredictionInput is the prediction form as submitted by the user.
// Range tags match the min/max of the form inputs.
type PredictionInput struct {
	Gender      string  `json:"gender" validate:"required,oneof=Male Female"`
	Age         int     `json:"age" validate:"min=1,max=100"`
	HeightCm    int     `json:"height_cm" validate:"min=100,max=250"`
	WeightKg    int     `json:"weight_kg" validate:"min=30,max=200"`
	DurationMin int     `json:"duration_min" validate:"min=1,max=180"`
	HeartRate   int     `json:"heart_rate" validate:"min=60,max=200"`
	BodyTempC   float64 `json:"body_temp_c" validate:"min=35,max=43"`
}

// DefaultPredictionInput is what the form shows before the user edits it.
func DefaultPredictionInput() PredictionInput {
	return PredictionInput{
		Gender:      "Male",
		Age:         25,
		HeightCm:    170,
		WeightKg:    70,
		DurationMin: 60,
		HeartRate:   100,
		BodyTempC:   37.0,
	}
}

// FeatureRecord converts a validated input into model features.
func (in PredictionInput) FeatureRecord() (FeatureRecord, error) {
	gender, err := ParseGender(in.Gender)
	if err != nil {
		return FeatureRecord{}, err
	}
	return FeatureRecord{
		Gender:      gender,
		Age:         in.Age,
		HeightCm:    in.HeightCm,
		WeightKg:    in.WeightKg,
		DurationMin: in.DurationMin,
		HeartRate:   in.HeartRate,
		BodyTempC:   in.BodyTempC,
	}, nil
}

// PredictionResult is the predicted calories burned.
type PredictionResult struct {
	Calories float64 `json:"calories"`
}

// Formatted renders the value with exactly two decimals.
func (p PredictionResult) Formatted() string {
	return strconv.FormatFloat(p.Calories, 'f', 2, 64)
}
