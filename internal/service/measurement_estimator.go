package service

import (
	"errors"
	"fmt"
	"math"

	"size-fit/internal/domain"
)

var (
	ErrInvalidProfile     = errors.New("invalid body profile")
	ErrInvalidHeight      = fmt.Errorf("%w: height_cm must be > 0", ErrInvalidProfile)
	ErrInvalidWeight      = fmt.Errorf("%w: weight_kg must be > 0", ErrInvalidProfile)
	ErrInvalidAge         = fmt.Errorf("%w: age_years must be >= 0", ErrInvalidProfile)
	ErrUnsupportedGender  = fmt.Errorf("%w: unsupported gender", ErrInvalidProfile)
	ErrInvalidShapeAdjust = fmt.Errorf("%w: shape adjustments must be within [-2, 2]", ErrInvalidProfile)
)

// MeasurementEstimator estima busto, cintura y cadera a partir del perfil corporal.
// No tiene estado; el valor cero es usable.
type MeasurementEstimator struct{}

// DefaultMeasurementEstimator permite uso directo sin instanciar.
var DefaultMeasurementEstimator = MeasurementEstimator{}

// ValidateProfile rechaza perfiles con los que la regresion no tiene sentido.
func (MeasurementEstimator) ValidateProfile(p domain.UserBodyProfile) error {
	if !isPositiveFinite(p.HeightCM) {
		return ErrInvalidHeight
	}
	if !isPositiveFinite(p.WeightKG) {
		return ErrInvalidWeight
	}
	if p.AgeYears < 0 {
		return ErrInvalidAge
	}
	if _, ok := coefficientTable[p.Gender]; !ok {
		return fmt.Errorf("%w %q", ErrUnsupportedGender, p.Gender)
	}
	for _, v := range []float64{p.ShapeAdjustments.Bust, p.ShapeAdjustments.Waist, p.ShapeAdjustments.Hip} {
		if math.IsNaN(v) || v < minShapeAdjustment || v > maxShapeAdjustment {
			return ErrInvalidShapeAdjust
		}
	}
	return nil
}

// Estimate aplica BMI + regresion por genero + ajustes de forma, y recorta a las bandas.
func (e MeasurementEstimator) Estimate(p domain.UserBodyProfile) (domain.EstimatedMeasurements, error) {
	if err := e.ValidateProfile(p); err != nil {
		return domain.EstimatedMeasurements{}, err
	}
	waist, hip, bust := rawCircumferences(p)
	return domain.EstimatedMeasurements{
		BustCM:  math.Round(bustBand.clamp(bust)),
		WaistCM: math.Round(waistBand.clamp(waist)),
		HipCM:   math.Round(hipBand.clamp(hip)),
	}, nil
}

// rawCircumferences devuelve waist, hip, bust antes del recorte. El perfil ya fue validado.
func rawCircumferences(p domain.UserBodyProfile) (float64, float64, float64) {
	c := coefficientTable[p.Gender]
	heightM := p.HeightCM / 100
	bmi := p.WeightKG / (heightM * heightM)

	waist := bmi*c.WaistBMI + float64(p.AgeYears)*c.WaistAge
	hip := bmi*c.HipBMI + p.HeightCM*c.HipHeight
	bust := bmi*c.BustBMI + p.HeightCM*c.BustHeight

	waist += p.ShapeAdjustments.Waist * cmPerShapeUnit
	hip += p.ShapeAdjustments.Hip * cmPerShapeUnit
	bust += p.ShapeAdjustments.Bust * cmPerShapeUnit
	return waist, hip, bust
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
