package model

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// HealthMetrics is a measured snapshot of a patient's vitals. Weight is
// in kilograms, height in centimeters and heart rate in beats per
// minute. BMI is derived from weight and height and is never set
// independently.
type HealthMetrics struct {
	ID                     uuid.UUID `json:"id" db:"id"`
	PatientID              uuid.UUID `json:"patient_id" db:"patient_id"`
	Weight                 *float64  `json:"weight" db:"weight"`
	Height                 *float64  `json:"height" db:"height"`
	HeartRate              *int      `json:"heart_rate" db:"heart_rate"`
	BloodPressureSystolic  *int      `json:"blood_pressure_systolic" db:"blood_pressure_systolic"`
	BloodPressureDiastolic *int      `json:"blood_pressure_diastolic" db:"blood_pressure_diastolic"`
	BloodSugar             *float64  `json:"blood_sugar" db:"blood_sugar"`
	Cholesterol            *float64  `json:"cholesterol" db:"cholesterol"`
	Temperature            *float64  `json:"temperature" db:"temperature"`
	BMI                    *float64  `json:"bmi" db:"bmi"`
	LastUpdated            time.Time `json:"last_updated" db:"last_updated"`
}

// RecalculateBMI derives BMI from the current weight and height,
// rounded to two decimal places. BMI is cleared when either input is
// missing or height is not positive.
func (m *HealthMetrics) RecalculateBMI() {
	m.BMI = CalculateBMI(m.Weight, m.Height)
}

// CalculateBMI computes weight_kg / (height_m)^2 rounded to 2 decimals,
// or nil when the inputs cannot produce a defined value.
func CalculateBMI(weightKg, heightCm *float64) *float64 {
	if weightKg == nil || heightCm == nil || *heightCm <= 0 {
		return nil
	}
	heightM := *heightCm / 100.0
	bmi := *weightKg / (heightM * heightM)
	bmi = math.Round(bmi*100) / 100
	return &bmi
}

// UpdateHealthMetricsRequest carries a full metrics snapshot; BMI is
// recomputed server-side and ignored if supplied.
type UpdateHealthMetricsRequest struct {
	Weight                 *float64 `json:"weight" binding:"omitempty,gt=0"`
	Height                 *float64 `json:"height" binding:"omitempty,gt=0"`
	HeartRate              *int     `json:"heart_rate" binding:"omitempty,gt=0"`
	BloodPressureSystolic  *int     `json:"blood_pressure_systolic" binding:"omitempty,gt=0"`
	BloodPressureDiastolic *int     `json:"blood_pressure_diastolic" binding:"omitempty,gt=0"`
	BloodSugar             *float64 `json:"blood_sugar" binding:"omitempty,gt=0"`
	Cholesterol            *float64 `json:"cholesterol" binding:"omitempty,gt=0"`
	Temperature            *float64 `json:"temperature" binding:"omitempty,gt=0"`
}
