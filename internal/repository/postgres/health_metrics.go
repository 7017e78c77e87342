package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medease/medease-api/internal/model"
	"github.com/medease/medease-api/internal/repository"
)

func (r *healthMetricsRepository) GetByPatient(ctx context.Context, patientID uuid.UUID) (*model.HealthMetrics, error) {
	query := `
		SELECT id, patient_id, weight, height, heart_rate,
		       blood_pressure_systolic, blood_pressure_diastolic,
		       blood_sugar, cholesterol, temperature, bmi, last_updated
		FROM health_metrics
		WHERE patient_id = $1
	`
	var metrics model.HealthMetrics
	if err := r.db.GetContext(ctx, &metrics, query, patientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get health metrics: %w", err)
	}
	return &metrics, nil
}

// Upsert writes the one metrics row a patient owns. BMI is persisted as
// computed by the caller; the patient_id unique constraint makes the
// insert-or-update race safe.
func (r *healthMetricsRepository) Upsert(ctx context.Context, metrics *model.HealthMetrics) error {
	if metrics.ID == uuid.Nil {
		metrics.ID = uuid.New()
	}
	metrics.LastUpdated = time.Now()

	query := `
		INSERT INTO health_metrics (
			id, patient_id, weight, height, heart_rate,
			blood_pressure_systolic, blood_pressure_diastolic,
			blood_sugar, cholesterol, temperature, bmi, last_updated
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (patient_id) DO UPDATE SET
			weight = EXCLUDED.weight,
			height = EXCLUDED.height,
			heart_rate = EXCLUDED.heart_rate,
			blood_pressure_systolic = EXCLUDED.blood_pressure_systolic,
			blood_pressure_diastolic = EXCLUDED.blood_pressure_diastolic,
			blood_sugar = EXCLUDED.blood_sugar,
			cholesterol = EXCLUDED.cholesterol,
			temperature = EXCLUDED.temperature,
			bmi = EXCLUDED.bmi,
			last_updated = EXCLUDED.last_updated
	`
	_, err := r.db.ExecContext(ctx, query,
		metrics.ID, metrics.PatientID, metrics.Weight, metrics.Height,
		metrics.HeartRate, metrics.BloodPressureSystolic, metrics.BloodPressureDiastolic,
		metrics.BloodSugar, metrics.Cholesterol, metrics.Temperature,
		metrics.BMI, metrics.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert health metrics: %w", err)
	}
	return nil
}
