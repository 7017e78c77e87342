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

const conditionColumns = `
	id, patient_id, name, description, severity, diagnosed_date,
	is_active, medications, created_at
`

func (r *medicalConditionRepository) Get(ctx context.Context, id uuid.UUID) (*model.MedicalCondition, error) {
	query := `SELECT ` + conditionColumns + ` FROM medical_conditions WHERE id = $1`
	var condition model.MedicalCondition
	if err := r.db.GetContext(ctx, &condition, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get medical condition: %w", err)
	}
	return &condition, nil
}

func (r *medicalConditionRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalCondition, error) {
	query := `
		SELECT ` + conditionColumns + `
		FROM medical_conditions
		WHERE patient_id = $1
		ORDER BY created_at DESC
	`
	var conditions []*model.MedicalCondition
	if err := r.db.SelectContext(ctx, &conditions, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list medical conditions: %w", err)
	}
	return conditions, nil
}

func (r *medicalConditionRepository) ListActiveByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalCondition, error) {
	query := `
		SELECT ` + conditionColumns + `
		FROM medical_conditions
		WHERE patient_id = $1 AND is_active
		ORDER BY created_at DESC
	`
	var conditions []*model.MedicalCondition
	if err := r.db.SelectContext(ctx, &conditions, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list active conditions: %w", err)
	}
	return conditions, nil
}

func (r *medicalConditionRepository) Create(ctx context.Context, condition *model.MedicalCondition) error {
	query := `
		INSERT INTO medical_conditions (
			id, patient_id, name, description, severity, diagnosed_date,
			is_active, medications, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	condition.ID = uuid.New()
	condition.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		condition.ID, condition.PatientID, condition.Name, condition.Description,
		condition.Severity, condition.DiagnosedDate, condition.IsActive,
		condition.Medications, condition.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create medical condition: %w", err)
	}
	return nil
}

func (r *medicalConditionRepository) Update(ctx context.Context, condition *model.MedicalCondition) error {
	query := `
		UPDATE medical_conditions
		SET name = $1, description = $2, severity = $3, is_active = $4, medications = $5
		WHERE id = $6
	`
	result, err := r.db.ExecContext(ctx, query,
		condition.Name, condition.Description, condition.Severity,
		condition.IsActive, condition.Medications, condition.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update medical condition: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *medicalConditionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM medical_conditions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete medical condition: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}
