package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/medease/medease-api/internal/model"
	"github.com/medease/medease-api/internal/repository"
)

const serializationFailure = "40001"

// Postgres may report a serialization failure at any statement of the
// transaction, not only at commit.
func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == serializationFailure
}

const appointmentColumns = `
	id, patient_id, doctor_id, appointment_date, status, type,
	reason, notes, prescription, created_at, updated_at
`

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

// CreateIfSlotFree runs the conflict check and the insert in one
// serializable transaction so two concurrent bookings of overlapping
// slots cannot both commit. Cancelled appointments do not block a slot.
func (r *appointmentRepository) CreateIfSlotFree(ctx context.Context, appointment *model.Appointment, window time.Duration) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var conflicts int
	err = tx.GetContext(ctx, &conflicts, `
		SELECT COUNT(*)
		FROM appointments
		WHERE doctor_id = $1
		  AND status != $2
		  AND appointment_date BETWEEN $3 AND $4
	`,
		appointment.DoctorID,
		model.AppointmentStatusCancelled,
		appointment.AppointmentDate.Add(-window),
		appointment.AppointmentDate.Add(window),
	)
	if err != nil {
		if isSerializationFailure(err) {
			return repository.ErrSlotTaken
		}
		return fmt.Errorf("failed to check conflicting appointments: %w", err)
	}
	if conflicts > 0 {
		return repository.ErrSlotTaken
	}

	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = appointment.CreatedAt

	_, err = tx.ExecContext(ctx, `
		INSERT INTO appointments (
			id, patient_id, doctor_id, appointment_date, status, type,
			reason, notes, prescription, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		appointment.ID, appointment.PatientID, appointment.DoctorID,
		appointment.AppointmentDate, appointment.Status, appointment.Type,
		appointment.Reason, appointment.Notes, appointment.Prescription,
		appointment.CreatedAt, appointment.UpdatedAt,
	)
	if err != nil {
		if isSerializationFailure(err) {
			return repository.ErrSlotTaken
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isSerializationFailure(err) {
			return repository.ErrSlotTaken
		}
		return fmt.Errorf("failed to commit booking: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET status = $1, notes = $2, prescription = $3, updated_at = $4
		WHERE id = $5
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.Status, appointment.Notes, appointment.Prescription,
		appointment.UpdatedAt, appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
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

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE patient_id = $1
		ORDER BY appointment_date DESC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list patient appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE doctor_id = $1
		ORDER BY appointment_date DESC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListUpcomingByPatient(ctx context.Context, patientID uuid.UUID, from time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE patient_id = $1 AND appointment_date >= $2
		ORDER BY appointment_date ASC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, patientID, from); err != nil {
		return nil, fmt.Errorf("failed to list upcoming patient appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListUpcomingByDoctor(ctx context.Context, doctorID uuid.UUID, from time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE doctor_id = $1 AND appointment_date >= $2
		ORDER BY appointment_date ASC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID, from); err != nil {
		return nil, fmt.Errorf("failed to list upcoming doctor appointments: %w", err)
	}
	return appointments, nil
}
