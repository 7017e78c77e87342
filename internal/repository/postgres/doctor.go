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

const doctorWithUserQuery = `
	SELECT d.id, d.user_id, d.specialty, d.qualifications, d.experience_years,
	       d.hospital_affiliation, d.license_number, d.consultation_fee,
	       d.bio, d.rating, d.total_reviews, d.is_available,
	       d.created_at, d.updated_at,
	       u.id AS "user.id", u.first_name AS "user.first_name",
	       u.last_name AS "user.last_name", u.email AS "user.email",
	       u.phone AS "user.phone", u.date_of_birth AS "user.date_of_birth",
	       u.gender AS "user.gender",
	       u.created_at AS "user.created_at", u.updated_at AS "user.updated_at"
	FROM doctors d
	JOIN users u ON u.id = d.user_id
`

type doctorRow struct {
	model.Doctor
	JoinedUser userColumns `db:"user"`
}

func (row *doctorRow) toModel() *model.Doctor {
	d := row.Doctor
	d.User = row.JoinedUser.toModel()
	return &d
}

func doctorsFromRows(rows []doctorRow) []*model.Doctor {
	doctors := make([]*model.Doctor, 0, len(rows))
	for i := range rows {
		doctors = append(doctors, rows[i].toModel())
	}
	return doctors
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (
			id, user_id, specialty, qualifications, experience_years,
			hospital_affiliation, license_number, consultation_fee, bio,
			rating, total_reviews, is_available, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	doctor.ID = uuid.New()
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = doctor.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		doctor.ID, doctor.UserID, doctor.Specialty, doctor.Qualifications,
		doctor.ExperienceYears, doctor.HospitalAffiliation, doctor.LicenseNumber,
		doctor.ConsultationFee, doctor.Bio, doctor.Rating, doctor.TotalReviews,
		doctor.IsAvailable, doctor.CreatedAt, doctor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	var row doctorRow
	if err := r.db.GetContext(ctx, &row, doctorWithUserQuery+` WHERE d.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return row.toModel(), nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `
		UPDATE doctors
		SET specialty = $1, qualifications = $2, experience_years = $3,
		    hospital_affiliation = $4, consultation_fee = $5, bio = $6,
		    rating = $7, total_reviews = $8, is_available = $9, updated_at = $10
		WHERE id = $11
	`
	doctor.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		doctor.Specialty, doctor.Qualifications, doctor.ExperienceYears,
		doctor.HospitalAffiliation, doctor.ConsultationFee, doctor.Bio,
		doctor.Rating, doctor.TotalReviews, doctor.IsAvailable,
		doctor.UpdatedAt, doctor.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
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

func (r *doctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	var rows []doctorRow
	if err := r.db.SelectContext(ctx, &rows, doctorWithUserQuery+` ORDER BY u.last_name, u.first_name`); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctorsFromRows(rows), nil
}

func (r *doctorRepository) ListPaged(ctx context.Context, limit, offset int) ([]*model.Doctor, int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM doctors`); err != nil {
		return nil, 0, fmt.Errorf("failed to count doctors: %w", err)
	}

	var rows []doctorRow
	query := doctorWithUserQuery + ` ORDER BY u.last_name, u.first_name LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctorsFromRows(rows), total, nil
}

func (r *doctorRepository) ListAvailable(ctx context.Context) ([]*model.Doctor, error) {
	var rows []doctorRow
	query := doctorWithUserQuery + ` WHERE d.is_available ORDER BY u.last_name, u.first_name`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list available doctors: %w", err)
	}
	return doctorsFromRows(rows), nil
}

func (r *doctorRepository) ListBySpecialty(ctx context.Context, specialty string) ([]*model.Doctor, error) {
	var rows []doctorRow
	query := doctorWithUserQuery + ` WHERE d.specialty ILIKE '%' || $1 || '%' ORDER BY u.last_name, u.first_name`
	if err := r.db.SelectContext(ctx, &rows, query, specialty); err != nil {
		return nil, fmt.Errorf("failed to list doctors by specialty: %w", err)
	}
	return doctorsFromRows(rows), nil
}

func (r *doctorRepository) Search(ctx context.Context, searchTerm string) ([]*model.Doctor, error) {
	var rows []doctorRow
	query := doctorWithUserQuery + `
		WHERE u.first_name ILIKE '%' || $1 || '%'
		   OR u.last_name ILIKE '%' || $1 || '%'
		   OR d.specialty ILIKE '%' || $1 || '%'
		ORDER BY u.last_name, u.first_name
	`
	if err := r.db.SelectContext(ctx, &rows, query, searchTerm); err != nil {
		return nil, fmt.Errorf("failed to search doctors: %w", err)
	}
	return doctorsFromRows(rows), nil
}
