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

const uniqueViolation = "23505"

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, password_hash,
		       date_of_birth, gender, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var user model.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	roles, err := r.getRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, password_hash,
		       date_of_birth, gender, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	var user model.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	roles, err := r.getRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	return &user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

func (r *userRepository) RegisterPatient(ctx context.Context, user *model.User, patient *model.Patient) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	user.ID = uuid.New()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (
			id, first_name, last_name, email, phone, password_hash,
			date_of_birth, gender, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		user.ID, user.FirstName, user.LastName, user.Email, user.Phone,
		user.PasswordHash, user.DateOfBirth, user.Gender, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	for _, role := range user.Roles {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`,
			user.ID, role,
		); err != nil {
			return fmt.Errorf("failed to assign role: %w", err)
		}
	}

	patient.ID = uuid.New()
	patient.UserID = user.ID
	patient.CreatedAt = now
	patient.UpdatedAt = now

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO patients (id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`,
		patient.ID, patient.UserID, patient.CreatedAt, patient.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to create patient profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit registration: %w", err)
	}
	return nil
}

func (r *userRepository) RegisterDoctor(ctx context.Context, user *model.User, doctor *model.Doctor) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	user.ID = uuid.New()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (
			id, first_name, last_name, email, phone, password_hash,
			date_of_birth, gender, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		user.ID, user.FirstName, user.LastName, user.Email, user.Phone,
		user.PasswordHash, user.DateOfBirth, user.Gender, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	for _, role := range user.Roles {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`,
			user.ID, role,
		); err != nil {
			return fmt.Errorf("failed to assign role: %w", err)
		}
	}

	doctor.ID = uuid.New()
	doctor.UserID = user.ID
	doctor.CreatedAt = now
	doctor.UpdatedAt = now

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO doctors (
			id, user_id, specialty, qualifications, experience_years,
			hospital_affiliation, license_number, consultation_fee, bio,
			rating, total_reviews, is_available, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`,
		doctor.ID, doctor.UserID, doctor.Specialty, doctor.Qualifications,
		doctor.ExperienceYears, doctor.HospitalAffiliation, doctor.LicenseNumber,
		doctor.ConsultationFee, doctor.Bio, doctor.Rating, doctor.TotalReviews,
		doctor.IsAvailable, doctor.CreatedAt, doctor.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to create doctor profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit registration: %w", err)
	}
	return nil
}

func (r *userRepository) getRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var roles []string
	query := `SELECT role FROM user_roles WHERE user_id = $1 ORDER BY role`
	if err := r.db.SelectContext(ctx, &roles, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}
	return roles, nil
}
