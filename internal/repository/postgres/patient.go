package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/medease/medease-api/internal/model"
	"github.com/medease/medease-api/internal/repository"
)

const patientWithUserQuery = `
	SELECT p.id, p.user_id, p.created_at, p.updated_at,
	       u.id AS "user.id", u.first_name AS "user.first_name",
	       u.last_name AS "user.last_name", u.email AS "user.email",
	       u.phone AS "user.phone", u.date_of_birth AS "user.date_of_birth",
	       u.gender AS "user.gender",
	       u.created_at AS "user.created_at", u.updated_at AS "user.updated_at"
	FROM patients p
	JOIN users u ON u.id = p.user_id
`

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	var row patientRow
	if err := r.db.GetContext(ctx, &row, patientWithUserQuery+` WHERE p.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return row.toModel(), nil
}

func (r *patientRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Patient, error) {
	var row patientRow
	if err := r.db.GetContext(ctx, &row, patientWithUserQuery+` WHERE p.user_id = $1`, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient by user: %w", err)
	}
	return row.toModel(), nil
}

// Owned health metrics, conditions and appointments are removed by
// ON DELETE CASCADE foreign keys.
func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
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

// patientRow flattens the patient/user join for sqlx scanning.
type patientRow struct {
	model.Patient
	JoinedUser userColumns `db:"user"`
}

type userColumns struct {
	ID          uuid.UUID    `db:"id"`
	FirstName   string       `db:"first_name"`
	LastName    string       `db:"last_name"`
	Email       string       `db:"email"`
	Phone       string       `db:"phone"`
	DateOfBirth sql.NullTime `db:"date_of_birth"`
	Gender      string       `db:"gender"`
	CreatedAt   sql.NullTime `db:"created_at"`
	UpdatedAt   sql.NullTime `db:"updated_at"`
}

func (row *patientRow) toModel() *model.Patient {
	p := row.Patient
	p.User = row.JoinedUser.toModel()
	return &p
}

func (u userColumns) toModel() *model.User {
	user := &model.User{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Gender:    u.Gender,
	}
	user.ID = u.ID
	if u.DateOfBirth.Valid {
		t := u.DateOfBirth.Time
		user.DateOfBirth = &t
	}
	if u.CreatedAt.Valid {
		user.CreatedAt = u.CreatedAt.Time
	}
	if u.UpdatedAt.Valid {
		user.UpdatedAt = u.UpdatedAt.Time
	}
	return user
}
