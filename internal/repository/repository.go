package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/medease/medease-api/internal/model"
)

// Sentinel errors returned by repository implementations. Services map
// these to caller-facing error kinds.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate record")
	ErrSlotTaken = errors.New("slot already booked")
)

type (
	// UserRepository handles identity storage.
	UserRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		ExistsByEmail(ctx context.Context, email string) (bool, error)
		// RegisterPatient persists the user, their role assignments and the
		// linked patient profile in a single transaction.
		RegisterPatient(ctx context.Context, user *model.User, patient *model.Patient) error
		// RegisterDoctor does the same for a doctor profile.
		RegisterDoctor(ctx context.Context, user *model.User, doctor *model.Doctor) error
	}

	PatientRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Patient, error)
		Delete(ctx context.Context, id uuid.UUID) error
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		List(ctx context.Context) ([]*model.Doctor, error)
		ListPaged(ctx context.Context, limit, offset int) ([]*model.Doctor, int64, error)
		ListAvailable(ctx context.Context) ([]*model.Doctor, error)
		ListBySpecialty(ctx context.Context, specialty string) ([]*model.Doctor, error)
		Search(ctx context.Context, query string) ([]*model.Doctor, error)
	}

	HealthMetricsRepository interface {
		GetByPatient(ctx context.Context, patientID uuid.UUID) (*model.HealthMetrics, error)
		Upsert(ctx context.Context, metrics *model.HealthMetrics) error
	}

	MedicalConditionRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.MedicalCondition, error)
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalCondition, error)
		ListActiveByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalCondition, error)
		Create(ctx context.Context, condition *model.MedicalCondition) error
		Update(ctx context.Context, condition *model.MedicalCondition) error
		Delete(ctx context.Context, id uuid.UUID) error
	}

	AppointmentRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		// CreateIfSlotFree inserts the appointment unless a non-cancelled
		// appointment for the same doctor exists within the window around
		// the requested time. Check and insert run in one serializable
		// transaction; ErrSlotTaken is returned on any overlap, including
		// one detected as a serialization failure at commit.
		CreateIfSlotFree(ctx context.Context, appointment *model.Appointment, window time.Duration) error
		Update(ctx context.Context, appointment *model.Appointment) error
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error)
		ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error)
		ListUpcomingByPatient(ctx context.Context, patientID uuid.UUID, from time.Time) ([]*model.Appointment, error)
		ListUpcomingByDoctor(ctx context.Context, doctorID uuid.UUID, from time.Time) ([]*model.Appointment, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
	}
)
