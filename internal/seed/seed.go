package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/medease/medease-api/internal/model"
	"github.com/medease/medease-api/internal/repository"
	"github.com/medease/medease-api/pkg/logger"
	"github.com/medease/medease-api/pkg/security"
)

// Seeder loads the demo dataset: one patient with a health record and
// three doctors. Each account is keyed by email, so running it against
// an already seeded database changes nothing.
type Seeder struct {
	users      repository.UserRepository
	metrics    repository.HealthMetricsRepository
	conditions repository.MedicalConditionRepository
	hasher     security.PasswordHasher
	log        *logger.Logger
}

func New(
	users repository.UserRepository,
	metrics repository.HealthMetricsRepository,
	conditions repository.MedicalConditionRepository,
	hasher security.PasswordHasher,
	log *logger.Logger,
) *Seeder {
	return &Seeder{
		users:      users,
		metrics:    metrics,
		conditions: conditions,
		hasher:     hasher,
		log:        log,
	}
}

type doctorSeed struct {
	firstName  string
	lastName   string
	email      string
	specialty  string
	experience int
	rating     float64
	fee        string
}

var doctorSeeds = []doctorSeed{
	{"Sarah", "Johnson", "sarah.johnson@medease.com", "Cardiology", 12, 4.8, "200"},
	{"Michael", "Smith", "michael.smith@medease.com", "General Practice", 8, 4.6, "150"},
	{"Emily", "Davis", "emily.davis@medease.com", "Dermatology", 10, 4.9, "180"},
}

func (s *Seeder) Run(ctx context.Context) error {
	if err := s.seedPatient(ctx); err != nil {
		return fmt.Errorf("failed to seed patient: %w", err)
	}
	for _, d := range doctorSeeds {
		if err := s.seedDoctor(ctx, d); err != nil {
			return fmt.Errorf("failed to seed doctor %s: %w", d.email, err)
		}
	}
	return nil
}

func (s *Seeder) seedPatient(ctx context.Context) error {
	const email = "patient@medease.com"

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		s.log.Debug("seed patient already present", "email", email)
		return nil
	}

	hash, err := s.hasher.Hash("password123")
	if err != nil {
		return err
	}

	user := &model.User{
		FirstName:    "John",
		LastName:     "Doe",
		Email:        email,
		Phone:        "1234567890",
		PasswordHash: hash,
		Gender:       model.GenderMale,
		Roles:        []string{model.RolePatient},
	}
	patient := &model.Patient{}
	if err := s.users.RegisterPatient(ctx, user, patient); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil
		}
		return err
	}

	weight, height := 70.0, 175.0
	metrics := &model.HealthMetrics{
		PatientID: patient.ID,
		Weight:    &weight,
		Height:    &height,
	}
	metrics.RecalculateBMI()
	if err := s.metrics.Upsert(ctx, metrics); err != nil {
		return err
	}

	condition := &model.MedicalCondition{
		PatientID:   patient.ID,
		Name:        "Hypertension",
		Description: "Mild essential hypertension under observation",
		Severity:    model.SeverityMedium,
		IsActive:    true,
		Medications: "Lisinopril 10mg",
	}
	if err := s.conditions.Create(ctx, condition); err != nil {
		return err
	}

	s.log.Info("seeded demo patient", "email", email)
	return nil
}

func (s *Seeder) seedDoctor(ctx context.Context, d doctorSeed) error {
	exists, err := s.users.ExistsByEmail(ctx, d.email)
	if err != nil {
		return err
	}
	if exists {
		s.log.Debug("seed doctor already present", "email", d.email)
		return nil
	}

	hash, err := s.hasher.Hash("password123")
	if err != nil {
		return err
	}

	user := &model.User{
		FirstName:    d.firstName,
		LastName:     d.lastName,
		Email:        d.email,
		PasswordHash: hash,
		Roles:        []string{model.RoleDoctor},
	}
	doctor := &model.Doctor{
		Specialty:       d.specialty,
		ExperienceYears: d.experience,
		Rating:          d.rating,
		ConsultationFee: d.fee,
		IsAvailable:     true,
	}
	if err := s.users.RegisterDoctor(ctx, user, doctor); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil
		}
		return err
	}

	s.log.Info("seeded demo doctor", "email", d.email)
	return nil
}
