package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/medease/medease-api/internal/model"
	"github.com/medease/medease-api/internal/repository"
	apperrors "github.com/medease/medease-api/pkg/errors"
)

// Service exposes a patient's own health record: profile, metrics
// snapshot and diagnosed conditions. Callers resolve the patient from
// the authenticated user, never from client-supplied ids.
type Service struct {
	patients   repository.PatientRepository
	metrics    repository.HealthMetricsRepository
	conditions repository.MedicalConditionRepository
}

func NewService(
	patients repository.PatientRepository,
	metrics repository.HealthMetricsRepository,
	conditions repository.MedicalConditionRepository,
) *Service {
	return &Service{
		patients:   patients,
		metrics:    metrics,
		conditions: conditions,
	}
}

func (s *Service) GetProfileByUser(ctx context.Context, userID uuid.UUID) (*model.Patient, error) {
	patient, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Patient profile not found")
		}
		return nil, fmt.Errorf("failed to get patient profile: %w", err)
	}
	return patient, nil
}

// GetHealthMetrics returns the patient's metrics, or an empty snapshot
// when none have been recorded yet.
func (s *Service) GetHealthMetrics(ctx context.Context, userID uuid.UUID) (*model.HealthMetrics, error) {
	patient, err := s.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	metrics, err := s.metrics.GetByPatient(ctx, patient.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &model.HealthMetrics{PatientID: patient.ID}, nil
		}
		return nil, fmt.Errorf("failed to get health metrics: %w", err)
	}
	return metrics, nil
}

// UpdateHealthMetrics stores the snapshot and recomputes BMI from it.
func (s *Service) UpdateHealthMetrics(ctx context.Context, userID uuid.UUID, req *model.UpdateHealthMetricsRequest) (*model.HealthMetrics, error) {
	patient, err := s.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	metrics, err := s.metrics.GetByPatient(ctx, patient.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to get health metrics: %w", err)
		}
		metrics = &model.HealthMetrics{PatientID: patient.ID}
	}

	if req.Weight != nil {
		metrics.Weight = req.Weight
	}
	if req.Height != nil {
		metrics.Height = req.Height
	}
	if req.HeartRate != nil {
		metrics.HeartRate = req.HeartRate
	}
	if req.BloodPressureSystolic != nil {
		metrics.BloodPressureSystolic = req.BloodPressureSystolic
	}
	if req.BloodPressureDiastolic != nil {
		metrics.BloodPressureDiastolic = req.BloodPressureDiastolic
	}
	if req.BloodSugar != nil {
		metrics.BloodSugar = req.BloodSugar
	}
	if req.Cholesterol != nil {
		metrics.Cholesterol = req.Cholesterol
	}
	if req.Temperature != nil {
		metrics.Temperature = req.Temperature
	}
	metrics.RecalculateBMI()

	if err := s.metrics.Upsert(ctx, metrics); err != nil {
		return nil, fmt.Errorf("failed to save health metrics: %w", err)
	}
	return metrics, nil
}

func (s *Service) ListConditions(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*model.MedicalCondition, error) {
	patient, err := s.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var conditions []*model.MedicalCondition
	if activeOnly {
		conditions, err = s.conditions.ListActiveByPatient(ctx, patient.ID)
	} else {
		conditions, err = s.conditions.ListByPatient(ctx, patient.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list conditions: %w", err)
	}
	return conditions, nil
}

func (s *Service) AddCondition(ctx context.Context, userID uuid.UUID, req *model.CreateConditionRequest) (*model.MedicalCondition, error) {
	patient, err := s.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	condition := &model.MedicalCondition{
		PatientID:     patient.ID,
		Name:          req.Name,
		Description:   req.Description,
		Severity:      req.Severity,
		DiagnosedDate: req.DiagnosedDate,
		IsActive:      true,
		Medications:   req.Medications,
	}
	if req.IsActive != nil {
		condition.IsActive = *req.IsActive
	}

	if err := s.conditions.Create(ctx, condition); err != nil {
		return nil, fmt.Errorf("failed to add condition: %w", err)
	}
	return condition, nil
}

func (s *Service) UpdateCondition(ctx context.Context, userID uuid.UUID, conditionID uuid.UUID, req *model.UpdateConditionRequest) (*model.MedicalCondition, error) {
	patient, err := s.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	condition, err := s.getOwnedCondition(ctx, patient.ID, conditionID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		condition.Name = *req.Name
	}
	if req.Description != nil {
		condition.Description = *req.Description
	}
	if req.Severity != nil {
		condition.Severity = *req.Severity
	}
	if req.IsActive != nil {
		condition.IsActive = *req.IsActive
	}
	if req.Medications != nil {
		condition.Medications = *req.Medications
	}

	if err := s.conditions.Update(ctx, condition); err != nil {
		return nil, fmt.Errorf("failed to update condition: %w", err)
	}
	return condition, nil
}

func (s *Service) DeleteCondition(ctx context.Context, userID uuid.UUID, conditionID uuid.UUID) error {
	patient, err := s.GetProfileByUser(ctx, userID)
	if err != nil {
		return err
	}

	if _, err := s.getOwnedCondition(ctx, patient.ID, conditionID); err != nil {
		return err
	}

	if err := s.conditions.Delete(ctx, conditionID); err != nil {
		return fmt.Errorf("failed to delete condition: %w", err)
	}
	return nil
}

// getOwnedCondition hides conditions belonging to other patients behind
// the same not-found answer as a missing id.
func (s *Service) getOwnedCondition(ctx context.Context, patientID, conditionID uuid.UUID) (*model.MedicalCondition, error) {
	condition, err := s.conditions.Get(ctx, conditionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Condition not found")
		}
		return nil, fmt.Errorf("failed to get condition: %w", err)
	}
	if condition.PatientID != patientID {
		return nil, apperrors.NotFound("Condition not found")
	}
	return condition, nil
}
