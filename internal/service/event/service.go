package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/medease/medease-api/internal/model"
	"github.com/medease/medease-api/internal/repository"
)

// Service records domain events in the outbox so the worker can publish
// them after the owning transaction commits.
type Service struct {
	repo repository.OutboxRepository
}

func NewService(repo repository.OutboxRepository) *Service {
	return &Service{repo: repo}
}

type appointmentPayload struct {
	AppointmentID string    `json:"appointment_id"`
	PatientID     string    `json:"patient_id"`
	DoctorID      string    `json:"doctor_id"`
	Date          time.Time `json:"date"`
	Status        string    `json:"status"`
	Type          string    `json:"type"`
}

func (s *Service) EmitAppointmentEvent(ctx context.Context, eventType string, apt *model.Appointment) error {
	payload, err := json.Marshal(appointmentPayload{
		AppointmentID: apt.ID.String(),
		PatientID:     apt.PatientID.String(),
		DoctorID:      apt.DoctorID.String(),
		Date:          apt.AppointmentDate,
		Status:        string(apt.Status),
		Type:          string(apt.Type),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	return s.repo.Create(ctx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	})
}
