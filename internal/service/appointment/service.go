package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medease/medease-api/internal/email"
	"github.com/medease/medease-api/internal/model"
	"github.com/medease/medease-api/internal/repository"
	"github.com/medease/medease-api/internal/service/event"
	apperrors "github.com/medease/medease-api/pkg/errors"
	"github.com/medease/medease-api/pkg/logger"
	"github.com/medease/medease-api/pkg/metrics"
)

// ConflictWindow is the exclusion zone around an existing appointment.
// A doctor cannot hold two non-cancelled appointments within it.
const ConflictWindow = 30 * time.Minute

// Service owns the appointment lifecycle: booking, status transitions,
// clinical notes and the patient/doctor schedule views.
type Service struct {
	appointments repository.AppointmentRepository
	patients     repository.PatientRepository
	doctors      repository.DoctorRepository
	events       *event.Service
	mailer       email.Service
	log          *logger.Logger
	metrics      *metrics.Metrics
}

// NewService wires the booking service. metrics may be nil, in which
// case booking counters are not recorded.
func NewService(
	appointments repository.AppointmentRepository,
	patients repository.PatientRepository,
	doctors repository.DoctorRepository,
	events *event.Service,
	mailer email.Service,
	log *logger.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		appointments: appointments,
		patients:     patients,
		doctors:      doctors,
		events:       events,
		mailer:       mailer,
		log:          log,
		metrics:      m,
	}
}

// Book schedules a new appointment for the authenticated patient. The
// doctor must exist and be accepting bookings, and the slot must be free
// of non-cancelled appointments within ConflictWindow on either side.
func (s *Service) Book(ctx context.Context, userID uuid.UUID, req *model.BookAppointmentRequest) (*model.Appointment, error) {
	patient, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Validation("Patient profile not found")
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	doctor, err := s.doctors.Get(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Validation("Doctor not found")
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	if !doctor.IsAvailable {
		return nil, apperrors.Validation("Doctor is not available for appointments")
	}

	when, err := parseAppointmentDateTime(req.AppointmentDate, req.AppointmentTime)
	if err != nil {
		return nil, apperrors.Validation("Invalid appointment date or time format")
	}

	// Enum inputs are accepted case-insensitively on the wire.
	aptType := model.AppointmentTypeConsultation
	if req.Type != "" {
		aptType = model.AppointmentType(strings.ToUpper(req.Type))
		if !aptType.Valid() {
			return nil, apperrors.Validation("Invalid appointment type")
		}
	}

	apt := &model.Appointment{
		PatientID:       patient.ID,
		DoctorID:        doctor.ID,
		AppointmentDate: when,
		Status:          model.AppointmentStatusScheduled,
		Type:            aptType,
		Reason:          req.Reason,
	}

	if err := s.appointments.CreateIfSlotFree(ctx, apt, ConflictWindow); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			s.countBooking("conflict")
			if s.metrics != nil {
				s.metrics.SlotConflicts.Inc()
			}
			return nil, apperrors.Conflict("Doctor already has an appointment around this time")
		}
		s.countBooking("error")
		return nil, fmt.Errorf("failed to book appointment: %w", err)
	}
	s.countBooking("booked")

	if err := s.events.EmitAppointmentEvent(ctx, model.EventAppointmentBooked, apt); err != nil {
		s.log.Error(err, "failed to emit booking event")
	}
	s.notifyBooked(ctx, patient, doctor, apt)

	return apt, nil
}

// Get returns an appointment by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.appointments.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Appointment not found")
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return apt, nil
}

// UpdateStatus overwrites the appointment status. Any valid status may
// replace any other; transitions are not restricted.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Appointment, error) {
	newStatus := model.AppointmentStatus(strings.ToUpper(status))
	if !newStatus.Valid() {
		return nil, apperrors.Validation("Invalid appointment status")
	}

	apt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	apt.Status = newStatus
	if err := s.appointments.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	if err := s.events.EmitAppointmentEvent(ctx, model.EventAppointmentStatusChanged, apt); err != nil {
		s.log.Error(err, "failed to emit status event")
	}
	return apt, nil
}

// Cancel marks the appointment cancelled. The row is kept; a cancelled
// appointment no longer blocks its slot.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	apt.Status = model.AppointmentStatusCancelled
	if err := s.appointments.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to cancel appointment: %w", err)
	}

	if err := s.events.EmitAppointmentEvent(ctx, model.EventAppointmentCancelled, apt); err != nil {
		s.log.Error(err, "failed to emit cancellation event")
	}
	s.notifyCancelled(ctx, apt)

	return apt, nil
}

// AddNotes overwrites the clinical notes on an appointment.
func (s *Service) AddNotes(ctx context.Context, id uuid.UUID, notes string) (*model.Appointment, error) {
	apt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	apt.Notes = notes
	if err := s.appointments.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to add notes: %w", err)
	}
	return apt, nil
}

// ListForPatient returns the full history for the authenticated patient.
func (s *Service) ListForPatient(ctx context.Context, userID uuid.UUID, upcomingOnly bool) ([]*model.Appointment, error) {
	patient, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Patient profile not found")
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	var appointments []*model.Appointment
	if upcomingOnly {
		appointments, err = s.appointments.ListUpcomingByPatient(ctx, patient.ID, time.Now())
	} else {
		appointments, err = s.appointments.ListByPatient(ctx, patient.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// ListForDoctor returns the schedule for a doctor by doctor id.
func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID, upcomingOnly bool) ([]*model.Appointment, error) {
	if _, err := s.doctors.Get(ctx, doctorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Doctor not found")
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	var appointments []*model.Appointment
	var err error
	if upcomingOnly {
		appointments, err = s.appointments.ListUpcomingByDoctor(ctx, doctorID, time.Now())
	} else {
		appointments, err = s.appointments.ListByDoctor(ctx, doctorID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// parseAppointmentDateTime joins the date and time fields with a literal
// "T" and accepts times with or without seconds.
func parseAppointmentDateTime(date, timeOfDay string) (time.Time, error) {
	raw := date + "T" + timeOfDay
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable appointment datetime %q", raw)
}

func (s *Service) countBooking(outcome string) {
	if s.metrics != nil {
		s.metrics.BookingsTotal.WithLabelValues(outcome).Inc()
	}
}

// Notification failures never fail the booking.
func (s *Service) notifyBooked(ctx context.Context, patient *model.Patient, doctor *model.Doctor, apt *model.Appointment) {
	if patient.User == nil {
		return
	}
	doctorName := ""
	if doctor.User != nil {
		doctorName = doctor.User.FirstName + " " + doctor.User.LastName
	}
	when := apt.AppointmentDate.Format("Jan 2, 2006 at 15:04")
	if err := s.mailer.SendAppointmentBooked(ctx, patient.User.Email, doctorName, when); err != nil {
		s.log.Error(err, "failed to send booking email")
	}
}

func (s *Service) notifyCancelled(ctx context.Context, apt *model.Appointment) {
	patient, err := s.patients.Get(ctx, apt.PatientID)
	if err != nil || patient.User == nil {
		return
	}
	when := apt.AppointmentDate.Format("Jan 2, 2006 at 15:04")
	if err := s.mailer.SendAppointmentCancelled(ctx, patient.User.Email, when); err != nil {
		s.log.Error(err, "failed to send cancellation email")
	}
}
