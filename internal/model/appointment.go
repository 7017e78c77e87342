package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "SCHEDULED"
	AppointmentStatusConfirmed  AppointmentStatus = "CONFIRMED"
	AppointmentStatusInProgress AppointmentStatus = "IN_PROGRESS"
	AppointmentStatusCompleted  AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled  AppointmentStatus = "CANCELLED"
	AppointmentStatusNoShow     AppointmentStatus = "NO_SHOW"
)

// Valid reports whether s is one of the enumerated statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed,
		AppointmentStatusInProgress, AppointmentStatusCompleted,
		AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

type AppointmentType string

const (
	AppointmentTypeConsultation       AppointmentType = "CONSULTATION"
	AppointmentTypeFollowUp           AppointmentType = "FOLLOW_UP"
	AppointmentTypeEmergency          AppointmentType = "EMERGENCY"
	AppointmentTypeRoutineCheckup     AppointmentType = "ROUTINE_CHECKUP"
	AppointmentTypeSpecialistReferral AppointmentType = "SPECIALIST_REFERRAL"
)

func (t AppointmentType) Valid() bool {
	switch t {
	case AppointmentTypeConsultation, AppointmentTypeFollowUp,
		AppointmentTypeEmergency, AppointmentTypeRoutineCheckup,
		AppointmentTypeSpecialistReferral:
		return true
	}
	return false
}

// Appointment represents one scheduled clinical encounter. Patient and
// doctor references are mandatory and immutable after creation; rows are
// never hard-deleted, cancellation is a status transition.
type Appointment struct {
	Base
	PatientID       uuid.UUID         `json:"patient_id" db:"patient_id"`
	DoctorID        uuid.UUID         `json:"doctor_id" db:"doctor_id"`
	AppointmentDate time.Time         `json:"appointment_date" db:"appointment_date"`
	Status          AppointmentStatus `json:"status" db:"status"`
	Type            AppointmentType   `json:"type" db:"type"`
	Reason          string            `json:"reason" db:"reason"`
	Notes           string            `json:"notes" db:"notes"`
	Prescription    string            `json:"prescription" db:"prescription"`
}

// BookAppointmentRequest is the booking payload. Date and time arrive as
// two separate strings and are combined with a literal "T" separator.
type BookAppointmentRequest struct {
	DoctorID        uuid.UUID `json:"doctorId" binding:"required"`
	AppointmentDate string    `json:"appointmentDate" binding:"required"`
	AppointmentTime string    `json:"appointmentTime" binding:"required"`
	Reason          string    `json:"reason"`
	Type            string    `json:"type" binding:"omitempty,appointment_type"`
}

// UpdateAppointmentStatusRequest overwrites the status field.
type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AddNotesRequest overwrites the notes field; no history is kept.
type AddNotesRequest struct {
	Notes string `json:"notes" binding:"required"`
}
