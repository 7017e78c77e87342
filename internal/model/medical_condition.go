package model

import (
	"time"

	"github.com/google/uuid"
)

type ConditionSeverity string

const (
	SeverityLow    ConditionSeverity = "LOW"
	SeverityMedium ConditionSeverity = "MEDIUM"
	SeverityHigh   ConditionSeverity = "HIGH"
)

// MedicalCondition is one diagnosed condition belonging to a patient.
type MedicalCondition struct {
	ID            uuid.UUID         `json:"id" db:"id"`
	PatientID     uuid.UUID         `json:"patient_id" db:"patient_id"`
	Name          string            `json:"name" db:"name"`
	Description   string            `json:"description" db:"description"`
	Severity      ConditionSeverity `json:"severity" db:"severity"`
	DiagnosedDate *time.Time        `json:"diagnosed_date" db:"diagnosed_date"`
	IsActive      bool              `json:"is_active" db:"is_active"`
	Medications   string            `json:"medications" db:"medications"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
}

// CreateConditionRequest carries a new diagnosed condition.
type CreateConditionRequest struct {
	Name          string            `json:"name" binding:"required"`
	Description   string            `json:"description"`
	Severity      ConditionSeverity `json:"severity" binding:"required,severity"`
	DiagnosedDate *time.Time        `json:"diagnosed_date"`
	IsActive      *bool             `json:"is_active"`
	Medications   string            `json:"medications"`
}

// UpdateConditionRequest carries partial updates to a condition.
type UpdateConditionRequest struct {
	Name        *string            `json:"name"`
	Description *string            `json:"description"`
	Severity    *ConditionSeverity `json:"severity" binding:"omitempty,severity"`
	IsActive    *bool              `json:"is_active"`
	Medications *string            `json:"medications"`
}
