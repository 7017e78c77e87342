package model

import (
	"github.com/google/uuid"
)

// Patient is a patient profile linked one-to-one with a user identity.
// It owns the patient's health metrics, medical conditions and appointments.
type Patient struct {
	Base
	UserID uuid.UUID `json:"user_id" db:"user_id"`
	User   *User     `json:"user,omitempty" db:"-"`
}
