package model

import (
	"github.com/google/uuid"
)

// Doctor is a practitioner profile linked one-to-one with a user identity.
// IsAvailable gates whether new bookings are accepted.
type Doctor struct {
	Base
	UserID              uuid.UUID `json:"user_id" db:"user_id"`
	Specialty           string    `json:"specialty" db:"specialty"`
	Qualifications      string    `json:"qualifications" db:"qualifications"`
	ExperienceYears     int       `json:"experience_years" db:"experience_years"`
	HospitalAffiliation string    `json:"hospital_affiliation" db:"hospital_affiliation"`
	LicenseNumber       string    `json:"license_number" db:"license_number"`
	ConsultationFee     string    `json:"consultation_fee" db:"consultation_fee"`
	Bio                 string    `json:"bio" db:"bio"`
	Rating              float64   `json:"rating" db:"rating"`
	TotalReviews        int       `json:"total_reviews" db:"total_reviews"`
	IsAvailable         bool      `json:"is_available" db:"is_available"`
	User                *User     `json:"user,omitempty" db:"-"`
}

// CreateDoctorRequest carries a new doctor profile for an existing user.
type CreateDoctorRequest struct {
	UserID              uuid.UUID `json:"user_id" binding:"required"`
	Specialty           string    `json:"specialty" binding:"required"`
	Qualifications      string    `json:"qualifications"`
	ExperienceYears     int       `json:"experience_years" binding:"omitempty,min=0"`
	HospitalAffiliation string    `json:"hospital_affiliation"`
	LicenseNumber       string    `json:"license_number"`
	ConsultationFee     string    `json:"consultation_fee"`
	Bio                 string    `json:"bio"`
}

// UpdateDoctorRequest carries partial updates to a doctor profile.
type UpdateDoctorRequest struct {
	Specialty           *string  `json:"specialty"`
	Qualifications      *string  `json:"qualifications"`
	ExperienceYears     *int     `json:"experience_years" binding:"omitempty,min=0"`
	HospitalAffiliation *string  `json:"hospital_affiliation"`
	ConsultationFee     *string  `json:"consultation_fee"`
	Bio                 *string  `json:"bio"`
	IsAvailable         *bool    `json:"is_available"`
	Rating              *float64 `json:"rating" binding:"omitempty,min=0,max=5"`
}
