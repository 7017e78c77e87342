package validator

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/medease/medease-api/internal/model"
)

// RegisterCustomValidations wires the domain enum checks into gin's
// binding validator. Must run once before routes are served.
func RegisterCustomValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation("appointment_type", validAppointmentType); err != nil {
		return err
	}
	if err := v.RegisterValidation("appointment_status", validAppointmentStatus); err != nil {
		return err
	}
	return v.RegisterValidation("severity", validSeverity)
}

// Type and status are matched case-insensitively; services uppercase
// the value before storing it.
func validAppointmentType(fl validator.FieldLevel) bool {
	return model.AppointmentType(strings.ToUpper(fl.Field().String())).Valid()
}

func validAppointmentStatus(fl validator.FieldLevel) bool {
	return model.AppointmentStatus(strings.ToUpper(fl.Field().String())).Valid()
}

func validSeverity(fl validator.FieldLevel) bool {
	switch model.ConditionSeverity(fl.Field().String()) {
	case model.SeverityLow, model.SeverityMedium, model.SeverityHigh:
		return true
	}
	return false
}
