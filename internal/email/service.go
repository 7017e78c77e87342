package email

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/medease/medease-api/internal/config"
)

type Service interface {
	SendWelcome(ctx context.Context, to string, name string) error
	SendAppointmentBooked(ctx context.Context, to string, doctorName string, when string) error
	SendAppointmentCancelled(ctx context.Context, to string, when string) error
	SendCustom(ctx context.Context, to string, subject string, content string) error
}

type smtpService struct {
	cfg  config.SMTPConfig
	dial func(m *gomail.Message) error
}

// NewService returns a gomail-backed sender, or a no-op sender when SMTP
// is disabled so callers never need to branch.
func NewService(cfg config.SMTPConfig) Service {
	if !cfg.Enabled {
		return &noopService{}
	}
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &smtpService{
		cfg: cfg,
		dial: func(m *gomail.Message) error {
			return dialer.DialAndSend(m)
		},
	}
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dial(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *smtpService) SendWelcome(_ context.Context, to string, name string) error {
	body := fmt.Sprintf("<p>Hi %s,</p><p>Welcome to MedEase. Your account is ready.</p>", name)
	return s.send(to, "Welcome to MedEase", body)
}

func (s *smtpService) SendAppointmentBooked(_ context.Context, to string, doctorName string, when string) error {
	body := fmt.Sprintf("<p>Your appointment with Dr. %s on %s is confirmed.</p>", doctorName, when)
	return s.send(to, "Appointment confirmed", body)
}

func (s *smtpService) SendAppointmentCancelled(_ context.Context, to string, when string) error {
	body := fmt.Sprintf("<p>Your appointment on %s has been cancelled.</p>", when)
	return s.send(to, "Appointment cancelled", body)
}

func (s *smtpService) SendCustom(_ context.Context, to string, subject string, content string) error {
	return s.send(to, subject, content)
}

type noopService struct{}

func (n *noopService) SendWelcome(context.Context, string, string) error { return nil }

func (n *noopService) SendAppointmentBooked(context.Context, string, string, string) error {
	return nil
}

func (n *noopService) SendAppointmentCancelled(context.Context, string, string) error { return nil }

func (n *noopService) SendCustom(context.Context, string, string, string) error { return nil }
