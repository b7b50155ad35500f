package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendWelcome(ctx context.Context, to string, name string) error {
	body := fmt.Sprintf("Bonjour %s,<br><br>Welcome to CityHealth. Your account is ready.", name)
	return s.send(ctx, to, "Welcome to CityHealth", body)
}

func (s *smtpService) SendVerificationApproved(ctx context.Context, to string, businessName string) error {
	body := fmt.Sprintf("Your listing <b>%s</b> has been verified. The verified badge now shows on your profile.", businessName)
	return s.send(ctx, to, "Your CityHealth listing is verified", body)
}

func (s *smtpService) SendVerificationRejected(ctx context.Context, to string, businessName string, reason string) error {
	body := fmt.Sprintf("Your verification request for <b>%s</b> was not approved.", businessName)
	if reason != "" {
		body += fmt.Sprintf("<br><br>Reason: %s", reason)
	}
	body += "<br><br>You can update your documents and submit a new request."
	return s.send(ctx, to, "Your CityHealth verification request", body)
}

func (s *smtpService) SendCustom(ctx context.Context, to string, subject string, content string) error {
	return s.send(ctx, to, subject, content)
}

func (s *smtpService) send(_ context.Context, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// NoopService discards all mail. Used when SMTP is not configured.
type NoopService struct{}

func (NoopService) SendWelcome(context.Context, string, string) error { return nil }

func (NoopService) SendVerificationApproved(context.Context, string, string) error { return nil }

func (NoopService) SendVerificationRejected(context.Context, string, string, string) error {
	return nil
}

func (NoopService) SendCustom(context.Context, string, string, string) error { return nil }
