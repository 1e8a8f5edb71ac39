// Package email sends outreach mail through the configured SMTP relay.
package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/bloodlink/bloodlink-api/internal/config"
	"github.com/bloodlink/bloodlink-api/pkg/logger"
)

// Sender delivers a single message. Satisfied by the SMTP service and by
// test fakes.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

type Service struct {
	dialer *gomail.Dialer
	from   string
	logger *logger.Logger
}

func NewService(cfg config.SMTPConfig, logger *logger.Logger) *Service {
	return &Service{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

func (s *Service) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// OutreachBody renders the donor outreach message for an emergency
func OutreachBody(title, locationName string) string {
	return fmt.Sprintf(
		`<h2>%s</h2><p>An urgent donation request is active near you at <strong>%s</strong>. If you are able to donate, please respond through the BloodLink app or contact the facility directly.</p>`,
		title, locationName,
	)
}
