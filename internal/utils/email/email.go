package email

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
	"github.com/spendsense/spendsense/internal/config"
)

// Sender handles sending operator emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// Enabled reports whether SMTP delivery is configured.
func (s *Sender) Enabled() bool {
	return s.cfg.SMTPHost != "" && s.cfg.OperatorEmail != ""
}

// SendToneViolationAlert notifies the operator that the tone guardrail
// blocked a generated rationale. Best effort; the request path never waits
// on delivery success.
func (s *Sender) SendToneViolationAlert(userID, personaType string, violations []string) error {
	if !s.Enabled() {
		return nil
	}

	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{s.cfg.OperatorEmail}
	e.Subject = "Tone Guardrail Violation"

	body := fmt.Sprintf(
		"A generated rationale was blocked by the tone guardrail.\n\n"+
			"User: %s\n"+
			"Persona: %s\n"+
			"Matched patterns: %s\n"+
			"Time: %s\n\n"+
			"The rationale was suppressed and no partial text was returned. "+
			"Review the persona templates for this case.\n",
		userID, personaType, strings.Join(violations, ", "),
		time.Now().Format("2006-01-02 15:04:05"),
	)
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send tone violation alert for user %s: %v", userID, err)
		return fmt.Errorf("failed to send tone violation alert: %w", err)
	}

	s.logger.Infof("Tone violation alert sent to %s for user %s", s.cfg.OperatorEmail, userID)
	return nil
}
