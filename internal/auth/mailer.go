package auth

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog/log"

	"profitpulse-backend/internal/config"
)

// Mailer delivers password reset links. Delivery is an external
// collaborator; the reset flow only depends on this interface.
type Mailer interface {
	SendPasswordReset(to, resetURL string) error
}

// SMTPMailer sends the reset mail through a plain-auth SMTP relay.
type SMTPMailer struct {
	host string
	port string
	user string
	pass string
	from string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUsername,
		pass: cfg.SMTPPassword,
		from: cfg.SMTPFrom,
	}
}

func (m *SMTPMailer) SendPasswordReset(to, resetURL string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = "Password Reset Request for ProfitPulse"
	e.HTML = []byte(fmt.Sprintf(
		`<p>You are receiving this email because a password reset was requested for your account.</p>`+
			`<p>Please click the following link to complete the process:</p>`+
			`<p><a href="%s">%s</a></p>`+
			`<p>This link will expire in 10 minutes. If you did not request this, you can ignore this email.</p>`,
		resetURL, resetURL))

	addr := m.host + ":" + m.port
	return e.Send(addr, smtp.PlainAuth("", m.user, m.pass, m.host))
}

// LogMailer is used when SMTP is not configured; it only logs the
// reset link so local development still works.
type LogMailer struct{}

func (LogMailer) SendPasswordReset(to, resetURL string) error {
	log.Info().Str("to", to).Str("url", resetURL).Msg("password reset mail (SMTP not configured)")
	return nil
}

// NewMailer picks the SMTP mailer when configured, the log mailer
// otherwise.
func NewMailer(cfg *config.Config) Mailer {
	if cfg.SMTPHost == "" {
		return LogMailer{}
	}
	return NewSMTPMailer(cfg)
}
