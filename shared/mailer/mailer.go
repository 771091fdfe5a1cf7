package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

const defaultSendTimeout = 10 * time.Second

var ErrSendTimeout = errors.New("email transport timed out")

// Config holds SMTP configuration for sending emails.
type Config struct {
	Host     string        `env:"SMTP_HOST"     envDefault:"smtp.gmail.com"`
	Port     int           `env:"SMTP_PORT"     envDefault:"587"`
	Username string        `env:"SMTP_USERNAME"`
	Password string        `env:"SMTP_PASSWORD"`
	From     string        `env:"SMTP_FROM"     envDefault:"Islamic App <noreply@islamicapp.com>"`
	Timeout  time.Duration `env:"SMTP_TIMEOUT"  envDefault:"10s"`
}

// Validate checks if the Mailer configuration is usable.
func (c Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("missing SMTP_HOST environment variable")
	}
	if c.Port == 0 {
		return fmt.Errorf("missing SMTP_PORT environment variable")
	}
	if c.From == "" {
		return fmt.Errorf("missing SMTP_FROM environment variable")
	}

	return nil
}

// Email represents an email message.
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// Mailer sends email over SMTP.
type Mailer struct {
	config Config
	dialer *gomail.Dialer
	logger *zerolog.Logger
}

// NewMailer creates a new Mailer instance with the given configuration.
func NewMailer(cfg Config, logger *zerolog.Logger) *Mailer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSendTimeout
	}

	return &Mailer{
		config: cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: logger,
	}
}

// Send sends a single email. The call returns once the transport finishes, the
// configured timeout elapses or ctx is done, whichever comes first.
func (m *Mailer) Send(ctx context.Context, email Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	msg := gomail.NewMessage()
	m.setEmailMessage(msg, email)

	err := m.bounded(ctx, func() error { return m.dialer.DialAndSend(msg) })
	if err != nil {
		m.logger.Error().Err(err).Strs("to", email.To).Str("subject", email.Subject).Msg("failed to send email")
		return err
	}

	m.logger.Info().Strs("to", email.To).Str("subject", email.Subject).Msg("email sent")
	return nil
}

// SendHTML sends an HTML email with a plain-text alternative.
func (m *Mailer) SendHTML(ctx context.Context, to []string, subject, htmlBody, textBody string) error {
	return m.Send(ctx, Email{
		To:       to,
		Subject:  subject,
		Body:     textBody,
		HTMLBody: htmlBody,
	})
}

// Verify dials and authenticates against the SMTP server without sending anything.
func (m *Mailer) Verify(ctx context.Context) error {
	return m.bounded(ctx, func() error {
		sender, err := m.dialer.Dial()
		if err != nil {
			return err
		}
		return sender.Close()
	})
}

func (m *Mailer) bounded(ctx context.Context, fn func() error) error {
	ctx, cancel := context.WithTimeout(ctx, m.config.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- fn() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrSendTimeout
		}
		return ctx.Err()
	}
}

func (m *Mailer) setEmailMessage(msg *gomail.Message, email Email) {
	msg.SetHeader("From", m.config.From)
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)

	if email.HTMLBody != "" {
		msg.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			msg.AddAlternative("text/plain", email.Body)
		}
	} else {
		msg.SetBody("text/plain", email.Body)
	}
}
