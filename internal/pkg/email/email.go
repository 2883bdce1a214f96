package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Attachment is a file sent along with a message
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is a single outbound email
type Message struct {
	To          string
	ToName      string
	Subject     string
	HTMLBody    string
	TextBody    string
	Attachments []Attachment
}

// Sender delivers messages through one transport
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Driver names accepted in configuration
const (
	DriverSMTP     = "smtp"
	DriverSendGrid = "sendgrid"
	DriverLog      = "log"
)

// Config selects and configures the transport
type Config struct {
	Driver      string
	FromName    string
	FromEmail   string
	SendGridKey string
	SMTP        SMTPConfig
}

// NewSender returns the Sender configured by cfg. SMTP without credentials and
// SendGrid without a key fall back to logging so development setups work offline.
func NewSender(cfg Config, logger zerolog.Logger) Sender {
	switch strings.ToLower(cfg.Driver) {
	case DriverSendGrid:
		if cfg.SendGridKey == "" {
			logger.Warn().Msg("SendGrid key not configured, emails will only be logged")
			return NewLogSender(logger)
		}
		return NewSendGridSender(cfg.SendGridKey, cfg.FromName, cfg.FromEmail, logger)
	case DriverLog:
		return NewLogSender(logger)
	default:
		smtpCfg := cfg.SMTP
		if smtpCfg.FromEmail == "" {
			smtpCfg.FromEmail = cfg.FromEmail
		}
		if smtpCfg.FromName == "" {
			smtpCfg.FromName = cfg.FromName
		}
		if smtpCfg.Username == "" || smtpCfg.Password == "" {
			logger.Warn().Msg("SMTP credentials not configured, emails will only be logged")
			return NewLogSender(logger)
		}
		return NewSMTPSender(smtpCfg, logger)
	}
}

// LogSender writes messages to the log instead of delivering them
type LogSender struct {
	logger zerolog.Logger
}

// NewLogSender creates a LogSender
func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the message envelope
func (s *LogSender) Send(_ context.Context, msg Message) error {
	names := make([]string, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		names = append(names, a.Filename)
	}
	s.logger.Warn().
		Str("toEmail", msg.To).
		Str("subject", msg.Subject).
		Strs("attachments", names).
		Msg("Email delivery disabled - message not sent")
	return nil
}

func validate(msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("email recipient is required")
	}
	if msg.HTMLBody == "" && msg.TextBody == "" && len(msg.Attachments) == 0 {
		return fmt.Errorf("email has no content")
	}
	return nil
}
