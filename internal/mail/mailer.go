package mail

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/gomail.v2"
)

// Message is a single outgoing email
type Message struct {
	To      string
	Subject string
	Body    string
	HTML    bool
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer delivers mail through an SMTP relay, one connection per message
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	logger hclog.Logger
}

func NewSMTPMailer(cfg SMTPConfig, logger hclog.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := m.dialer.DialAndSend(buildMessage(m.from, msg)); err != nil {
		m.logger.Error("Failed to send email", "to", msg.To, "subject", msg.Subject, "error", err)
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}

	m.logger.Debug("Email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

func buildMessage(from string, msg Message) *gomail.Message {
	gm := gomail.NewMessage()
	gm.SetHeader("From", from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	if msg.HTML {
		gm.SetBody("text/html", msg.Body)
	} else {
		gm.SetBody("text/plain", msg.Body)
	}
	return gm
}

// LogMailer writes messages to the log instead of sending them.
// Used when no SMTP relay is configured.
type LogMailer struct {
	logger hclog.Logger
}

func NewLogMailer(logger hclog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("Email (not sent, no SMTP relay)", "to", msg.To, "subject", msg.Subject)
	m.logger.Debug("Email body", "body", msg.Body)
	return nil
}
