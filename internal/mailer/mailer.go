package mailer

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"

	mail "github.com/go-mail/mail"
	"github.com/sirupsen/logrus"
)

// Sender delivers a single email. The delivery service and the auth flows
// depend on this interface; production uses SMTPSender.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender sends mail over SMTP using go-mail
type SMTPSender struct {
	host string
	port int
	from string
	user string
	pass string
	ssl  bool
}

// NewSMTPSenderFromEnv builds an SMTPSender from SMTP_* environment variables
func NewSMTPSenderFromEnv() (*SMTPSender, error) {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil, fmt.Errorf("SMTP_HOST is not set")
	}
	port := 587
	if p := os.Getenv("SMTP_PORT"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT %q: %w", p, err)
		}
		port = parsed
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USER")
	}

	return &SMTPSender{
		host: host,
		port: port,
		from: from,
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASSWORD"),
		ssl:  os.Getenv("SMTP_SSL") == "true",
	}, nil
}

// Send sends a plain-text email to a single recipient
func (s *SMTPSender) Send(to, subject, body string) error {
	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := mail.NewDialer(s.host, s.port, s.user, s.pass)
	d.SSL = s.ssl
	d.TLSConfig = &tls.Config{ServerName: s.host}

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}

	logrus.Debugf("Mail sent to %s: %s", to, subject)
	return nil
}
