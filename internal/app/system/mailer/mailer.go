// internal/app/system/mailer/mailer.go
//
// Package mailer delivers outbound email over SMTP. Notification code
// talks to the Sender interface so tests can capture messages instead
// of dialing a server.
package mailer

import (
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// Email is one outbound message. HTMLBody is optional; when present it
// is attached as the text/html alternative.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers a single email.
type Sender interface {
	Send(email Email) error
}

// Mailer sends email through an SMTP relay.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	log    *zap.Logger
}

func New(host string, port int, username, password, from string, log *zap.Logger) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		log:    log,
	}
}

func (m *Mailer) Send(email Email) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email.To)
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/plain", email.TextBody)
	if email.HTMLBody != "" {
		msg.AddAlternative("text/html", email.HTMLBody)
	}
	if err := m.dialer.DialAndSend(msg); err != nil {
		m.log.Error("send email",
			zap.String("to", email.To),
			zap.String("subject", email.Subject),
			zap.Error(err))
		return err
	}
	return nil
}

// SendBatch delivers each email on one SMTP connection. Individual
// failures are logged and skipped; the last error is returned.
func (m *Mailer) SendBatch(emails []Email) error {
	if len(emails) == 0 {
		return nil
	}
	sc, err := m.dialer.Dial()
	if err != nil {
		m.log.Error("dial smtp", zap.Error(err))
		return err
	}
	defer sc.Close()

	var lastErr error
	for _, email := range emails {
		msg := gomail.NewMessage()
		msg.SetHeader("From", m.from)
		msg.SetHeader("To", email.To)
		msg.SetHeader("Subject", email.Subject)
		msg.SetBody("text/plain", email.TextBody)
		if email.HTMLBody != "" {
			msg.AddAlternative("text/html", email.HTMLBody)
		}
		if err := gomail.Send(sc, msg); err != nil {
			m.log.Error("send email",
				zap.String("to", email.To),
				zap.String("subject", email.Subject),
				zap.Error(err))
			lastErr = err
		}
	}
	return lastErr
}
