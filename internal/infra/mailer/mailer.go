// Package mailer sends transactional email.
package mailer

import (
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Sender interface {
	Send(to, subject, htmlBody string) error
}

type SMTP struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTP(host string, port int, user, password, from string) *SMTP {
	return &SMTP{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

func (s *SMTP) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	return s.dialer.DialAndSend(m)
}

// Log writes mail to the logger instead of sending it. Used when SMTP is
// not configured.
type Log struct {
	log *zap.Logger
}

func NewLog(l *zap.Logger) *Log { return &Log{log: l} }

func (l *Log) Send(to, subject, htmlBody string) error {
	l.log.Info("mail not sent (no SMTP configured)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", htmlBody))
	return nil
}
