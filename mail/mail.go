// Package mail sends transactional mail over SMTP.
package mail

import (
	"fmt"
	"net"
	"net/smtp"

	"campwild/config"
)

// Mailer is the narrow interface handlers depend on.
type Mailer interface {
	SendPasswordReset(to, link string) error
}

// SMTPSender delivers through a plain SMTP relay. No mail library exists in
// the dependency set; net/smtp covers the single message shape we send.
type SMTPSender struct {
	host     string
	port     string
	user     string
	password string
	from     string
}

func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
	}
}

func (s *SMTPSender) SendPasswordReset(to, link string) error {
	body := fmt.Sprintf(
		"You are receiving this because you (or someone else) requested a password reset for your account.\r\n\r\n"+
			"Follow this link to complete the process within one hour:\r\n\r\n%s\r\n\r\n"+
			"If you did not request this, ignore this email and your password will remain unchanged.\r\n", link)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: CampWild password reset\r\n\r\n%s", s.from, to, body)

	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.password, s.host)
	}

	addr := net.JoinHostPort(s.host, s.port)
	return smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg))
}
