package mail

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/mrlokans/identity/internal/config"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer delivers messages through an SMTP relay.
type SMTPMailer struct {
	addr string
	host string
	from string
	auth smtp.Auth
	send sendFunc
}

func NewSMTPMailer(cfg config.Mail) *SMTPMailer {
	m := &SMTPMailer{
		addr: net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort)),
		host: cfg.SMTPHost,
		from: cfg.From,
		send: smtp.SendMail,
	}
	if cfg.SMTPUsername != "" {
		m.auth = smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return m
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.ContainsAny(msg.To, "\r\n") || strings.ContainsAny(msg.Subject, "\r\n") {
		return fmt.Errorf("mail headers must not contain line breaks")
	}

	if err := m.send(m.addr, m.auth, m.from, []string{msg.To}, m.render(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", msg.To, err)
	}
	return nil
}

func (m *SMTPMailer) render(msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + m.from + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}
