package mailer

import (
	"os"
	"strconv"

	"github.com/wneessen/go-mail"
)

type SendMailInput struct {
	To      string
	Subject string
	Body    string
}

// Send delivers a plain-text notification through the configured SMTP relay.
func Send(input *SendMailInput) error {
	from := os.Getenv("MAIL_FROM")
	host := os.Getenv("SMTP_HOST")
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}

	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return err
	}
	if err := m.To(input.To); err != nil {
		return err
	}
	m.Subject(input.Subject)
	m.SetBodyString(mail.TypeTextPlain, input.Body)

	c, err := mail.NewClient(host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(os.Getenv("SMTP_USER")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
	)
	if err != nil {
		return err
	}
	return c.DialAndSend(m)
}
