package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional mail over SMTP.
type Mailer interface {
	SendPasswordReset(to, link string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, user, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

func (m *SMTPMailer) SendPasswordReset(to, link string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Recuperación de contraseña")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Recibimos un pedido para restablecer tu contraseña.\n\n"+
			"Abrí este enlace para elegir una nueva (vence en 1 hora):\n%s\n\n"+
			"Si no fuiste vos, ignorá este correo.", link))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send password reset mail: %w", err)
	}
	return nil
}
