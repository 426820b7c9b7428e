package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/fixcars/fixcars-service/internal/router/config"
)

// Sender delivers transactional email. Implementations must be safe for
// concurrent use.
type Sender interface {
	SendOTP(email, otp string) error
	SendWelcome(email, userName string) error
	SendPasswordReset(email, resetToken, userName string) error
}

// SMTPSender sends mail through a plain SMTP relay.
type SMTPSender struct {
	host string
	port string
	user string
	pass string
	from string
	base string
}

// NewSMTPSender creates a Sender from the application config.
func NewSMTPSender(cfg config.Config) *SMTPSender {
	return &SMTPSender{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.EmailFrom,
		base: cfg.BaseURL,
	}
}

func (s *SMTPSender) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		s.from, to, subject, body)

	addr := s.host + ":" + s.port
	auth := smtp.PlainAuth("", s.user, s.pass, s.host)
	return smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg))
}

// SendOTP emails a verification code. Codes expire after ten minutes.
func (s *SMTPSender) SendOTP(email, otp string) error {
	body := fmt.Sprintf(`Bun venit la FixCars!

Mulțumim că ți-ai creat contul pe FixCars.ro. Pentru a-ți finaliza înregistrarea, te rugăm să folosești codul de verificare de mai jos:

%s

Important:
- Acest cod va expira în 10 minute
- Nu împărtăși acest cod cu nimeni
- Dacă nu ai solicitat acest cod, te rugăm să ignori acest email

Cu stimă,
Echipa FixCars.ro
`, otp)
	return s.send(email, "Codul tău de verificare FixCars", body)
}

// SendWelcome emails a short greeting after successful verification.
func (s *SMTPSender) SendWelcome(email, userName string) error {
	body := fmt.Sprintf(`Salut %s,

Mulțumim că te-ai alăturat FixCars.ro. Suntem încântați să te avem cu noi!

Cu stimă,
Echipa FixCars.ro
`, userName)
	return s.send(email, "Bun venit la FixCars.ro!", body)
}

// SendPasswordReset emails a reset link. Links expire after one hour.
func (s *SMTPSender) SendPasswordReset(email, resetToken, userName string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.base, resetToken)
	body := fmt.Sprintf(`Salut %s!

Am primit o solicitare de resetare a parolei pentru contul tău FixCars.ro.
Dacă ai fost tu cel care a făcut această solicitare, folosește link-ul de mai jos pentru a-ți reseta parola:

%s

IMPORTANT:
- Acest link va expira în 1 oră din motive de securitate
- Dacă nu ai solicitat resetarea parolei, te rugăm să ignori acest email

Cu stimă,
Echipa FixCars.ro
`, userName, resetURL)
	return s.send(email, "Resetare Parolă - FixCars.ro", body)
}
