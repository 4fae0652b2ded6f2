package mailer

import (
	"log"

	"serene/config"

	mail "gopkg.in/mail.v2"
)

// Mailer sends through the external SMTP relay. With no SMTP host
// configured it logs instead of sending, which keeps local development
// working without a relay.
type Mailer struct {
	dialer *mail.Dialer
	from   string
}

func New(cfg config.Config) *Mailer {
	m := &Mailer{from: cfg.MailFrom}
	if cfg.SMTPHost != "" {
		m.dialer = mail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	}
	return m
}

func (m *Mailer) Send(to, subject, body string) error {
	if m.dialer == nil {
		log.Printf("mailer (dry run) to=%s subject=%q: %s", to, subject, body)
		return nil
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.dialer.DialAndSend(msg)
}

// SendAsync fires the mail off without blocking the request path.
func (m *Mailer) SendAsync(to, subject, body string) {
	go func() {
		if err := m.Send(to, subject, body); err != nil {
			log.Printf("mailer: send to %s failed: %v", to, err)
		}
	}()
}
