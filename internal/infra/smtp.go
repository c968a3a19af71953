package infra

import (
	"bytes"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"

	"achatshub/internal/config"
)

// Mailer wraps SMTP configuration for sending emails with PDF attachments.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	from     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		from:     cfg.SMTPUser,
	}
}

// Envoyer sends the rendered bon de commande as a PDF attachment.
func (m *Mailer) Envoyer(to []string, sujet, corps string, piece []byte, nomFichier string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = to
	e.Subject = sujet
	e.Text = []byte(corps)

	if len(piece) > 0 {
		if _, err := e.Attach(bytes.NewReader(piece), nomFichier, "application/pdf"); err != nil {
			return fmt.Errorf("mailer: pièce jointe: %w", err)
		}
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}
