package infra

import (
	"fmt"
	"net/smtp"

	"github.com/say-lem/Ventree-Backend-sub001/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for sending emails with PDF attachments.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// SendReceipt sends a PDF receipt to the customer email.
func (m *Mailer) SendReceipt(to, subject, body, pdfPath string) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}

// SendLowStockAlert emails the shop owner that an item crossed its reorder
// level. available == 0 renders as sold out.
func (m *Mailer) SendLowStockAlert(to, itemName string, available, reorderLevel int) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}

	if available <= 0 {
		e.Subject = fmt.Sprintf("Out of stock: %s", itemName)
		e.Text = []byte(fmt.Sprintf("%s is sold out. Restock to keep selling it.", itemName))
	} else {
		e.Subject = fmt.Sprintf("Low stock: %s", itemName)
		e.Text = []byte(fmt.Sprintf("%s is down to %d units (reorder level %d). Consider restocking soon.",
			itemName, available, reorderLevel))
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}
