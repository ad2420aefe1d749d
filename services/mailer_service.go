package services

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"

	"github.com/soluxsolar/solux-store/models"
)

// Mailer sends transactional mail. Delivery is always best-effort and runs
// on the outbox, never on the request path.
type Mailer interface {
	SendInvoice(order *models.Order, pdf []byte, filename string) error
	SendConsultationAlert(consult *models.Consultation) error
}

// SMTPConfig holds the mail transport settings.
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	FromName   string
	SalesInbox string
}

// SMTPConfigFromEnv loads mail settings from the environment.
func SMTPConfigFromEnv() *SMTPConfig {
	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil {
		port = p
	}
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	user := os.Getenv("EMAIL_USER")
	return &SMTPConfig{
		Host:       host,
		Port:       port,
		Username:   user,
		Password:   os.Getenv("EMAIL_PASS"),
		FromName:   "Solux Solar",
		SalesInbox: user,
	}
}

// SMTPMailer sends mail over SMTP using gomail.
type SMTPMailer struct {
	config *SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPMailer(config *SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

// SendInvoice mails the invoice PDF to the order's customer, with a copy to
// the sales inbox.
func (sm *SMTPMailer) SendInvoice(order *models.Order, pdf []byte, filename string) error {
	customer := order.Customer
	name := customer.Name
	if name == "" {
		name = "Customer"
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", sm.config.Username, sm.config.FromName)
	m.SetHeader("To", customer.Email)
	m.SetHeader("Bcc", sm.config.SalesInbox)
	m.SetHeader("Subject", fmt.Sprintf("Invoice #%s", order.ShortID()))
	m.SetBody("text/plain", fmt.Sprintf(
		"Dear %s,\n\nThank you for choosing Solux Solar! Please find your official invoice attached.\n\nBest regards,\nThe Solux Solar Team", name))
	m.Attach(filename, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(pdf)
		return err
	}))

	return sm.dialer.DialAndSend(m)
}

// SendConsultationAlert notifies the sales inbox about a new consultation
// request.
func (sm *SMTPMailer) SendConsultationAlert(consult *models.Consultation) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", sm.config.Username, sm.config.FromName)
	m.SetHeader("To", sm.config.SalesInbox)
	m.SetHeader("Subject", fmt.Sprintf("New Consult: %s", consult.Name))
	m.SetBody("text/plain", fmt.Sprintf("%s | %s\n%s", consult.Name, consult.Phone, consult.Address))

	return sm.dialer.DialAndSend(m)
}
