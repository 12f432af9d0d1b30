package service

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"os"

	"modiv-eventcraft/models"
	"modiv-eventcraft/utils"
)

// EmailConfig holds email configuration
type EmailConfig struct {
	Host       string
	Port       string
	User       string
	Password   string
	FromName   string
	VendorAddr string
	MockMode   bool
	LogEmails  bool
}

// LoadEmailConfigFromEnv loads email configuration from environment variables
func LoadEmailConfigFromEnv() EmailConfig {
	return EmailConfig{
		Host:       getEnvOrDefault("EMAIL_HOST", "smtp.gmail.com"),
		Port:       getEnvOrDefault("EMAIL_PORT", "587"),
		User:       os.Getenv("EMAIL_USER"),
		Password:   os.Getenv("EMAIL_PASSWORD"),
		FromName:   getEnvOrDefault("EMAIL_FROM_NAME", "Modiv EventCraft"),
		VendorAddr: os.Getenv("EMAIL_VENDOR_RECIPIENT"),
		MockMode:   os.Getenv("EMAIL_MOCK_MODE") == "true",
		LogEmails:  getEnvOrDefault("EMAIL_LOG_MODE", "true") == "true",
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Configured reports whether outgoing mail can actually be sent
func (c EmailConfig) Configured() bool {
	return c.User != "" && c.Password != ""
}

// EmailService sends inquiry notifications: a confirmation to the customer
// and an alert to the vendor inbox. Both are downstream side effects of a
// successful submission; failures are logged, never surfaced to the visitor.
type EmailService struct {
	config EmailConfig
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailService creates an EmailService with the given configuration
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{
		config: config,
		send:   smtp.SendMail,
	}
}

var customerTemplate = template.Must(template.New("customer").Parse(`
<h2>Thank you, {{.CustomerName}}!</h2>
<p>We received your quote request <strong>#{{.ShortID}}</strong>{{if .EventDate}} for your event on {{.EventDate}}{{end}}.</p>
<table border="0" cellpadding="4">
  <tr><th align="left">Item</th><th align="right">Qty</th><th align="right">Price</th></tr>
  {{range .Items}}<tr><td>{{.ItemName}}</td><td align="right">{{.Quantity}}</td><td align="right">{{.Price}}</td></tr>
  {{end}}
</table>
<p><strong>Estimated total: {{.Total}}</strong></p>
<p>Our team will contact you shortly to finalize the quotation.</p>
`))

var vendorTemplate = template.Must(template.New("vendor").Parse(`
<h2>New inquiry #{{.ShortID}}</h2>
<p><strong>{{.CustomerName}}</strong>{{if .Email}} &lt;{{.Email}}&gt;{{end}}{{if .Phone}}, {{.Phone}}{{end}}</p>
{{if .EventDate}}<p>Event date: {{.EventDate}}</p>{{end}}
{{if .EventLocation}}<p>Location: {{.EventLocation}}</p>{{end}}
<table border="0" cellpadding="4">
  <tr><th align="left">Item</th><th align="right">Qty</th><th align="right">Price</th></tr>
  {{range .Items}}<tr><td>{{.ItemName}}</td><td align="right">{{.Quantity}}</td><td align="right">{{.Price}}</td></tr>
  {{end}}
</table>
<p><strong>Estimated total: {{.Total}}</strong></p>
`))

type emailLine struct {
	ItemName string
	Quantity int
	Price    string
}

type emailData struct {
	ShortID       string
	CustomerName  string
	Email         string
	Phone         string
	EventDate     string
	EventLocation string
	Items         []emailLine
	Total         string
}

func buildEmailData(result *models.InquiryResult) emailData {
	data := emailData{
		ShortID:       shortID(result.ID),
		CustomerName:  result.CustomerName,
		Email:         result.Email,
		Phone:         result.Phone,
		EventDate:     result.EventDate,
		EventLocation: result.EventLocation,
		Total:         utils.FormatIDR(result.Total),
	}
	for _, item := range result.Items {
		data.Items = append(data.Items, emailLine{
			ItemName: item.ItemName,
			Quantity: item.Quantity,
			Price:    utils.FormatIDR(item.PriceAtTime),
		})
	}
	return data
}

// SendInquiryEmails sends both notifications for a persisted inquiry and
// reports whether at least one went out
func (s *EmailService) SendInquiryEmails(result *models.InquiryResult) bool {
	data := buildEmailData(result)
	sent := false

	if result.Email != "" {
		subject := fmt.Sprintf("Your quote request #%s", data.ShortID)
		if err := s.sendOne(result.Email, subject, customerTemplate, data); err != nil {
			log.Printf("⚠️  Customer email not sent: %v", err)
		} else {
			sent = true
		}
	}

	if s.config.VendorAddr != "" {
		subject := fmt.Sprintf("New inquiry #%s from %s", data.ShortID, result.CustomerName)
		if err := s.sendOne(s.config.VendorAddr, subject, vendorTemplate, data); err != nil {
			log.Printf("⚠️  Vendor email not sent: %v", err)
		} else {
			sent = true
		}
	}

	return sent
}

func (s *EmailService) sendOne(to string, subject string, tmpl *template.Template, data emailData) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render email body: %w", err)
	}

	if s.config.LogEmails {
		log.Printf("📧 Email to %s: %s", to, subject)
	}

	if s.config.MockMode {
		log.Printf("📧 Mock mode: skipping actual send to %s", to)
		return nil
	}

	if !s.config.Configured() {
		return fmt.Errorf("email credentials not configured")
	}

	msg := bytes.Buffer{}
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", s.config.FromName, s.config.User)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	addr := s.config.Host + ":" + s.config.Port
	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	if err := s.send(addr, auth, s.config.User, []string{to}, msg.Bytes()); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("✓ Email sent to %s", to)
	return nil
}

// shortID returns the uppercased first 8 characters of an inquiry id, the
// human-facing reference used in emails, CSV and quotations
func shortID(id string) string {
	if len(id) < 8 {
		return id
	}
	short := id[:8]
	out := make([]byte, 8)
	for i := 0; i < 8; i++ {
		c := short[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}
