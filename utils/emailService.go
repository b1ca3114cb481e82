package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"lms/config"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer delivers one HTML email
type Mailer interface {
	Send(toEmail, toName, subject, plain, html string) error
}

// SendgridMailer sends through the SendGrid v3 API
type SendgridMailer struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func (m *SendgridMailer) Send(toEmail, toName, subject, plain, html string) error {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plain, html)

	resp, err := sendgrid.NewSendClient(m.apiKey).Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid responded %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// DefaultMailer is nil when no SendGrid key is configured; emails are then skipped
var DefaultMailer Mailer

// InitMailer builds DefaultMailer from configuration
func InitMailer(cfg *config.Config) {
	if cfg.SendgridApiKey == "" {
		log.Println("[EMAIL] SENDGRID_API_KEY not set, emails are disabled")
		DefaultMailer = nil
		return
	}
	DefaultMailer = &SendgridMailer{
		apiKey:    cfg.SendgridApiKey,
		fromEmail: cfg.EmailSender,
		fromName:  cfg.EmailSenderName,
	}
}

var emailLayout = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
		<h2 style="color: #333333; text-align: center;">{{.Title}}</h2>
		<p style="font-size: 16px; color: #555555;">Dear {{.Name}},</p>
		{{range .Lines}}<p style="font-size: 15px; color: #555555;">{{.}}</p>{{end}}
		{{if .Highlight}}<h3 style="text-align: center; color: #4CAF50; margin: 20px 0;">{{.Highlight}}</h3>{{end}}
		<p style="text-align: center; font-size: 12px; color: #bbbbbb; margin-top: 30px;">Happy Learning!</p>
	</div>
</body>
</html>`))

type emailData struct {
	Title     string
	Name      string
	Lines     []string
	Highlight string
}

func renderEmail(d emailData) (string, error) {
	var buf bytes.Buffer
	if err := emailLayout.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func sendEmail(toEmail, toName, subject string, d emailData) error {
	if DefaultMailer == nil {
		return nil
	}
	html, err := renderEmail(d)
	if err != nil {
		return fmt.Errorf("render email: %w", err)
	}
	plain := d.Title
	for _, l := range d.Lines {
		plain += "\n" + l
	}
	if d.Highlight != "" {
		plain += "\n" + d.Highlight
	}
	if err := DefaultMailer.Send(toEmail, toName, subject, plain, html); err != nil {
		log.Printf("[EMAIL] Failed to send %q to %s: %v", subject, toEmail, err)
		return err
	}
	log.Printf("[EMAIL] Sent %q to %s", subject, toEmail)
	return nil
}

// SendWelcomeEmail greets a newly registered user
func SendWelcomeEmail(email, name string) error {
	return sendEmail(email, name, "Welcome to the LMS", emailData{
		Title: "Welcome Onboard!",
		Name:  name,
		Lines: []string{
			"Your account has been created successfully.",
			"Browse the catalog and start learning whenever you are ready.",
		},
	})
}

// SendEnrollmentEmail confirms a purchase and enrollment
func SendEnrollmentEmail(email, name, courseTitle string, amount float64) error {
	return sendEmail(email, name, "Course Enrollment Confirmation", emailData{
		Title: "Enrollment Successful!",
		Name:  name,
		Lines: []string{
			fmt.Sprintf("We received your payment of INR %.2f. You are now enrolled in:", amount),
		},
		Highlight: courseTitle,
	})
}
