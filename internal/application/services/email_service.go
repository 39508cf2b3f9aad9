package services

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"

	"github.com/contactsapp/backend/internal/domain/models"
	"github.com/contactsapp/backend/pkg/constants"
)

//go:embed templates/*.html
var templateFS embed.FS

// EmailService renders and delivers transactional mail over SMTP
type EmailService struct {
	host      string
	port      int
	username  string
	password  string
	from      string
	fromName  string
	templates *template.Template
}

// NewEmailService creates an EmailService configured from the environment
func NewEmailService() *EmailService {
	port, err := strconv.Atoi(os.Getenv("MAIL_PORT"))
	if err != nil || port == 0 {
		port = 587
	}

	return &EmailService{
		host:      os.Getenv("MAIL_SERVER"),
		port:      port,
		username:  os.Getenv("MAIL_USERNAME"),
		password:  os.Getenv("MAIL_PASSWORD"),
		from:      os.Getenv("MAIL_FROM"),
		fromName:  "Contacts App",
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

// templateContext is the data handed to the mail templates
type templateContext struct {
	FullName  string
	BaseURL   string
	Token     string
	ResetLink string
}

// Send renders the template for kind and delivers it to the recipient
func (s *EmailService) Send(recipient, kind string, payload models.EmailPayload) error {
	var subject, tmplName string
	ctx := templateContext{
		FullName: payload.FullName,
		BaseURL:  payload.BaseURL,
		Token:    payload.Token,
	}

	switch kind {
	case constants.EmailKindConfirmation:
		subject = "Confirm your email"
		tmplName = "email_confirmation.html"
	case constants.EmailKindPasswordReset:
		subject = "Reset Your Password"
		tmplName = "password_reset.html"
		ctx.ResetLink = fmt.Sprintf("%s/api/auth/reset_password/%s", payload.BaseURL, payload.Token)
	default:
		return fmt.Errorf("unknown email kind: %s", kind)
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, tmplName, ctx); err != nil {
		return fmt.Errorf("failed to render template %s: %w", tmplName, err)
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", s.from, s.fromName)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body.String())

	dialer := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp delivery failed: %w", err)
	}
	return nil
}
