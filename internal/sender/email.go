package sender

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"storefront-service/config"

	gopkgmail "gopkg.in/gomail.v2"
)

type EmailNotification struct {
	To       string
	Subject  string
	Template string         // имя шаблона (например, "order_created")
	Data     map[string]any // данные для шаблона
}

type EmailSender struct {
	cfg *config.Config
}

func NewEmailSender(cfg *config.Config) *EmailSender {
	return &EmailSender{cfg: cfg}
}

func (s *EmailSender) SendEmail(n EmailNotification) error {
	htmlBody, err := s.render(n.Template+".html", n.Data)
	if err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	plainBody, err := s.render(n.Template+".txt", n.Data)
	if err != nil {
		return fmt.Errorf("render plain: %w", err)
	}

	m := gopkgmail.NewMessage()
	m.SetHeader("From", s.cfg.SMTP.From)
	m.SetHeader("To", n.To)
	m.SetHeader("Subject", n.Subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	d := gopkgmail.NewDialer(s.cfg.SMTP.Host, s.cfg.SMTP.Port, s.cfg.SMTP.User, s.cfg.SMTP.Password)
	d.SSL = true
	return d.DialAndSend(m)
}

func (s *EmailSender) render(tmplFile string, data map[string]any) (string, error) {
	path := filepath.Join(s.cfg.TMPLDir, tmplFile)
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	tmpl, err := template.New(tmplFile).Parse(string(content))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
