package mail

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/leadflow/internal/infra/queue"
)

func NewEmailSender(host string, port int, user, password, salesInbox string) *EmailSender {
	return &EmailSender{
		Host:       host,
		Port:       port,
		User:       user,
		Password:   password,
		SalesInbox: salesInbox,
	}
}

// SendHotLeadAlert emails the sales inbox about a freshly rated HOT
// lead. Implements queue.AlertSender.
func (s *EmailSender) SendHotLeadAlert(payload queue.HotLeadPayload) error {
	data := HotLeadEmailData{
		Name:        payload.Name,
		Company:     payload.Company,
		Email:       payload.Email,
		Phone:       payload.Phone,
		Income:      fmt.Sprintf("%.2f", float64(payload.MonthlyIncomeCents)/100.0),
		FollowUpDue: time.Now().Format("2006-01-02"),
	}

	tmplPath := filepath.Join("templates", "hot_lead_alert.html")
	t, err := template.ParseFiles(tmplPath)
	if err != nil {
		return fmt.Errorf("failed to read email template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", "no-reply@leadflow.app")
	m.SetHeader("To", s.SalesInbox)
	m.SetHeader("Subject", fmt.Sprintf("🔥 Hot lead: %s (%s) — follow up today", payload.Name, payload.Company))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send SMTP email: %w", err)
	}

	return nil
}
