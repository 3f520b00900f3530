// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/your-org/biolab-backend/internal/config"
)

// EmailService handles all email operations
type EmailService struct {
	config *config.Config
	client *http.Client
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		config: cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SendEmail sends an email using the configured provider
func (s *EmailService) SendEmail(ctx context.Context, email *Email) error {
	switch s.config.Email.Provider {
	case "smtp":
		return s.sendSMTPEmail(email)
	case "resend":
		return s.sendResendEmail(ctx, email)
	default:
		return fmt.Errorf("unsupported email provider: %s", s.config.Email.Provider)
	}
}

var stockAlertTemplate = template.Must(template.New("stock_alert").Parse(`
<html>
<body style="font-family: Arial, sans-serif;">
  <h2>Stock bajo: {{.SupplyName}}</h2>
  <p>El insumo <strong>{{.SupplyName}}</strong> está por debajo del mínimo configurado.</p>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><td><strong>Disponible</strong></td><td>{{.Available}} {{.Unit}}</td></tr>
    <tr><td><strong>Mínimo</strong></td><td>{{.Minimum}} {{.Unit}}</td></tr>
  </table>
  <p>Registre una nueva recepción de stock para continuar produciendo.</p>
</body>
</html>`))

// SendStockAlert sends a low stock alert to the configured recipients
func (s *EmailService) SendStockAlert(ctx context.Context, recipients []string, data StockAlertData) error {
	var body bytes.Buffer
	if err := stockAlertTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render stock alert template: %w", err)
	}

	email := &Email{
		To:          recipients,
		Subject:     fmt.Sprintf("Stock bajo: %s (%s %s restantes)", data.SupplyName, data.Available, data.Unit),
		HTMLContent: body.String(),
		Type:        EmailTypeStockAlert,
	}

	return s.SendEmail(ctx, email)
}

// sendResendEmail sends email using the Resend HTTP API
func (s *EmailService) sendResendEmail(ctx context.Context, email *Email) error {
	if s.config.Email.APIKey == "" {
		return fmt.Errorf("resend provider requires EMAIL_API_KEY")
	}

	payload := fmt.Sprintf(`{"from":%q,"to":%q,"subject":%q,"html":%q}`,
		fmt.Sprintf("%s <%s>", s.config.Email.FromName, s.config.Email.FromEmail),
		email.To[0], email.Subject, email.HTMLContent)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.resend.com/emails", bytes.NewBufferString(payload))
	if err != nil {
		return fmt.Errorf("failed to build resend request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.Email.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("resend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("resend API returned status %d", resp.StatusCode)
	}

	return nil
}
