// internal/pkg/email/types.go
package email

// EmailType represents the type of email being sent
type EmailType string

const (
	EmailTypeStockAlert   EmailType = "stock_alert"
	EmailTypeLotDepleted  EmailType = "lot_depleted"
	EmailTypePasswordInfo EmailType = "password_info"
)

// Email represents an email message
type Email struct {
	To          []string  `json:"to"`
	Subject     string    `json:"subject"`
	HTMLContent string    `json:"html_content"`
	TextContent string    `json:"text_content,omitempty"`
	Type        EmailType `json:"type"`
}

// StockAlertData contains data for low stock alert emails
type StockAlertData struct {
	SupplyName string
	Available  string
	Minimum    string
	Unit       string
}

// LotDepletedData contains data for lot depletion notifications
type LotDepletedData struct {
	LotCode       string
	Microorganism string
}
