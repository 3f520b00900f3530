// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/biolab-backend/internal/config"
	"github.com/your-org/biolab-backend/internal/domain/lot"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// LabInfo contains laboratory letterhead information
type LabInfo struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// LotReportData contains the data rendered into a lot report
type LotReportData struct {
	ReportNumber  string
	ReportDate    string
	Lot           *lot.ProductionLot
	AvailableBags int
	Microorganism string
	Events        []lot.BagConsumptionEvent
	Lab           LabInfo
}

// GenerateLotReport generates a PDF production report for a lot
func (s *Service) GenerateLotReport(l *lot.ProductionLot, availableBags int, microorganism string, events []lot.BagConsumptionEvent) (*bytes.Buffer, error) {
	data := LotReportData{
		ReportNumber:  fmt.Sprintf("REP-%s", l.LotCode),
		ReportDate:    time.Now().Format("January 2, 2006"),
		Lot:           l,
		AvailableBags: availableBags,
		Microorganism: microorganism,
		Events:        events,
		Lab: LabInfo{
			Name:    s.config.App.LabName,
			Address: s.config.App.LabAddress,
			Phone:   s.config.App.LabPhone,
			Email:   s.config.App.LabEmail,
		},
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfg.Buffer(), nil
}

func (s *Service) generateHTML(data LotReportData) (string, error) {
	tmpl, err := template.New("lot_report").Parse(lotReportTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse report template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute report template: %w", err)
	}

	return buf.String(), nil
}

const lotReportTemplate = `
<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Arial, sans-serif; font-size: 12px; color: #222; }
  .header { border-bottom: 2px solid #2c3e50; padding-bottom: 10px; margin-bottom: 20px; }
  .header h1 { margin: 0; font-size: 20px; color: #2c3e50; }
  .meta { color: #666; }
  table { width: 100%; border-collapse: collapse; margin-top: 10px; }
  th, td { border: 1px solid #ccc; padding: 6px 8px; text-align: left; }
  th { background: #f4f6f8; }
  .summary td { font-weight: bold; }
</style>
</head>
<body>
  <div class="header">
    <h1>{{.Lab.Name}}</h1>
    <div class="meta">{{.Lab.Address}} · {{.Lab.Phone}} · {{.Lab.Email}}</div>
  </div>

  <h2>Reporte de lote {{.Lot.LotCode}}</h2>
  <div class="meta">{{.ReportNumber}} — {{.ReportDate}}</div>

  <table>
    <tr><th>Microorganismo</th><td>{{.Microorganism}}</td></tr>
    <tr><th>Estado</th><td>{{.Lot.State}}</td></tr>
    <tr><th>Bolsas iniciales</th><td>{{.Lot.InitialBagCount}}</td></tr>
    <tr><th>Bolsas disponibles</th><td>{{.AvailableBags}}</td></tr>
    <tr><th>Inoculado</th><td>{{.Lot.CreatedAt.Format "2006-01-02"}}</td></tr>
    {{if .Lot.RefrigeratedAt}}<tr><th>Refrigerado</th><td>{{.Lot.RefrigeratedAt.Format "2006-01-02"}}</td></tr>{{end}}
  </table>

  <h3>Movimientos</h3>
  <table>
    <tr><th>Fecha</th><th>Propósito</th><th>Bolsas</th><th>Notas</th></tr>
    {{range .Events}}
    <tr>
      <td>{{.OccurredAt.Format "2006-01-02 15:04"}}</td>
      <td>{{.PurposeType}}</td>
      <td>{{.Quantity}}</td>
      <td>{{.Notes}}</td>
    </tr>
    {{end}}
  </table>
</body>
</html>`
