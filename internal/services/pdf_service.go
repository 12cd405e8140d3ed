package services

import (
	"bytes"
	"fmt"
	"strings"

	"account-research-report/internal/models"

	"github.com/jung-kurt/gofpdf/v2"
)

// PDFService renders assembled reports to PDF
type PDFService struct{}

// NewPDFService creates a new PDF service
func NewPDFService() *PDFService {
	return &PDFService{}
}

// RenderReport renders a report to PDF bytes
func (s *PDFService) RenderReport(report *models.Report) ([]byte, error) {
	if report == nil || len(report.Sections) == 0 {
		return nil, fmt.Errorf("invalid report data")
	}

	// Create PDF document (A4, portrait)
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)

	// Set total page count alias for footer
	pdf.AliasNbPages("{nb}")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(108, 117, 125) // Gray
		pdf.SetX(15)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	// Title page
	pdf.AddPage()
	pdf.Ln(60)
	pdf.SetFont("Arial", "B", 24)
	pdf.SetTextColor(0, 102, 204) // Blue
	pdf.CellFormat(0, 20, "Account Research Report", "", 0, "C", false, 0, "")

	pdf.Ln(18)
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41) // Dark gray
	pdf.CellFormat(0, 10, report.TargetCompany, "", 0, "C", false, 0, "")

	pdf.Ln(12)
	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(108, 117, 125)
	pdf.CellFormat(0, 8, fmt.Sprintf("Prepared for %s", report.UserCompany), "", 0, "C", false, 0, "")
	pdf.Ln(8)
	pdf.CellFormat(0, 8, fmt.Sprintf("Language: %s", report.Language), "", 0, "C", false, 0, "")
	pdf.Ln(8)
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated: %s", report.GeneratedAt.Format("2006-01-02 15:04")), "", 0, "C", false, 0, "")

	for _, section := range report.Sections {
		pdf.AddPage()
		s.addSectionHeader(pdf, section.Title)

		if section.Error != "" {
			pdf.SetFont("Arial", "I", 10)
			pdf.SetTextColor(176, 42, 55) // Red
			pdf.MultiCell(180, 6, fmt.Sprintf("This section could not be generated: %s", section.Error), "", "L", false)
			continue
		}

		s.addSectionBody(pdf, section.Content)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

// addSectionHeader adds a section title with an underline rule
func (s *PDFService) addSectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(33, 37, 41) // Dark gray
	pdf.CellFormat(0, 10, title, "", 0, "L", false, 0, "")

	pdf.Ln(10)
	pdf.SetLineWidth(0.5)
	pdf.SetDrawColor(0, 102, 204) // Blue
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(8)
}

// addSectionBody lays out generated markdown line by line. Markdown is kept
// simple on purpose: headings become bold lines, list markers become bullets,
// everything else flows as body text.
func (s *PDFService) addSectionBody(pdf *gofpdf.Fpdf, content string) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, " \t")
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			pdf.Ln(3)
		case strings.HasPrefix(trimmed, "#"):
			heading := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			pdf.Ln(2)
			pdf.SetFont("Arial", "B", 12)
			pdf.SetTextColor(33, 37, 41)
			pdf.MultiCell(180, 6, stripInlineMarkdown(heading), "", "L", false)
			pdf.Ln(1)
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			item := strings.TrimSpace(trimmed[2:])
			pdf.SetFont("Arial", "", 10)
			pdf.SetTextColor(33, 37, 41)
			pdf.SetX(20)
			pdf.MultiCell(175, 5, "- "+stripInlineMarkdown(item), "", "L", false)
		default:
			pdf.SetFont("Arial", "", 10)
			pdf.SetTextColor(33, 37, 41)
			pdf.MultiCell(180, 5, stripInlineMarkdown(trimmed), "", "L", false)
		}
	}
}

// stripInlineMarkdown removes emphasis and code markers the PDF layout
// doesn't reproduce
func stripInlineMarkdown(s string) string {
	replacer := strings.NewReplacer("**", "", "__", "", "`", "")
	return replacer.Replace(s)
}
