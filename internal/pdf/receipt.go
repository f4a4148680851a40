package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/nurpe/gigpay/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders a payment receipt for a paid job.
func (g *Generator) Generate(doc model.JobWithParties) ([]byte, error) {
	if !doc.Job.Paid || doc.Job.PaymentDate == nil {
		return nil, fmt.Errorf("job %s is not paid", doc.Job.ID)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Payment Receipt", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Job %s", doc.Job.ID), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Paid on %s", formatDate(*doc.Job.PaymentDate)), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	addPartyBlock(pdf, "Client", doc.Client)
	pdf.Ln(2)
	addPartyBlock(pdf, "Contractor", doc.Contractor)
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Work performed", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)

	headers := []string{"Description", "Contract", "Amount"}
	colWidths := []float64{95, 45, 30}
	drawTableRow(pdf, headers, colWidths, true)
	drawTableRow(pdf, []string{
		doc.Job.Description,
		doc.Job.ContractID.String()[:8],
		formatAmount(doc.Job.Price),
	}, colWidths, false)

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Total paid: %s", formatAmount(doc.Job.Price)), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addPartyBlock(pdf *gofpdf.Fpdf, label string, profile model.Profile) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, label, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, profile.FullName(), "", 1, "L", false, 0, "")
	if profile.Profession != "" {
		pdf.CellFormat(0, 5, profile.Profession, "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 5, fmt.Sprintf("Profile %s", profile.ID), "", 1, "L", false, 0, "")
}

func drawTableRow(pdf *gofpdf.Fpdf, cells []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, 10)
	for i, cell := range cells {
		align := "L"
		if i == len(cells)-1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, cell, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func formatDate(t time.Time) string {
	return t.Format("02.01.2006 15:04 MST")
}

func formatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
