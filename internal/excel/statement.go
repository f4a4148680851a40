package excel

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/gigpay/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders a balance statement workbook: a summary sheet with the
// profile and totals, and a jobs sheet listing every job on the profile's
// contracts.
func (g *Generator) Generate(statement model.Statement) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, statement); err != nil {
		return nil, err
	}

	jobsSheet := "Jobs"
	if _, err := file.NewSheet(jobsSheet); err != nil {
		return nil, err
	}
	if err := g.writeJobs(file, jobsSheet, statement); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, statement model.Statement) error {
	paidTotal, unpaidTotal := sumTotals(statement)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Profile")
	set("B1", statement.Profile.FullName())
	set("A2", "Role")
	set("B2", string(statement.Profile.Role))
	set("A3", "Balance")
	set("B3", statement.Profile.Balance.StringFixed(2))
	set("A4", "Generated at")
	set("B4", formatDate(statement.GeneratedAt))
	set("A5", "Jobs total")
	set("B5", len(statement.Jobs))
	set("A6", "Paid amount")
	set("B6", paidTotal.StringFixed(2))
	set("A7", "Unpaid amount")
	set("B7", unpaidTotal.StringFixed(2))

	_ = file.SetColWidth(sheet, "A", "A", 20)
	_ = file.SetColWidth(sheet, "B", "B", 36)
	return nil
}

func (g *Generator) writeJobs(file *excelize.File, sheet string, statement model.Statement) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{
		"Job",
		"Description",
		"Counterparty",
		"Price",
		"Paid",
		"Payment date",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, job := range statement.Jobs {
		row := i + 2
		set(fmt.Sprintf("A%d", row), job.Job.ID.String())
		set(fmt.Sprintf("B%d", row), job.Job.Description)
		set(fmt.Sprintf("C%d", row), counterparty(statement.Profile, job).FullName())
		set(fmt.Sprintf("D%d", row), job.Job.Price.StringFixed(2))
		set(fmt.Sprintf("E%d", row), paidLabel(job.Job.Paid))
		if job.Job.PaymentDate != nil {
			set(fmt.Sprintf("F%d", row), formatDate(*job.Job.PaymentDate))
		}
	}

	_ = file.SetColWidth(sheet, "A", "A", 38)
	_ = file.SetColWidth(sheet, "B", "C", 30)
	_ = file.SetColWidth(sheet, "D", "F", 16)
	return nil
}

func counterparty(profile model.Profile, job model.JobWithParties) model.Profile {
	if job.Client.ID == profile.ID {
		return job.Contractor
	}
	return job.Client
}

func sumTotals(statement model.Statement) (paid, unpaid decimal.Decimal) {
	for _, job := range statement.Jobs {
		if job.Job.Paid {
			paid = paid.Add(job.Job.Price)
		} else {
			unpaid = unpaid.Add(job.Job.Price)
		}
	}
	return paid, unpaid
}

func paidLabel(paid bool) string {
	if paid {
		return "paid"
	}
	return "unpaid"
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}
