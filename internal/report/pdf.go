package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/adilzhm/garagelog/internal/models"
)

const pdfFont = "Helvetica"

func (g *Generator) pdf(v *models.Vehicle) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("Vehicle report: %s (%s)", v.Plate, v.Class), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	status := statusOf(v)
	pdf.SetFont(pdfFont, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Total distance: %s", formatDistance(v.TotalDistance)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Oil service: %s (last at %s)",
		dueLabel(status.OilDue), formatDistance(v.LastOilServiceDistance)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Maintenance service: %s (last at %s)",
		dueLabel(status.MaintenanceDue), formatDistance(v.LastMaintenanceServiceDistance)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(pdfFont, "B", 12)
	pdf.CellFormat(0, 8, "Trips", "", 1, "L", false, 0, "")
	pdf.SetFont(pdfFont, "", 10)
	tripHeaders := []string{"Date", "Distance", "Label"}
	tripWidths := []float64{40, 40, 100}
	drawTableRow(pdf, tripHeaders, tripWidths, true)
	for _, trip := range v.Trips {
		drawTableRow(pdf, []string{formatDate(trip.Date), formatDistance(trip.Distance), trip.Label}, tripWidths, false)
	}
	pdf.Ln(4)

	pdf.SetFont(pdfFont, "B", 12)
	pdf.CellFormat(0, 8, "Service history", "", 1, "L", false, 0, "")
	pdf.SetFont(pdfFont, "", 10)
	svcHeaders := []string{"Date", "Service", "Mileage", "Notes"}
	svcWidths := []float64{40, 35, 35, 70}
	drawTableRow(pdf, svcHeaders, svcWidths, true)
	for _, entry := range v.History {
		drawTableRow(pdf, []string{
			formatDate(entry.Date),
			string(entry.Kind),
			formatDistance(entry.MileageAtService),
			entry.Notes,
		}, svcWidths, false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, cells []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(pdfFont, style, 10)
	for i, cell := range cells {
		pdf.CellFormat(widths[i], 7, cell, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}
