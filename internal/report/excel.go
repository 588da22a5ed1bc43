package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/adilzhm/garagelog/internal/models"
)

func (g *Generator) excel(v *models.Vehicle) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := writeSummary(file, summarySheet, v); err != nil {
		return nil, err
	}

	tripsSheet := "Trips"
	if _, err := file.NewSheet(tripsSheet); err != nil {
		return nil, err
	}
	if err := writeTrips(file, tripsSheet, v); err != nil {
		return nil, err
	}

	historySheet := "Service History"
	if _, err := file.NewSheet(historySheet); err != nil {
		return nil, err
	}
	if err := writeHistory(file, historySheet, v); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSummary(file *excelize.File, sheet string, v *models.Vehicle) error {
	status := statusOf(v)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Plate")
	set("B1", v.Plate)
	set("A2", "Class")
	set("B2", string(v.Class))
	set("A3", "Total distance")
	set("B3", v.TotalDistance)
	set("A4", "Last oil service at")
	set("B4", v.LastOilServiceDistance)
	set("A5", "Last maintenance service at")
	set("B5", v.LastMaintenanceServiceDistance)
	set("A6", "Oil service")
	set("B6", dueLabel(status.OilDue))
	set("A7", "Maintenance service")
	set("B7", dueLabel(status.MaintenanceDue))
	set("A8", "Trips recorded")
	set("B8", len(v.Trips))
	set("A9", "Services recorded")
	set("B9", len(v.History))
	return nil
}

func writeTrips(file *excelize.File, sheet string, v *models.Vehicle) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Date")
	set("B1", "Distance")
	set("C1", "Label")
	for i, trip := range v.Trips {
		row := i + 2
		set(fmt.Sprintf("A%d", row), formatDate(trip.Date))
		set(fmt.Sprintf("B%d", row), trip.Distance)
		set(fmt.Sprintf("C%d", row), trip.Label)
	}
	return nil
}

func writeHistory(file *excelize.File, sheet string, v *models.Vehicle) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Date")
	set("B1", "Service")
	set("C1", "Mileage at service")
	set("D1", "Notes")
	for i, entry := range v.History {
		row := i + 2
		set(fmt.Sprintf("A%d", row), formatDate(entry.Date))
		set(fmt.Sprintf("B%d", row), string(entry.Kind))
		set(fmt.Sprintf("C%d", row), entry.MileageAtService)
		set(fmt.Sprintf("D%d", row), entry.Notes)
	}
	return nil
}
