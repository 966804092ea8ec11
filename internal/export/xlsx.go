package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/kinai/kinai/internal/model"
)

const (
	PatientSheet = "Pacientes"
	SessionSheet = "Sesiones"
)

// RenderWorkbook writes an XLSX workbook with one sheet of patients and one
// of sessions.
func RenderWorkbook(w io.Writer, patients []model.Patient, sessions []model.Session) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E0E7FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	patientRows := make([][]string, 0, len(patients))
	for _, p := range patients {
		patientRows = append(patientRows, patientRow(p))
	}

	if err := f.SetSheetName("Sheet1", PatientSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSheet(f, PatientSheet, PatientHeader, patientRows, headerStyle); err != nil {
		return err
	}

	if _, err := f.NewSheet(SessionSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := writeSheet(f, SessionSheet, SessionHeader, sessionRows(patients, sessions), headerStyle); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]string, style int) error {
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("set header cell %s: %w", cell, err)
		}
	}

	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("set header style: %w", err)
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := f.SetColWidth(sheet, "A", lastCol, 22); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	return nil
}
