package export

import (
	"fmt"

	"gostai/ports"

	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

// XLSXSummaryWriter writes summary tables to a single-sheet workbook
type XLSXSummaryWriter struct{}

// NewXLSXSummaryWriter creates an Excel summary writer
func NewXLSXSummaryWriter() *XLSXSummaryWriter {
	return &XLSXSummaryWriter{}
}

// WriteSummary implements ports.SummaryWriter
func (w *XLSXSummaryWriter) WriteSummary(path string, table ports.SummaryTable) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := writeRow(f, 1, table.Headers); err != nil {
		return err
	}
	for i, row := range table.Rows {
		if err := writeRow(f, i+2, row); err != nil {
			return err
		}
	}

	if len(table.Headers) > 0 {
		last, err := excelize.CoordinatesToCellName(len(table.Headers), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(summarySheet, "A1", last, headerStyle); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func writeRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return f.SetSheetRow(summarySheet, cell, &row)
}
