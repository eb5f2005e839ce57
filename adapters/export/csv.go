package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"gostai/ports"
)

// utf8BOM lets spreadsheet applications detect the encoding of the judgment labels
const utf8BOM = "\ufeff"

// CSVSummaryWriter writes summary tables as UTF-8 CSV with a byte-order mark
type CSVSummaryWriter struct{}

// NewCSVSummaryWriter creates a CSV summary writer
func NewCSVSummaryWriter() *CSVSummaryWriter {
	return &CSVSummaryWriter{}
}

// WriteSummary implements ports.SummaryWriter
func (w *CSVSummaryWriter) WriteSummary(path string, table ports.SummaryTable) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(table.Headers); err != nil {
		return err
	}
	if err := cw.WriteAll(table.Rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
