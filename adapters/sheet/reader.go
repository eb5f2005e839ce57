package sheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gostai/domain/core"
	"gostai/domain/survey"
	"gostai/internal"

	"github.com/xuri/excelize/v2"
)

// utf8BOM is prepended by spreadsheet tools that export "CSV UTF-8"
const utf8BOM = "\ufeff"

// idColumnCandidates are checked in order when looking for the participant column
var idColumnCandidates = []string{
	"participant_id",
	"participantid",
	"participant",
	"id",
	"no",
}

// DataReader handles reading the survey from CSV or Excel files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string, logger *internal.Logger) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "csv"
	if ext == ".xlsx" || ext == ".xlsm" {
		fileType = "xlsx"
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{filePath: filePath, fileType: fileType, logger: logger}
}

// Read loads and validates the survey file
func (r *DataReader) Read(ctx context.Context) (*survey.Dataset, error) {
	r.logger.Debug("[DataReader] Reading %s file: %s", r.fileType, r.filePath)

	raw, err := os.ReadFile(r.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrFileNotFound, r.filePath)
		}
		return nil, fmt.Errorf("failed to read %s: %w", r.filePath, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows [][]string
	switch r.fileType {
	case "csv":
		rows, err = readCSVRows(raw)
	case "xlsx":
		rows, err = readExcelRows(raw)
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedInput, r.fileType)
	}
	if err != nil {
		return nil, err
	}

	ds, err := r.processRows(rows)
	if err != nil {
		return nil, err
	}
	ds.Source = r.filePath
	ds.Hash = core.NewHash(raw)

	r.logger.Info("[DataReader] %s loaded (%d participants, %d columns)", filepath.Base(r.filePath), len(ds.Records), len(ds.Headers))
	return ds, nil
}

// readCSVRows parses CSV bytes, dropping a leading byte-order mark
func readCSVRows(raw []byte) ([][]string, error) {
	raw = bytes.TrimPrefix(raw, []byte(utf8BOM))
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrUnsupportedInput, err)
	}
	return rows, nil
}

// readExcelRows reads the first worksheet of a workbook
func readExcelRows(raw []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrUnsupportedInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", core.ErrUnsupportedInput)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// processRows converts raw string rows into participant records
func (r *DataReader) processRows(rows [][]string) (*survey.Dataset, error) {
	if len(rows) == 0 {
		return nil, core.ErrEmptyDataset
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	index := make(map[string]int, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
		index[headers[i]] = i
	}

	for _, col := range survey.RequiredColumns() {
		if _, ok := index[col]; !ok {
			return nil, core.NewMissingColumnError(col)
		}
	}

	idCol := detectIDColumn(headers)
	if idCol < 0 {
		r.logger.Warn("[DataReader] No participant ID column found, numbering rows")
	}

	cell := func(row []string, col int) string {
		if col < len(row) {
			return strings.TrimSpace(row[col])
		}
		return ""
	}

	seen := make(map[core.ParticipantID]int)
	records := make([]survey.ParticipantRecord, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}
		line := i + 1

		var id core.ParticipantID
		if idCol >= 0 {
			parsed, err := core.ParseParticipantID(cell(row, idCol))
			if err != nil {
				return nil, core.NewMalformedCellError(line, headers[idCol], cell(row, idCol))
			}
			id = parsed
		} else {
			id = core.ParticipantID(fmt.Sprintf("P%02d", len(records)+1))
		}
		if prev, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %s on rows %d and %d", core.ErrDuplicateID, id, prev, line)
		}
		seen[id] = line

		a, err := parseScore(cell(row, index[survey.ColumnAScore]))
		if err != nil {
			return nil, core.NewMalformedCellError(line, survey.ColumnAScore, cell(row, index[survey.ColumnAScore]))
		}
		b, err := parseScore(cell(row, index[survey.ColumnBScore]))
		if err != nil {
			return nil, core.NewMalformedCellError(line, survey.ColumnBScore, cell(row, index[survey.ColumnBScore]))
		}

		rec := survey.ParticipantRecord{ID: id, AScore: a, BScore: b}
		for _, e := range survey.Elements {
			value := cell(row, index[e.Column])
			j, err := survey.ParseJudgment(value)
			if err != nil {
				return nil, core.NewMalformedCellError(line, e.Column, value)
			}
			rec.Judgments[e.Index-1] = j
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, core.ErrEmptyDataset
	}

	return &survey.Dataset{
		Headers: headers,
		Records: records,
	}, nil
}

// detectIDColumn returns the index of the participant column, or -1
func detectIDColumn(headers []string) int {
	for _, candidate := range idColumnCandidates {
		for i, header := range headers {
			if strings.ToLower(header) == candidate {
				return i
			}
		}
	}
	return -1
}

// parseScore reads a numeric cell; blank and NA markers become NaN
func parseScore(s string) (float64, error) {
	switch strings.ToLower(s) {
	case "", "na", "nan", "n/a":
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite score %q", s)
	}
	return v, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
