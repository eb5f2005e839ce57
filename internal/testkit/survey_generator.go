package testkit

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"

	"gostai/domain/survey"

	"github.com/xuri/excelize/v2"
)

// FixtureCSV is a small hand-checked survey. Deltas (B - A) are 4, -1, 5, 0, -3, 6, -1, 5.
// Element 1 splits into three groups, element 2 into two groups with one of size 2,
// element 3 into two groups of size 3.
const FixtureCSV = `Participant_ID,A_Score,B_Score,Element1_Obligation,Element2_Burden,Element3_Rejection
P01,40,44,有効,不変,有効
P02,42,41,不変,有効,データ不足
P03,38,43,有効,有効,有効
P04,45,45,逆効果,不変,不変
P05,50,47,不変,有効,データ不足
P06,36,42,有効,データ不足,有効
P07,44,43,逆効果,データ不足,不変
P08,41,46,有効,有効,不変
`

// WriteFixture writes FixtureCSV to path
func WriteFixture(path string) error {
	return os.WriteFile(path, []byte(FixtureCSV), 0644)
}

// SurveyGeneratorConfig configures the synthetic survey generator
type SurveyGeneratorConfig struct {
	Participants     int     `json:"participants"`
	BaseScore        float64 `json:"base_score"`        // mean condition A STAI-S
	ScoreSD          float64 `json:"score_sd"`          // between-participant SD
	ChangeSD         float64 `json:"change_sd"`         // SD of the B - A change
	InsufficientRate float64 `json:"insufficient_rate"` // share of judgments coded データ不足
	Seed             int64   `json:"seed"`
}

// DefaultSurveyConfig mirrors the size of the thesis sample
func DefaultSurveyConfig() SurveyGeneratorConfig {
	return SurveyGeneratorConfig{
		Participants:     29,
		BaseScore:        44,
		ScoreSD:          8,
		ChangeSD:         5,
		InsufficientRate: 0.1,
		Seed:             42,
	}
}

// SurveyGenerator produces deterministic participant records where the
// element judgments loosely track the sign of the score change
type SurveyGenerator struct {
	config SurveyGeneratorConfig
	rng    *rand.Rand
}

// NewSurveyGenerator creates a new survey generator
func NewSurveyGenerator(config SurveyGeneratorConfig) *SurveyGenerator {
	return &SurveyGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate returns the header and data rows of a survey sheet
func (g *SurveyGenerator) Generate() [][]string {
	header := append([]string{"Participant_ID"}, survey.RequiredColumns()...)
	rows := [][]string{header}

	for i := 0; i < g.config.Participants; i++ {
		a := math.Round(g.config.BaseScore + g.rng.NormFloat64()*g.config.ScoreSD)
		delta := math.Round(g.rng.NormFloat64() * g.config.ChangeSD)
		b := a + delta

		row := []string{
			fmt.Sprintf("P%02d", i+1),
			strconv.FormatFloat(a, 'f', -1, 64),
			strconv.FormatFloat(b, 'f', -1, 64),
		}
		for range survey.Elements {
			row = append(row, string(g.judgmentFor(delta)))
		}
		rows = append(rows, row)
	}
	return rows
}

func (g *SurveyGenerator) judgmentFor(delta float64) survey.Judgment {
	if g.rng.Float64() < g.config.InsufficientRate {
		return survey.JudgmentInsufficient
	}
	// Noisy threshold on the change so groups overlap.
	v := delta + g.rng.NormFloat64()*2
	switch {
	case v > 2:
		return survey.JudgmentEffective
	case v < -2:
		return survey.JudgmentAdverse
	}
	return survey.JudgmentUnchanged
}

// WriteCSV writes rows to a CSV file
func WriteCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

// WriteXLSX writes rows to the first sheet of a new workbook
func WriteXLSX(path string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
