package survey

import (
	"fmt"
	"math"

	"gostai/domain/core"
)

// Judgment is a coder's verdict on whether message matching helped with one element.
// Values are kept exactly as they appear in the survey sheet.
type Judgment string

const (
	JudgmentEffective    Judgment = "有効"
	JudgmentUnchanged    Judgment = "不変"
	JudgmentAdverse      Judgment = "逆効果"
	JudgmentInsufficient Judgment = "データ不足"
)

// GroupOrder is the fixed order in which judgment groups are reported and compared.
// JudgmentInsufficient is never a comparison group.
var GroupOrder = []Judgment{JudgmentEffective, JudgmentUnchanged, JudgmentAdverse}

// AllJudgments lists every valid value, insufficient-data last.
var AllJudgments = []Judgment{JudgmentEffective, JudgmentUnchanged, JudgmentAdverse, JudgmentInsufficient}

// ParseJudgment maps a cell value onto a Judgment. Blank cells count as insufficient data.
func ParseJudgment(s string) (Judgment, error) {
	switch Judgment(s) {
	case JudgmentEffective, JudgmentUnchanged, JudgmentAdverse, JudgmentInsufficient:
		return Judgment(s), nil
	case "":
		return JudgmentInsufficient, nil
	}
	return "", fmt.Errorf("unknown judgment %q", s)
}

// Score returns the ordinal coding used for rank correlation: effective=1,
// unchanged=0, adverse=-1. ok is false for insufficient data.
func (j Judgment) Score() (score float64, ok bool) {
	switch j {
	case JudgmentEffective:
		return 1, true
	case JudgmentUnchanged:
		return 0, true
	case JudgmentAdverse:
		return -1, true
	}
	return 0, false
}

// English returns an ASCII label, used where CJK glyphs are unavailable (plot fonts).
func (j Judgment) English() string {
	switch j {
	case JudgmentEffective:
		return "Effective"
	case JudgmentUnchanged:
		return "Unchanged"
	case JudgmentAdverse:
		return "Adverse"
	case JudgmentInsufficient:
		return "Insufficient data"
	}
	return string(j)
}

func (j Judgment) String() string { return string(j) }

// Element identifies one of the three barrier judgments.
type Element struct {
	Index  int    // 1-based
	Column string // CSV header
	Name   string
}

// Elements in survey order.
var Elements = []Element{
	{Index: 1, Column: "Element1_Obligation", Name: "Element 1: obligation to continue communication"},
	{Index: 2, Column: "Element2_Burden", Name: "Element 2: interpersonal consideration burden"},
	{Index: 3, Column: "Element3_Rejection", Name: "Element 3: rejection/evaluation concern"},
}

// Score column headers
const (
	ColumnAScore = "A_Score"
	ColumnBScore = "B_Score"
)

// RequiredColumns lists every header a survey file must carry.
func RequiredColumns() []string {
	cols := []string{ColumnAScore, ColumnBScore}
	for _, e := range Elements {
		cols = append(cols, e.Column)
	}
	return cols
}

// ParticipantRecord is one survey row.
type ParticipantRecord struct {
	ID        core.ParticipantID
	AScore    float64 // NaN when missing
	BScore    float64 // NaN when missing
	Judgments [3]Judgment
}

// HasScores reports whether both condition scores are present.
func (r ParticipantRecord) HasScores() bool {
	return !math.IsNaN(r.AScore) && !math.IsNaN(r.BScore)
}

// Delta returns ΔSTAI-S = B - A. Positive values mean lower anxiety under condition A.
func (r ParticipantRecord) Delta() float64 {
	return r.BScore - r.AScore
}

// Judgment returns the record's verdict for element e.
func (r ParticipantRecord) Judgment(e Element) Judgment {
	return r.Judgments[e.Index-1]
}

// Dataset is the loaded survey table.
type Dataset struct {
	Source  string
	Headers []string
	Records []ParticipantRecord
	Hash    core.Hash
}

// Complete returns the records that carry both scores, in file order.
func (d *Dataset) Complete() []ParticipantRecord {
	out := make([]ParticipantRecord, 0, len(d.Records))
	for _, r := range d.Records {
		if r.HasScores() {
			out = append(out, r)
		}
	}
	return out
}

// Scores splits complete records into condition A, condition B and delta columns.
func Scores(records []ParticipantRecord) (a, b, delta []float64) {
	a = make([]float64, len(records))
	b = make([]float64, len(records))
	delta = make([]float64, len(records))
	for i, r := range records {
		a[i] = r.AScore
		b[i] = r.BScore
		delta[i] = r.Delta()
	}
	return a, b, delta
}

// Group holds the deltas of the participants sharing one judgment.
type Group struct {
	Judgment Judgment
	Deltas   []float64
}

// GroupByJudgment partitions records by their verdict on element e, returning
// only non-empty groups in GroupOrder. excluded counts insufficient-data rows.
func GroupByJudgment(records []ParticipantRecord, e Element) (groups []Group, excluded int) {
	buckets := make(map[Judgment][]float64, len(GroupOrder))
	for _, r := range records {
		j := r.Judgment(e)
		if j == JudgmentInsufficient {
			excluded++
			continue
		}
		buckets[j] = append(buckets[j], r.Delta())
	}
	for _, j := range GroupOrder {
		if d := buckets[j]; len(d) > 0 {
			groups = append(groups, Group{Judgment: j, Deltas: d})
		}
	}
	return groups, excluded
}
