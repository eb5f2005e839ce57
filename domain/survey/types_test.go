package survey

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJudgment(t *testing.T) {
	for _, j := range AllJudgments {
		got, err := ParseJudgment(string(j))
		require.NoError(t, err)
		assert.Equal(t, j, got)
	}

	blank, err := ParseJudgment("")
	require.NoError(t, err)
	assert.Equal(t, JudgmentInsufficient, blank)

	_, err = ParseJudgment("effective")
	assert.Error(t, err)
}

func TestJudgment_Score(t *testing.T) {
	score, ok := JudgmentEffective.Score()
	assert.True(t, ok)
	assert.Equal(t, 1.0, score)

	score, ok = JudgmentAdverse.Score()
	assert.True(t, ok)
	assert.Equal(t, -1.0, score)

	_, ok = JudgmentInsufficient.Score()
	assert.False(t, ok)
}

func TestGroupByJudgment(t *testing.T) {
	records := []ParticipantRecord{
		{ID: "P01", AScore: 40, BScore: 44, Judgments: [3]Judgment{JudgmentAdverse}},
		{ID: "P02", AScore: 42, BScore: 41, Judgments: [3]Judgment{JudgmentEffective}},
		{ID: "P03", AScore: 38, BScore: 43, Judgments: [3]Judgment{JudgmentInsufficient}},
		{ID: "P04", AScore: 45, BScore: 45, Judgments: [3]Judgment{JudgmentEffective}},
	}

	groups, excluded := GroupByJudgment(records, Elements[0])
	assert.Equal(t, 1, excluded)
	require.Len(t, groups, 2)
	assert.Equal(t, JudgmentEffective, groups[0].Judgment)
	assert.Equal(t, []float64{-1, 0}, groups[0].Deltas)
	assert.Equal(t, JudgmentAdverse, groups[1].Judgment)
	assert.Equal(t, []float64{4}, groups[1].Deltas)
}

func TestDataset_Complete(t *testing.T) {
	ds := &Dataset{Records: []ParticipantRecord{
		{ID: "P01", AScore: 40, BScore: 44},
		{ID: "P02", AScore: math.NaN(), BScore: 41},
	}}

	complete := ds.Complete()
	require.Len(t, complete, 1)
	a, b, delta := Scores(complete)
	assert.Equal(t, []float64{40}, a)
	assert.Equal(t, []float64{44}, b)
	assert.Equal(t, []float64{4}, delta)
}

func TestRequiredColumns(t *testing.T) {
	assert.Equal(t, []string{"A_Score", "B_Score", "Element1_Obligation", "Element2_Burden", "Element3_Rejection"}, RequiredColumns())
}
