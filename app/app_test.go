package app

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gostai/adapters/sheet"
	domainstats "gostai/domain/stats"
	"gostai/domain/survey"
	"gostai/internal"
	"gostai/internal/config"
	apperrors "gostai/internal/errors"
	"gostai/internal/testkit"
	"gostai/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCharts struct {
	charts map[string]ports.BoxChart
}

func (r *recordingCharts) RenderBoxChart(path string, chart ports.BoxChart) error {
	if r.charts == nil {
		r.charts = make(map[string]ports.BoxChart)
	}
	r.charts[filepath.Base(path)] = chart
	return nil
}

type recordingSummary struct {
	path  string
	table ports.SummaryTable
}

func (r *recordingSummary) WriteSummary(path string, table ports.SummaryTable) error {
	r.path = path
	r.table = table
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Analysis: config.AnalysisConfig{Alpha: 0.05},
		Output:   config.OutputConfig{Dir: t.TempDir(), Format: config.FormatText},
		Plot:     config.PlotConfig{Enabled: true, Seed: 42, DPI: 72},
	}
}

func fixtureReader(t *testing.T, content string) ports.SurveyReader {
	t.Helper()
	path := filepath.Join(t.TempDir(), "survey.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return sheet.NewDataReader(path, internal.Discard())
}

func TestSTAIService_Fixture(t *testing.T) {
	charts := &recordingCharts{}
	cfg := testConfig(t)
	res, err := NewSTAIService(fixtureReader(t, testkit.FixtureCSV), charts, cfg, internal.Discard()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 8, res.N)
	assert.InDelta(t, 42.0, res.A.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(134.0/7), res.A.StdDev, 1e-9)
	assert.InDelta(t, 43.875, res.B.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(28.875/7), res.B.StdDev, 1e-9)
	assert.InDelta(t, 1.875, res.Delta.Mean, 1e-12)

	sdDiff := math.Sqrt(84.875 / 7)
	assert.InDelta(t, -1.875/(sdDiff/math.Sqrt(8)), res.PairedT.Statistic, 1e-9)
	assert.Equal(t, 7.0, res.PairedT.DF1)
	assert.InDelta(t, -1.875/sdDiff, res.CohensD, 1e-9)
	assert.InDelta(t, -1.875, res.MeanDiff, 1e-12)

	// P04 has a zero difference, so the normal approximation applies.
	assert.False(t, res.Wilcoxon.Exact)
	assert.Equal(t, 6.0, res.Wilcoxon.Statistic)
	assert.InDelta(t, 0.1748, res.Wilcoxon.PValue, 1e-3)

	require.Len(t, res.Correlations, 3)
	require.NotNil(t, res.Correlations[0].Result)
	assert.Equal(t, 8, res.Correlations[0].N)
	assert.InDelta(t, 29/math.Sqrt(1476), res.Correlations[0].Result.Statistic, 1e-9)
	assert.Equal(t, 6, res.Correlations[1].N)
	assert.Equal(t, 6, res.Correlations[2].N)

	e1 := res.Frequencies[0].Rows
	require.Len(t, e1, 4)
	assert.Equal(t, survey.JudgmentEffective, e1[0].Judgment)
	assert.Equal(t, 4, e1[0].Count)
	assert.InDelta(t, 50.0, e1[0].Percent, 1e-12)
	assert.InDelta(t, 5.0, e1[0].MeanDelta, 1e-12)
	assert.InDelta(t, -2.0, e1[1].MeanDelta, 1e-12)
	assert.Equal(t, 0, e1[3].Count)
	assert.True(t, math.IsNaN(e1[3].MeanDelta))

	assert.Contains(t, charts.charts, STAIChartFile)
	assert.Equal(t, filepath.Join(cfg.Output.Dir, STAIChartFile), res.ChartPath)
	assert.Contains(t, res.ResultsText(), "did not differ significantly")
	assert.Contains(t, res.MethodsText(), "5%")
}

func TestSTAIService_ReportIDStable(t *testing.T) {
	cfg := testConfig(t)
	cfg.Plot.Enabled = false
	reader := fixtureReader(t, testkit.FixtureCSV)

	first, err := NewSTAIService(reader, nil, cfg, internal.Discard()).Run(context.Background())
	require.NoError(t, err)
	second, err := NewSTAIService(reader, nil, cfg, internal.Discard()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.ReportID, second.ReportID)
	assert.Empty(t, first.ChartPath)
}

func TestSTAIService_MissingScoresExcluded(t *testing.T) {
	content := strings.Replace(testkit.FixtureCSV, "P08,41,46,", "P08,41,,", 1)
	cfg := testConfig(t)
	cfg.Plot.Enabled = false

	res, err := NewSTAIService(fixtureReader(t, content), nil, cfg, internal.Discard()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, res.N)
	assert.Equal(t, 1, res.Excluded)
}

func TestSTAIService_MissingColumnFails(t *testing.T) {
	content := strings.Replace(testkit.FixtureCSV, "Element2_Burden", "Element2", 1)
	_, err := NewSTAIService(fixtureReader(t, content), nil, testConfig(t), internal.Discard()).Run(context.Background())

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInputError, apperrors.GetCode(err))
	assert.Contains(t, err.Error(), "Element2_Burden")
}

func TestCompositeService_Fixture(t *testing.T) {
	res, err := NewCompositeService(fixtureReader(t, testkit.FixtureCSV), testConfig(t), internal.Discard()).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Comparisons, 3)

	e1 := res.Comparisons[0]
	assert.Equal(t, 0, e1.Excluded)
	assert.Equal(t, []string{"有効", "不変", "逆効果"}, e1.GroupNames())
	assert.False(t, e1.AllNormal)
	require.True(t, e1.Compared())
	assert.Equal(t, domainstats.TestKruskalWallis, e1.Test.Test)
	h := (12.0/72*196.25 - 27) / (1 - 12.0/504)
	assert.InDelta(t, h, e1.Test.Statistic, 1e-9)
	assert.InDelta(t, math.Exp(-h/2), e1.Test.PValue, 1e-7)
	assert.InDelta(t, 80.375/84.875, e1.EtaSquared, 1e-9)
	assert.Equal(t, domainstats.EffectLarge, e1.Effect)
	assert.Equal(t, "Kruskal-Wallis: H = 5.848, p = .054, η² = 0.95 n.s.", e1.SummaryLine())

	e2 := res.Comparisons[1]
	assert.Equal(t, 2, e2.Excluded)
	assert.Equal(t, 6, e2.Analyzed)
	assert.Equal(t, domainstats.TestMannWhitney, e2.Test.Test)
	assert.Equal(t, 4.0, e2.Test.Statistic)
	assert.Equal(t, 1.0, e2.Test.PValue)
	assert.Equal(t, domainstats.EffectNegligible, e2.Effect)
	assert.NotNil(t, e2.Levene)

	e3 := res.Comparisons[2]
	assert.True(t, e3.AllNormal)
	assert.Equal(t, domainstats.TestTTest, e3.Test.Test)
	assert.InDelta(t, (5-4.0/3)/math.Sqrt(17.0/3*2/3), e3.Test.Statistic, 1e-9)
	assert.Equal(t, 4.0, e3.Test.DF1)
	assert.Contains(t, e3.Rationale(), "parametric")

	assert.Len(t, res.SummaryLines(), 3)
}

func TestCompositeService_SingleGroupSkipped(t *testing.T) {
	content := strings.NewReplacer(
		"P02,42,41,不変", "P02,42,41,有効",
		"P04,45,45,逆効果", "P04,45,45,有効",
		"P05,50,47,不変", "P05,50,47,有効",
		"P07,44,43,逆効果", "P07,44,43,有効",
	).Replace(testkit.FixtureCSV)

	res, err := NewCompositeService(fixtureReader(t, content), testConfig(t), internal.Discard()).Run(context.Background())
	require.NoError(t, err)

	e1 := res.Comparisons[0]
	assert.False(t, e1.Compared())
	assert.Len(t, e1.Groups, 1)
	assert.Contains(t, e1.Note, "comparison skipped")
	assert.Len(t, res.SummaryLines(), 2)
}

func TestElementsService_Fixture(t *testing.T) {
	charts := &recordingCharts{}
	csv := &recordingSummary{}
	xlsx := &recordingSummary{}
	cfg := testConfig(t)

	res, err := NewElementsService(fixtureReader(t, testkit.FixtureCSV), charts, csv, xlsx, cfg, internal.Discard()).Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, res.Charts, 3)
	for _, e := range survey.Elements {
		chart, ok := charts.charts[ElementChartFile(e)]
		require.True(t, ok, e.Column)
		assert.True(t, chart.ZeroLine)
		assert.NotEmpty(t, chart.Annotation)
	}
	assert.Equal(t, "Effective", charts.charts["element1_group_comparison.png"].Groups[0].Label)

	assert.Equal(t, filepath.Join(cfg.Output.Dir, SummaryCSVFile), csv.path)
	assert.Equal(t, filepath.Join(cfg.Output.Dir, SummaryXLSXFile), xlsx.path)
	assert.Equal(t, SummaryHeaders, csv.table.Headers)
	require.Len(t, csv.table.Rows, 3)
	assert.Equal(t, "3", csv.table.Rows[0][1])
	assert.Equal(t, "有効, 不変, 逆効果", csv.table.Rows[0][2])
	assert.Equal(t, "n.s.", csv.table.Rows[0][4])
	assert.Equal(t, "有効, 不変", csv.table.Rows[2][2])
	assert.Len(t, res.Files, 2)
}

func TestElementsService_PlotsDisabled(t *testing.T) {
	charts := &recordingCharts{}
	cfg := testConfig(t)
	cfg.Plot.Enabled = false

	res, err := NewElementsService(fixtureReader(t, testkit.FixtureCSV), charts, &recordingSummary{}, nil, cfg, internal.Discard()).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Charts)
	assert.Empty(t, charts.charts)
	assert.Len(t, res.Files, 1)
}

func TestDocuments_Render(t *testing.T) {
	cfg := testConfig(t)
	cfg.Plot.Enabled = false
	reader := fixtureReader(t, testkit.FixtureCSV)

	stai, err := NewSTAIService(reader, nil, cfg, internal.Discard()).Run(context.Background())
	require.NoError(t, err)
	composite, err := NewCompositeService(reader, cfg, internal.Discard()).Run(context.Background())
	require.NoError(t, err)
	elements, err := NewElementsService(reader, nil, nil, nil, cfg, internal.Discard()).Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, stai.Document().Sections)
	assert.NotEmpty(t, composite.Document().Sections)
	assert.NotEmpty(t, elements.Document().Sections)
	assert.Equal(t, "Summary", elements.Document().Sections[len(elements.Document().Sections)-1].Heading)

	checksum := stai.Document().Checksum
	assert.Len(t, checksum, 12)
	assert.Equal(t, stai.Dataset.String()[:12], checksum)
	assert.Equal(t, checksum, composite.Document().Checksum)
	assert.Equal(t, checksum, elements.Document().Checksum)
}

// TestGroupComparer_ConstantGroupCountsAsNormal: identical deltas give W = 1, p = 1,
// so {1,1,1} vs {-2,-4,-1} goes to the pooled t-test, t = (10/3)/√(7/9)
func TestGroupComparer_ConstantGroupCountsAsNormal(t *testing.T) {
	records := []survey.ParticipantRecord{
		{ID: "P1", AScore: 40, BScore: 41, Judgments: [3]survey.Judgment{survey.JudgmentEffective}},
		{ID: "P2", AScore: 40, BScore: 41, Judgments: [3]survey.Judgment{survey.JudgmentEffective}},
		{ID: "P3", AScore: 40, BScore: 41, Judgments: [3]survey.Judgment{survey.JudgmentEffective}},
		{ID: "P4", AScore: 40, BScore: 38, Judgments: [3]survey.Judgment{survey.JudgmentAdverse}},
		{ID: "P5", AScore: 40, BScore: 36, Judgments: [3]survey.Judgment{survey.JudgmentAdverse}},
		{ID: "P6", AScore: 40, BScore: 39, Judgments: [3]survey.Judgment{survey.JudgmentAdverse}},
	}

	c, err := NewGroupComparer(0.05, internal.Discard()).Compare(records, survey.Elements[0])
	require.NoError(t, err)
	assert.True(t, c.AllNormal)
	require.NotNil(t, c.Normality[0].Result)
	assert.Equal(t, 1.0, c.Normality[0].Result.Statistic)
	assert.Equal(t, 1.0, c.Normality[0].Result.PValue)
	assert.True(t, c.Normality[0].Normal)

	require.True(t, c.Compared())
	assert.Equal(t, domainstats.TestTTest, c.Test.Test)
	assert.InDelta(t, (10.0/3.0)/math.Sqrt(7.0/9.0), math.Abs(c.Test.Statistic), 1e-9)
	assert.Equal(t, 4.0, c.Test.DF1)
}

func TestSTAIService_ConstantConditionCountsAsNormal(t *testing.T) {
	svc := &STAIService{logger: internal.Discard()}
	res := svc.shapiro("A", []float64{40, 40, 40, 40})
	require.NotNil(t, res)
	assert.Equal(t, 1.0, res.Statistic)
	assert.Equal(t, 1.0, res.PValue)
}
