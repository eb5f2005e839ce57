package app

import (
	"context"
	"fmt"
	"math"

	"gostai/adapters/stats/inference"
	"gostai/domain/core"
	domainstats "gostai/domain/stats"
	"gostai/domain/survey"
	"gostai/internal"
	"gostai/internal/config"
	apperrors "gostai/internal/errors"
	"gostai/internal/report"
	"gostai/ports"
)

// STAIChartFile is the condition comparison chart written by the STAI pipeline
const STAIChartFile = "stai_condition_comparison.png"

// ElementCorrelation is Spearman's ρ between an element's coded judgment and ΔSTAI-S
type ElementCorrelation struct {
	Element survey.Element
	N       int
	Result  *domainstats.TestResult // nil when not computable
	Note    string
}

// FrequencyRow counts one judgment value for an element
type FrequencyRow struct {
	Judgment  survey.Judgment
	Count     int
	Percent   float64
	MeanDelta float64 // NaN when Count is 0
}

// ElementFrequency is the judgment distribution of one element
type ElementFrequency struct {
	Element survey.Element
	Rows    []FrequencyRow
}

// STAIResult holds the paired A vs B analysis
type STAIResult struct {
	ReportID core.ID
	Source   string
	Dataset  core.Hash
	N        int
	Excluded int

	A, B, Delta domainstats.Summary

	NormalityA, NormalityB *domainstats.TestResult
	BothNormal             bool
	Recommended            domainstats.TestType

	PairedT  domainstats.TestResult
	CohensD  float64
	MeanDiff float64 // mean of A - B
	SDDiff   float64
	Wilcoxon domainstats.TestResult

	Correlations []ElementCorrelation
	Frequencies  []ElementFrequency

	Alpha     float64
	ChartPath string
}

// STAIService runs the STAI-S condition comparison
type STAIService struct {
	reader ports.SurveyReader
	charts ports.ChartRenderer
	config *config.Config
	logger *internal.Logger
}

// NewSTAIService creates the STAI pipeline. charts may be nil to skip plotting.
func NewSTAIService(reader ports.SurveyReader, charts ports.ChartRenderer, cfg *config.Config, logger *internal.Logger) *STAIService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &STAIService{reader: reader, charts: charts, config: cfg, logger: logger}
}

// Run loads the survey and computes the paired comparison, correlations and frequencies
func (s *STAIService) Run(ctx context.Context) (*STAIResult, error) {
	ds, records, err := loadComplete(ctx, s.reader, s.logger)
	if err != nil {
		return nil, err
	}
	s.logger.Info("[STAIService] Analyzing %s", participants(len(records)))

	a, b, delta := survey.Scores(records)
	res := &STAIResult{
		ReportID: core.NewReportID("stai", ds.Hash),
		Source:   ds.Source,
		Dataset:  ds.Hash,
		N:        len(records),
		Excluded: len(ds.Records) - len(records),
		Alpha:    s.config.Analysis.Alpha,
	}

	if res.A, err = inference.Describe(a); err != nil {
		return nil, apperrors.Wrap(err, "condition A descriptives")
	}
	if res.B, err = inference.Describe(b); err != nil {
		return nil, apperrors.Wrap(err, "condition B descriptives")
	}
	if res.Delta, err = inference.Describe(delta); err != nil {
		return nil, apperrors.Wrap(err, "ΔSTAI-S descriptives")
	}

	res.NormalityA = s.shapiro("A", a)
	res.NormalityB = s.shapiro("B", b)
	res.BothNormal = res.NormalityA != nil && res.NormalityB != nil &&
		res.NormalityA.PValue > res.Alpha && res.NormalityB.PValue > res.Alpha
	res.Recommended = domainstats.TestWilcoxon
	if res.BothNormal {
		res.Recommended = domainstats.TestPairedT
	}

	if res.PairedT, err = inference.PairedTTest(a, b); err != nil {
		return nil, apperrors.Wrap(err, "paired t-test failed")
	}
	if res.CohensD, res.MeanDiff, res.SDDiff, err = inference.PairedCohensD(a, b); err != nil {
		return nil, apperrors.Wrap(err, "Cohen's d failed")
	}
	if res.Wilcoxon, err = inference.Wilcoxon(a, b); err != nil {
		return nil, apperrors.Wrap(err, "Wilcoxon signed-rank test failed")
	}

	for _, e := range survey.Elements {
		res.Correlations = append(res.Correlations, s.correlate(records, e))
		res.Frequencies = append(res.Frequencies, frequencies(records, e))
	}

	if s.config.Plot.Enabled && s.charts != nil {
		chart := ports.BoxChart{
			Title:  "STAI-S by condition",
			YLabel: "STAI-S score",
			Groups: []ports.ChartGroup{
				{Label: "Condition A", Values: a},
				{Label: "Condition B", Values: b},
			},
			Annotation: fmt.Sprintf("Paired t-test: %s, %s %s",
				res.PairedT.StatisticString(), domainstats.FormatPValue(res.PairedT.PValue), res.PairedT.Significance()),
		}
		if res.ChartPath, err = renderChart(s.charts, s.config.Output.Dir, STAIChartFile, chart); err != nil {
			return nil, err
		}
		s.logger.Info("[STAIService] Chart saved: %s", res.ChartPath)
	}

	return res, nil
}

func (s *STAIService) shapiro(label string, data []float64) *domainstats.TestResult {
	r, err := inference.ShapiroWilk(data)
	if err != nil {
		s.logger.Warn("[STAIService] Shapiro-Wilk on condition %s skipped: %v", label, err)
		return nil
	}
	return &r
}

func (s *STAIService) correlate(records []survey.ParticipantRecord, e survey.Element) ElementCorrelation {
	var codes, deltas []float64
	for _, r := range records {
		if score, ok := r.Judgment(e).Score(); ok {
			codes = append(codes, score)
			deltas = append(deltas, r.Delta())
		}
	}

	ec := ElementCorrelation{Element: e, N: len(codes)}
	if ec.N <= 2 {
		ec.Note = "insufficient data"
		return ec
	}
	r, err := inference.Spearman(codes, deltas)
	if err != nil {
		s.logger.Warn("[STAIService] Spearman for %s skipped: %v", e.Column, err)
		ec.Note = "not computable (constant coding or ΔSTAI-S)"
		return ec
	}
	ec.Result = &r
	return ec
}

func frequencies(records []survey.ParticipantRecord, e survey.Element) ElementFrequency {
	ef := ElementFrequency{Element: e}
	for _, j := range survey.AllJudgments {
		row := FrequencyRow{Judgment: j, MeanDelta: math.NaN()}
		sum := 0.0
		for _, r := range records {
			if r.Judgment(e) == j {
				row.Count++
				sum += r.Delta()
			}
		}
		if len(records) > 0 {
			row.Percent = float64(row.Count) / float64(len(records)) * 100
		}
		if row.Count > 0 {
			row.MeanDelta = sum / float64(row.Count)
		}
		ef.Rows = append(ef.Rows, row)
	}
	return ef
}

// Document renders the result as a report
func (r *STAIResult) Document() *report.Document {
	doc := report.NewDocument("STAI-S statistical analysis", r.ReportID.String(), r.Source)
	doc.Checksum = r.Dataset.Short()

	overview := doc.AddSection("Data overview")
	overview.Textf("Participants: %d", r.N)
	if r.Excluded > 0 {
		overview.Notef("%s without both scores excluded", participants(r.Excluded))
	}
	overview.AddTable([]string{"Measure", "Mean", "SD"}, [][]string{
		{"Condition A", fmt.Sprintf("%.2f", r.A.Mean), formatSD(r.A.StdDev)},
		{"Condition B", fmt.Sprintf("%.2f", r.B.Mean), formatSD(r.B.StdDev)},
		{"ΔSTAI-S (B - A)", fmt.Sprintf("%+.2f", r.Delta.Mean), formatSD(r.Delta.StdDev)},
	})

	paired := doc.AddSection("1. Paired t-test (condition A vs condition B)")
	paired.Textf("Normality (Shapiro-Wilk):")
	paired.AddTable([]string{"Condition", "W", "p"}, [][]string{
		shapiroRow("A", r.NormalityA),
		shapiroRow("B", r.NormalityB),
	})
	if r.BothNormal {
		paired.Textf("Both conditions normal: paired t-test applies")
	} else {
		paired.Textf("Normality not confirmed: Wilcoxon signed-rank test recommended")
	}
	paired.Keyf("%s, p = %.4f %s", r.PairedT.StatisticString(), r.PairedT.PValue, r.PairedT.Significance())
	paired.Textf("Cohen's d = %.3f (difference scores: mean_diff = %.3f, SD_diff = %.3f)", r.CohensD, r.MeanDiff, r.SDDiff)

	wilcoxon := doc.AddSection("2. Wilcoxon signed-rank test (non-parametric)")
	method := "normal approximation"
	if r.Wilcoxon.Exact {
		method = "exact distribution"
	}
	wilcoxon.Keyf("%s, p = %.4f %s", r.Wilcoxon.StatisticString(), r.Wilcoxon.PValue, r.Wilcoxon.Significance())
	wilcoxon.Notef("p-value from the %s", method)

	corr := doc.AddSection("3. Correlation of ΔSTAI-S with element judgments")
	corr.Textf("Spearman rank correlation (有効 = 1, 不変 = 0, 逆効果 = -1)")
	rows := make([][]string, 0, len(r.Correlations))
	for _, c := range r.Correlations {
		if c.Result == nil {
			rows = append(rows, []string{c.Element.Name, fmt.Sprint(c.N), "-", "-", c.Note})
			continue
		}
		rows = append(rows, []string{
			c.Element.Name,
			fmt.Sprint(c.N),
			fmt.Sprintf("%.3f", c.Result.Statistic),
			fmt.Sprintf("%.4f", c.Result.PValue),
			string(c.Result.Significance()),
		})
	}
	corr.AddTable([]string{"Element", "n", "ρ", "p", "Sig."}, rows)

	freq := doc.AddSection("4. Judgment frequencies by element")
	for _, f := range r.Frequencies {
		rows := make([][]string, 0, len(f.Rows))
		for _, row := range f.Rows {
			mean := "-"
			if row.Count > 0 {
				mean = fmt.Sprintf("%+.2f", row.MeanDelta)
			}
			rows = append(rows, []string{string(row.Judgment), fmt.Sprint(row.Count), fmt.Sprintf("%.1f%%", row.Percent), mean})
		}
		freq.Textf("%s", f.Element.Name)
		freq.AddTable([]string{"Judgment", "Count", "Percent", "Mean ΔSTAI-S"}, rows)
	}

	text := doc.AddSection("Reporting template")
	text.Textf("Methods: %s", r.MethodsText())
	text.Textf("Results: %s", r.ResultsText())

	if r.ChartPath != "" {
		doc.AddSection("Files").Textf("Chart: %s", r.ChartPath)
	}
	return doc
}

// MethodsText is the statistical-methods paragraph
func (r *STAIResult) MethodsText() string {
	return fmt.Sprintf("STAI-S scores of conditions A and B were compared with a paired t-test or a "+
		"Wilcoxon signed-rank test, chosen from Shapiro-Wilk normality tests. Associations between "+
		"ΔSTAI-S and each element judgment were assessed with Spearman's rank correlation. "+
		"The significance level was set at %g%%.", r.Alpha*100)
}

// ResultsText is the results paragraph filled with the computed values
func (r *STAIResult) ResultsText() string {
	verdict := "did not differ significantly"
	if r.PairedT.PValue < r.Alpha {
		verdict = "differed significantly"
	}
	return fmt.Sprintf("Condition A (M = %.2f, SD = %.2f) and condition B (M = %.2f, SD = %.2f) %s (%s, %s, %s).",
		r.A.Mean, r.A.StdDev, r.B.Mean, r.B.StdDev, verdict,
		r.PairedT.StatisticString(), domainstats.FormatPValue(r.PairedT.PValue), r.PairedT.Significance())
}

func shapiroRow(label string, res *domainstats.TestResult) []string {
	if res == nil {
		return []string{label, "-", "not computable"}
	}
	return []string{label, fmt.Sprintf("%.4f", res.Statistic), fmt.Sprintf("%.4f", res.PValue)}
}
