package app

import (
	"fmt"
	"math"
	"strings"

	"gostai/adapters/stats/inference"
	domainstats "gostai/domain/stats"
	"gostai/domain/survey"
	"gostai/internal"
)

// minNormalityN is the smallest group Shapiro-Wilk accepts
const minNormalityN = 3

// GroupSummary holds the ΔSTAI-S descriptives of one judgment group
type GroupSummary struct {
	Judgment survey.Judgment
	Summary  domainstats.Summary
	Deltas   []float64
}

// GroupNormality is the Shapiro-Wilk outcome for one judgment group.
// Result is nil when the test could not run; such groups count as non-normal.
type GroupNormality struct {
	Judgment survey.Judgment
	N        int
	Result   *domainstats.TestResult
	Normal   bool
	Note     string
}

// GroupComparison is the full between-group analysis of one element
type GroupComparison struct {
	Element    survey.Element
	Excluded   int
	Analyzed   int
	Groups     []GroupSummary
	Normality  []GroupNormality
	AllNormal  bool
	Levene     *domainstats.TestResult
	Test       *domainstats.TestResult
	Note       string // set when no group test was run
	EtaSquared float64
	Effect     domainstats.EffectMagnitude
}

// Compared reports whether a group test produced a result
func (c *GroupComparison) Compared() bool {
	return c.Test != nil
}

// GroupNames lists the judgment labels of the compared groups
func (c *GroupComparison) GroupNames() []string {
	names := make([]string, len(c.Groups))
	for i, g := range c.Groups {
		names[i] = string(g.Judgment)
	}
	return names
}

// Rationale explains which test was chosen
func (c *GroupComparison) Rationale() string {
	if c.Test == nil {
		return c.Note
	}
	kind := "non-parametric"
	if c.Test.Test.Parametric() {
		kind = "parametric"
	}
	normality := "at least one group non-normal or n < 3"
	if c.AllNormal {
		normality = "all groups normal"
	}
	return fmt.Sprintf("%d groups, %s → %s (%s)", len(c.Groups), normality, c.Test.Test.DisplayName(), kind)
}

// SummaryLine renders the result the way it goes into the thesis text,
// e.g. "Kruskal-Wallis: H = 5.848, p = .054, η² = 0.95 n.s."
func (c *GroupComparison) SummaryLine() string {
	if c.Test == nil {
		return c.Note
	}
	return fmt.Sprintf("%s: %s, %s, η² = %.2f %s",
		c.Test.Test.DisplayName(),
		c.Test.StatisticString(),
		domainstats.FormatPValue(c.Test.PValue),
		c.EtaSquared,
		c.Test.Significance())
}

// GroupComparer runs the shared judgment-group analysis
type GroupComparer struct {
	alpha  float64
	logger *internal.Logger
}

// NewGroupComparer creates a comparer using alpha as the normality threshold
func NewGroupComparer(alpha float64, logger *internal.Logger) *GroupComparer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &GroupComparer{alpha: alpha, logger: logger}
}

// Compare groups records by their judgment on element e and tests the ΔSTAI-S
// difference between groups. Tests that cannot run are reported through Note.
func (g *GroupComparer) Compare(records []survey.ParticipantRecord, e survey.Element) (*GroupComparison, error) {
	groups, excluded := survey.GroupByJudgment(records, e)
	c := &GroupComparison{
		Element:  e,
		Excluded: excluded,
		Analyzed: len(records) - excluded,
	}

	data := make([][]float64, len(groups))
	for i, grp := range groups {
		summary, err := inference.Describe(grp.Deltas)
		if err != nil {
			return nil, fmt.Errorf("%s group %s: %w", e.Column, grp.Judgment, err)
		}
		c.Groups = append(c.Groups, GroupSummary{Judgment: grp.Judgment, Summary: summary, Deltas: grp.Deltas})
		data[i] = grp.Deltas
	}

	if len(groups) < 2 {
		c.Note = fmt.Sprintf("only %d judgment group(s) with data; group comparison skipped", len(groups))
		g.logger.Warn("[GroupComparer] %s: %s", e.Column, c.Note)
		return c, nil
	}

	c.AllNormal = true
	for _, grp := range c.Groups {
		gn := g.normality(grp)
		if !gn.Normal {
			c.AllNormal = false
		}
		c.Normality = append(c.Normality, gn)
	}

	if allAtLeast(data, 2) {
		lev, err := inference.Levene(data)
		if err != nil {
			g.logger.Debug("[GroupComparer] %s: Levene skipped: %v", e.Column, err)
		} else {
			c.Levene = &lev
		}
	}

	res, err := g.groupTest(data, c.AllNormal)
	if err != nil {
		c.Note = fmt.Sprintf("group test could not run: %v", err)
		g.logger.Warn("[GroupComparer] %s: %s", e.Column, c.Note)
		return c, nil
	}
	c.Test = &res
	c.EtaSquared = inference.EtaSquared(data)
	c.Effect = domainstats.ClassifyEtaSquared(c.EtaSquared)

	g.logger.Debug("[GroupComparer] %s: %s", e.Column, c.SummaryLine())
	return c, nil
}

func (g *GroupComparer) normality(grp GroupSummary) GroupNormality {
	gn := GroupNormality{Judgment: grp.Judgment, N: len(grp.Deltas)}
	if gn.N < minNormalityN {
		gn.Note = "n < 3, test skipped; treated as non-normal"
		return gn
	}
	res, err := inference.ShapiroWilk(grp.Deltas)
	if err != nil {
		gn.Note = err.Error()
		return gn
	}
	gn.Result = &res
	gn.Normal = res.PValue >= g.alpha
	return gn
}

func (g *GroupComparer) groupTest(data [][]float64, allNormal bool) (domainstats.TestResult, error) {
	if len(data) == 2 {
		if allNormal {
			return inference.TTest(data[0], data[1])
		}
		return inference.MannWhitneyU(data[0], data[1])
	}
	if allNormal {
		return inference.OneWayANOVA(data)
	}
	return inference.KruskalWallis(data)
}

func allAtLeast(groups [][]float64, n int) bool {
	for _, grp := range groups {
		if len(grp) < n {
			return false
		}
	}
	return true
}

// normalityRows formats GroupNormality for a report table
func normalityRows(items []GroupNormality) [][]string {
	rows := make([][]string, 0, len(items))
	for _, gn := range items {
		if gn.Result == nil {
			rows = append(rows, []string{string(gn.Judgment), fmt.Sprint(gn.N), "-", "-", gn.Note})
			continue
		}
		verdict := "non-normal"
		if gn.Normal {
			verdict = "normal"
		}
		rows = append(rows, []string{
			string(gn.Judgment),
			fmt.Sprint(gn.N),
			fmt.Sprintf("%.4f", gn.Result.Statistic),
			fmt.Sprintf("%.4f", gn.Result.PValue),
			verdict,
		})
	}
	return rows
}

// groupRows formats group descriptives for a report table
func groupRows(groups []GroupSummary) [][]string {
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		s := g.Summary
		rows = append(rows, []string{
			string(g.Judgment),
			fmt.Sprint(s.N),
			fmt.Sprintf("%+.2f", s.Mean),
			formatSD(s.StdDev),
			fmt.Sprintf("%+.1f", s.Median),
			fmt.Sprintf("[%+.0f, %+.0f]", s.Min, s.Max),
		})
	}
	return rows
}

var (
	groupHeaders     = []string{"Group", "n", "Mean Δ", "SD", "Median", "Range"}
	normalityHeaders = []string{"Group", "n", "W", "p", "Verdict"}
)

func formatSD(sd float64) string {
	if math.IsNaN(sd) {
		return "-"
	}
	return fmt.Sprintf("%.2f", sd)
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
