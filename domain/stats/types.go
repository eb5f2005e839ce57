package stats

import (
	"fmt"
	"math"
)

// TestType identifies a significance test
type TestType string

const (
	TestShapiroWilk   TestType = "shapiro_wilk"   // Shapiro-Wilk normality test
	TestLevene        TestType = "levene"         // Levene (median-centred) variance homogeneity
	TestPairedT       TestType = "paired_t"       // Paired-samples t-test
	TestWilcoxon      TestType = "wilcoxon"       // Wilcoxon signed-rank test
	TestTTest         TestType = "ttest"          // Student's t-test, pooled variance
	TestMannWhitney   TestType = "mann_whitney"   // Mann-Whitney U test
	TestANOVA         TestType = "anova"          // One-way analysis of variance
	TestKruskalWallis TestType = "kruskal_wallis" // Kruskal-Wallis test
	TestSpearman      TestType = "spearman"       // Spearman rank correlation
)

// DisplayName returns the label used in reports.
func (t TestType) DisplayName() string {
	switch t {
	case TestShapiroWilk:
		return "Shapiro-Wilk"
	case TestLevene:
		return "Levene"
	case TestPairedT:
		return "Paired t-test"
	case TestWilcoxon:
		return "Wilcoxon signed-rank"
	case TestTTest:
		return "t-test"
	case TestMannWhitney:
		return "Mann-Whitney U"
	case TestANOVA:
		return "ANOVA"
	case TestKruskalWallis:
		return "Kruskal-Wallis"
	case TestSpearman:
		return "Spearman"
	}
	return string(t)
}

// Parametric reports whether the test assumes normally distributed groups.
func (t TestType) Parametric() bool {
	switch t {
	case TestPairedT, TestTTest, TestANOVA:
		return true
	}
	return false
}

// Summary contains basic descriptive statistics. StdDev is the sample (n-1) deviation.
type Summary struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// TestResult is the outcome of one significance test.
// DF2 is only set for F-distributed statistics.
type TestResult struct {
	Test      TestType `json:"test"`
	Statistic float64  `json:"statistic"`
	DF1       float64  `json:"df1,omitempty"`
	DF2       float64  `json:"df2,omitempty"`
	PValue    float64  `json:"p_value"`
	Exact     bool     `json:"exact,omitempty"` // p-value from the exact null distribution
}

// Significance returns the star marker for the result at conventional levels.
func (r TestResult) Significance() Significance {
	return SignificanceOf(r.PValue)
}

// StatisticString renders the statistic the way it is written in a results section,
// e.g. "F(2, 24) = 1.234", "H = 2.345", "t(27) = -0.456", "U = 12.000".
func (r TestResult) StatisticString() string {
	switch r.Test {
	case TestANOVA, TestLevene:
		return fmt.Sprintf("F(%g, %g) = %.3f", r.DF1, r.DF2, r.Statistic)
	case TestKruskalWallis:
		return fmt.Sprintf("H = %.3f", r.Statistic)
	case TestTTest, TestPairedT:
		return fmt.Sprintf("t(%g) = %.3f", r.DF1, r.Statistic)
	case TestMannWhitney:
		return fmt.Sprintf("U = %.3f", r.Statistic)
	case TestWilcoxon:
		return fmt.Sprintf("W = %.1f", r.Statistic)
	case TestShapiroWilk:
		return fmt.Sprintf("W = %.4f", r.Statistic)
	case TestSpearman:
		return fmt.Sprintf("ρ = %.3f", r.Statistic)
	}
	return fmt.Sprintf("%.3f", r.Statistic)
}

// Significance is a star marker: "***", "**", "*" or "n.s.".
type Significance string

const (
	SigP001        Significance = "***"
	SigP01         Significance = "**"
	SigP05         Significance = "*"
	NotSignificant Significance = "n.s."
)

// SignificanceOf classifies a p-value at the .001/.01/.05 levels.
func SignificanceOf(p float64) Significance {
	switch {
	case p < 0.001:
		return SigP001
	case p < 0.01:
		return SigP01
	case p < 0.05:
		return SigP05
	}
	return NotSignificant
}

// EffectMagnitude classifies η² following Cohen (1988).
type EffectMagnitude string

const (
	EffectLarge      EffectMagnitude = "large"
	EffectMedium     EffectMagnitude = "medium"
	EffectSmall      EffectMagnitude = "small"
	EffectNegligible EffectMagnitude = "negligible"
)

// ClassifyEtaSquared maps η² onto small (≥.01), medium (≥.06) and large (≥.14).
func ClassifyEtaSquared(eta float64) EffectMagnitude {
	switch {
	case eta >= 0.14:
		return EffectLarge
	case eta >= 0.06:
		return EffectMedium
	case eta >= 0.01:
		return EffectSmall
	}
	return EffectNegligible
}

// FormatPValue writes p in APA style with three decimals and no leading zero.
func FormatPValue(p float64) string {
	if p < 0.001 {
		return "p < .001"
	}
	rounded := math.Round(p*1000) / 1000
	if rounded >= 1 {
		return "p = 1.000"
	}
	return fmt.Sprintf("p = .%03d", int(math.Round(rounded*1000)))
}
