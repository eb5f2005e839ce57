package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignificanceOf(t *testing.T) {
	tests := []struct {
		p    float64
		want Significance
	}{
		{0.0004, SigP001},
		{0.001, SigP01},
		{0.0099, SigP01},
		{0.01, SigP05},
		{0.049, SigP05},
		{0.05, NotSignificant},
		{0.8, NotSignificant},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SignificanceOf(tt.p), "p=%v", tt.p)
	}
}

func TestClassifyEtaSquared(t *testing.T) {
	assert.Equal(t, EffectLarge, ClassifyEtaSquared(0.14))
	assert.Equal(t, EffectMedium, ClassifyEtaSquared(0.0600))
	assert.Equal(t, EffectSmall, ClassifyEtaSquared(0.013))
	assert.Equal(t, EffectNegligible, ClassifyEtaSquared(0.0099))
	assert.Equal(t, EffectNegligible, ClassifyEtaSquared(0))
}

func TestFormatPValue(t *testing.T) {
	assert.Equal(t, "p < .001", FormatPValue(0.0002))
	assert.Equal(t, "p = .001", FormatPValue(0.001))
	assert.Equal(t, "p = .057", FormatPValue(0.057))
	assert.Equal(t, "p = .050", FormatPValue(0.0496))
	assert.Equal(t, "p = .430", FormatPValue(0.43))
	assert.Equal(t, "p = 1.000", FormatPValue(0.9996))
	assert.Equal(t, "p = 1.000", FormatPValue(1))
}

func TestStatisticString(t *testing.T) {
	assert.Equal(t, "F(2, 24) = 1.500", TestResult{Test: TestANOVA, Statistic: 1.5, DF1: 2, DF2: 24}.StatisticString())
	assert.Equal(t, "H = 7.200", TestResult{Test: TestKruskalWallis, Statistic: 7.2}.StatisticString())
	assert.Equal(t, "t(27) = -0.456", TestResult{Test: TestTTest, Statistic: -0.4561, DF1: 27}.StatisticString())
	assert.Equal(t, "U = 12.000", TestResult{Test: TestMannWhitney, Statistic: 12}.StatisticString())
}

func TestParametric(t *testing.T) {
	assert.True(t, TestANOVA.Parametric())
	assert.True(t, TestTTest.Parametric())
	assert.False(t, TestKruskalWallis.Parametric())
	assert.False(t, TestMannWhitney.Parametric())
}
