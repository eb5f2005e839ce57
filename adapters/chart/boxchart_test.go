package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"gostai/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func sampleChart() ports.BoxChart {
	return ports.BoxChart{
		Title:  "Element 1",
		YLabel: "ΔSTAI-S (B - A)",
		Groups: []ports.ChartGroup{
			{Label: "Effective", Values: []float64{4, 5, 6, 5}},
			{Label: "Unchanged", Values: []float64{-1, -3}},
			{Label: "Adverse", Values: []float64{0}},
		},
		Annotation: "Kruskal-Wallis: H = 5.848, p = .054",
		ZeroLine:   true,
	}
}

func TestBoxChartRenderer_WritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.png")

	err := NewBoxChartRenderer(42, 72).RenderBoxChart(path, sampleChart())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngSignature))
}

func TestBoxChartRenderer_SameSeedSameImage(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.png")
	second := filepath.Join(dir, "b.png")

	r := NewBoxChartRenderer(7, 72)
	require.NoError(t, r.RenderBoxChart(first, sampleChart()))
	require.NoError(t, r.RenderBoxChart(second, sampleChart()))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBoxChartRenderer_RejectsEmptyGroups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.png")
	r := NewBoxChartRenderer(42, 72)

	assert.Error(t, r.RenderBoxChart(path, ports.BoxChart{Title: "empty"}))

	chart := sampleChart()
	chart.Groups = append(chart.Groups, ports.ChartGroup{Label: "Nothing"})
	assert.Error(t, r.RenderBoxChart(path, chart))
}
