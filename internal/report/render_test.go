package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *Document {
	doc := NewDocument("Composite analysis", "3f0c7a1e", "survey.csv")
	doc.Checksum = "9b1d2f0c44ae"
	doc.AddSection("Overall ΔSTAI-S").
		Textf("Mean = %.2f, SD = %.2f", 1.875, 3.482).
		AddTable([]string{"Group", "n", "Mean"}, [][]string{{"有効", "4", "5.00"}, {"a|b", "2", "-2.00"}})
	doc.AddSection("Element 2").
		Notef("fewer than two groups").
		Keyf("Kruskal-Wallis: H = 5.848, p = .054, η² = 0.95 n.s.")
	return doc
}

func TestNewRenderer(t *testing.T) {
	for _, format := range []string{"text", "markdown", "html"} {
		r, err := NewRenderer(format, false)
		require.NoError(t, err, format)
		assert.NotNil(t, r)
	}

	_, err := NewRenderer("pdf", false)
	assert.Error(t, err)
}

func TestTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextRenderer(false).Render(&buf, sampleDocument()))

	out := buf.String()
	assert.Contains(t, out, "Composite analysis")
	assert.Contains(t, out, "Report ID: 3f0c7a1e")
	assert.Contains(t, out, "SHA-256: 9b1d2f0c44ae")
	assert.Contains(t, out, "【Overall ΔSTAI-S】")
	assert.Contains(t, out, "有効")
	assert.Contains(t, out, "Note: fewer than two groups")
	assert.Contains(t, out, "→ Kruskal-Wallis")
	assert.NotContains(t, out, "\x1b[")
}

func TestMarkdownRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&MarkdownRenderer{}).Render(&buf, sampleDocument()))

	out := buf.String()
	assert.Contains(t, out, "# Composite analysis\n")
	assert.Contains(t, out, "## Element 2\n")
	assert.Contains(t, out, "| Group | n | Mean |\n| --- | --- | --- |\n")
	assert.Contains(t, out, `| a\|b | 2 | -2.00 |`)
	assert.Contains(t, out, "*Note: fewer than two groups*")
	assert.Contains(t, out, "**Kruskal-Wallis: H = 5.848, p = .054, η² = 0.95 n.s.**")
}

func TestHTMLRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&HTMLRenderer{}).Render(&buf, sampleDocument()))

	out := buf.String()
	assert.Contains(t, out, "<title>Composite analysis</title>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<h2")
	assert.Contains(t, out, "有効")
}
