package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gostai/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func summaryTable() ports.SummaryTable {
	return ports.SummaryTable{
		Headers: []string{"Element", "n_groups", "group_names", "p_value", "significance", "effect_size"},
		Rows: [][]string{
			{"Element1_Obligation", "3", "有効, 不変, 逆効果", "0.0537", "n.s.", "0.947"},
			{"Element3_Rejection", "2", "有効, 不変", "0.1322", "n.s.", "0.471"},
		},
	}
}

func TestCSVSummaryWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis_summary.csv")
	require.NoError(t, NewCSVSummaryWriter().WriteSummary(path, summaryTable()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.True(t, strings.HasPrefix(content, utf8BOM))
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(content, utf8BOM)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Element,n_groups,group_names,p_value,significance,effect_size", lines[0])
	assert.Equal(t, `Element1_Obligation,3,"有効, 不変, 逆効果",0.0537,n.s.,0.947`, lines[1])
}

func TestXLSXSummaryWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis_summary.xlsx")
	require.NoError(t, NewXLSXSummaryWriter().WriteSummary(path, summaryTable()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "group_names", rows[0][2])
	assert.Equal(t, "有効, 不変", rows[2][2])
}

func TestCSVSummaryWriter_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "summary.csv")
	assert.Error(t, NewCSVSummaryWriter().WriteSummary(path, summaryTable()))
}
