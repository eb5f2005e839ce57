package ports

// SummaryTable is a flat table written alongside the console report
type SummaryTable struct {
	Headers []string
	Rows    [][]string
}

// SummaryWriter persists a summary table to a file
type SummaryWriter interface {
	WriteSummary(path string, table SummaryTable) error
}
