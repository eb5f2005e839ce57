package ports

// ChartGroup is one box in a box-and-points chart
type ChartGroup struct {
	Label  string
	Values []float64
}

// BoxChart describes a comparison chart of one or more groups
type BoxChart struct {
	Title      string
	YLabel     string
	Groups     []ChartGroup
	Annotation string // free text drawn in the upper-left corner
	ZeroLine   bool   // draw a dashed reference line at y = 0
}

// ChartRenderer writes a chart to an image file
type ChartRenderer interface {
	RenderBoxChart(path string, chart BoxChart) error
}
