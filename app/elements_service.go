package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"gostai/domain/core"
	"gostai/domain/survey"
	"gostai/internal"
	"gostai/internal/config"
	apperrors "gostai/internal/errors"
	"gostai/internal/report"
	"gostai/ports"
)

// Summary file names written by the elements pipeline
const (
	SummaryCSVFile  = "analysis_summary.csv"
	SummaryXLSXFile = "analysis_summary.xlsx"
)

// SummaryHeaders are the columns of the summary table
var SummaryHeaders = []string{"Element", "n_groups", "group_names", "p_value", "significance", "effect_size"}

// ElementChartFile returns the chart file name for element e
func ElementChartFile(e survey.Element) string {
	return fmt.Sprintf("element%d_group_comparison.png", e.Index)
}

// ElementsResult holds the per-element group analysis and written files
type ElementsResult struct {
	ReportID    core.ID
	Source      string
	Dataset     core.Hash
	N           int
	Comparisons []*GroupComparison
	Charts      []string
	Summary     ports.SummaryTable
	Files       []string
}

// ElementsService runs the element/group analysis with charts and a summary table
type ElementsService struct {
	reader    ports.SurveyReader
	charts    ports.ChartRenderer
	summaries []summaryTarget
	comparer  *GroupComparer
	config    *config.Config
	logger    *internal.Logger
}

type summaryTarget struct {
	file   string
	writer ports.SummaryWriter
}

// NewElementsService creates the elements pipeline. csv receives analysis_summary.csv;
// xlsx, when non-nil, also receives analysis_summary.xlsx. charts may be nil.
func NewElementsService(reader ports.SurveyReader, charts ports.ChartRenderer, csv, xlsx ports.SummaryWriter, cfg *config.Config, logger *internal.Logger) *ElementsService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &ElementsService{
		reader:   reader,
		charts:   charts,
		comparer: NewGroupComparer(cfg.Analysis.Alpha, logger),
		config:   cfg,
		logger:   logger,
	}
	if csv != nil {
		s.summaries = append(s.summaries, summaryTarget{file: SummaryCSVFile, writer: csv})
	}
	if xlsx != nil {
		s.summaries = append(s.summaries, summaryTarget{file: SummaryXLSXFile, writer: xlsx})
	}
	return s
}

// Run compares ΔSTAI-S between judgment groups, draws one chart per element
// and writes the summary table
func (s *ElementsService) Run(ctx context.Context) (*ElementsResult, error) {
	ds, records, err := loadComplete(ctx, s.reader, s.logger)
	if err != nil {
		return nil, err
	}
	s.logger.Info("[ElementsService] Analyzing %s", participants(len(records)))

	res := &ElementsResult{
		ReportID: core.NewReportID("elements", ds.Hash),
		Source:   ds.Source,
		Dataset:  ds.Hash,
		N:        len(records),
		Summary:  ports.SummaryTable{Headers: SummaryHeaders},
	}

	for _, e := range survey.Elements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c, err := s.comparer.Compare(records, e)
		if err != nil {
			return nil, apperrors.Wrapf(err, "group comparison for %s", e.Column)
		}
		res.Comparisons = append(res.Comparisons, c)

		if !c.Compared() {
			continue
		}
		res.Summary.Rows = append(res.Summary.Rows, summaryRow(c))

		if s.config.Plot.Enabled && s.charts != nil {
			path, err := renderChart(s.charts, s.config.Output.Dir, ElementChartFile(e), elementChart(c))
			if err != nil {
				return nil, err
			}
			res.Charts = append(res.Charts, path)
			s.logger.Info("[ElementsService] Chart saved: %s", path)
		}
	}

	if len(s.summaries) > 0 {
		if err := ensureDir(s.config.Output.Dir); err != nil {
			return nil, err
		}
	}
	for _, target := range s.summaries {
		path := filepath.Join(s.config.Output.Dir, target.file)
		if err := target.writer.WriteSummary(path, res.Summary); err != nil {
			return nil, apperrors.OutputError(fmt.Sprintf("failed to write %s", target.file), err)
		}
		res.Files = append(res.Files, path)
		s.logger.Info("[ElementsService] Summary saved: %s", path)
	}

	return res, nil
}

func summaryRow(c *GroupComparison) []string {
	return []string{
		c.Element.Name,
		strconv.Itoa(len(c.Groups)),
		joinNames(c.GroupNames()),
		strconv.FormatFloat(c.Test.PValue, 'g', -1, 64),
		string(c.Test.Significance()),
		strconv.FormatFloat(c.EtaSquared, 'g', -1, 64),
	}
}

func elementChart(c *GroupComparison) ports.BoxChart {
	chart := ports.BoxChart{
		Title:  fmt.Sprintf("Element %d: ΔSTAI-S by judgment group", c.Element.Index),
		YLabel: "ΔSTAI-S (condition B - condition A)",
		Annotation: fmt.Sprintf("%s: p = %.4f %s, η² = %.3f",
			c.Test.Test.DisplayName(), c.Test.PValue, c.Test.Significance(), c.EtaSquared),
		ZeroLine: true,
	}
	for _, g := range c.Groups {
		chart.Groups = append(chart.Groups, ports.ChartGroup{Label: g.Judgment.English(), Values: g.Deltas})
	}
	return chart
}

// Document renders the result as a report
func (r *ElementsResult) Document() *report.Document {
	doc := report.NewDocument("Element judgment group analysis", r.ReportID.String(), r.Source)
	doc.Checksum = r.Dataset.Short()
	doc.AddSection("Data").Textf("Participants: %d", r.N)

	for _, c := range r.Comparisons {
		sec := doc.AddSection(c.Element.Name)
		if c.Excluded > 0 {
			sec.Notef("%d excluded as データ不足", c.Excluded)
		}
		if len(c.Groups) > 0 {
			sec.Textf("Descriptive statistics")
			sec.AddTable(groupHeaders, groupRows(c.Groups))
		}
		if len(c.Normality) == 0 {
			sec.Notef("%s", c.Note)
			continue
		}

		sec.Textf("Normality (Shapiro-Wilk)")
		sec.AddTable(normalityHeaders, normalityRows(c.Normality))

		if c.Levene != nil {
			homogeneity := "equal variances"
			if c.Levene.PValue < 0.05 {
				homogeneity = "unequal variances"
			}
			sec.Textf("Levene: F = %.4f, p = %.4f (%s)", c.Levene.Statistic, c.Levene.PValue, homogeneity)
		} else {
			sec.Notef("Levene test skipped: every group needs n ≥ 2")
		}

		if !c.Compared() {
			sec.Notef("%s", c.Note)
			continue
		}
		sec.Keyf("%s: %s, p = %.4f %s", c.Test.Test.DisplayName(), c.Test.StatisticString(), c.Test.PValue, c.Test.Significance())
		sec.Textf("Effect size (η²): %.3f (%s)", c.EtaSquared, c.Effect)
	}

	rows := make([][]string, 0, len(r.Comparisons))
	for _, c := range r.Comparisons {
		if !c.Compared() {
			continue
		}
		rows = append(rows, []string{
			c.Element.Name,
			strconv.Itoa(len(c.Groups)),
			joinNames(c.GroupNames()),
			fmt.Sprintf("%.4f", c.Test.PValue),
			string(c.Test.Significance()),
			fmt.Sprintf("%.3f", c.EtaSquared),
		})
	}
	doc.AddSection("Summary").AddTable(SummaryHeaders, rows)

	if len(r.Charts)+len(r.Files) > 0 {
		files := doc.AddSection("Files")
		for _, p := range r.Charts {
			files.Textf("Chart: %s", p)
		}
		for _, p := range r.Files {
			files.Textf("Summary: %s", p)
		}
	}
	return doc
}
