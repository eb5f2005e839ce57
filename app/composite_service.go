package app

import (
	"context"
	"fmt"

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

// CompositeResult relates the element judgments to ΔSTAI-S
type CompositeResult struct {
	ReportID    core.ID
	Source      string
	Dataset     core.Hash
	N           int
	Delta       domainstats.Summary
	Comparisons []*GroupComparison
}

// CompositeService runs the judgment-group comparison for every element
type CompositeService struct {
	reader   ports.SurveyReader
	comparer *GroupComparer
	logger   *internal.Logger
}

// NewCompositeService creates the composite pipeline
func NewCompositeService(reader ports.SurveyReader, cfg *config.Config, logger *internal.Logger) *CompositeService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &CompositeService{
		reader:   reader,
		comparer: NewGroupComparer(cfg.Analysis.Alpha, logger),
		logger:   logger,
	}
}

// Run loads the survey and compares ΔSTAI-S between judgment groups per element
func (s *CompositeService) Run(ctx context.Context) (*CompositeResult, error) {
	ds, records, err := loadComplete(ctx, s.reader, s.logger)
	if err != nil {
		return nil, err
	}
	s.logger.Info("[CompositeService] Analyzing %s", participants(len(records)))

	_, _, delta := survey.Scores(records)
	res := &CompositeResult{
		ReportID: core.NewReportID("composite", ds.Hash),
		Source:   ds.Source,
		Dataset:  ds.Hash,
		N:        len(records),
	}
	if res.Delta, err = inference.Describe(delta); err != nil {
		return nil, apperrors.Wrap(err, "ΔSTAI-S descriptives")
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
	}
	return res, nil
}

// Document renders the result as a report
func (r *CompositeResult) Document() *report.Document {
	doc := report.NewDocument("Composite analysis: element judgments and ΔSTAI-S", r.ReportID.String(), r.Source)
	doc.Checksum = r.Dataset.Short()

	doc.AddSection("Step 1: ΔSTAI-S (condition B - condition A)").
		Textf("Participants: %d", r.N).
		Textf("Overall mean: %+.2f (SD = %s)", r.Delta.Mean, formatSD(r.Delta.StdDev))

	for _, c := range r.Comparisons {
		sec := doc.AddSection(c.Element.Name)

		sec.Textf("Step 2: grouping")
		sec.Textf("Excluded as データ不足: %d  →  analyzed: %d", c.Excluded, c.Analyzed)
		if len(c.Groups) > 0 {
			sec.AddTable(groupHeaders, groupRows(c.Groups))
		}
		if len(c.Normality) == 0 {
			sec.Notef("%s", c.Note)
			continue
		}

		sec.Textf("Step 3: normality (Shapiro-Wilk)")
		sec.AddTable(normalityHeaders, normalityRows(c.Normality))

		sec.Textf("Step 4: group comparison")
		if !c.Compared() {
			sec.Notef("%s", c.Note)
			continue
		}
		sec.Textf("Test selection: %s", c.Rationale())
		sec.Textf("Result: %s, %s %s", c.Test.StatisticString(), domainstats.FormatPValue(c.Test.PValue), c.Test.Significance())
		sec.Textf("Effect size: η² = %.3f (%s)", c.EtaSquared, c.Effect)
		sec.Keyf("%s", c.SummaryLine())
	}
	return doc
}

// SummaryLines returns the publication line of every compared element
func (r *CompositeResult) SummaryLines() []string {
	lines := make([]string, 0, len(r.Comparisons))
	for _, c := range r.Comparisons {
		if c.Compared() {
			lines = append(lines, fmt.Sprintf("%s: %s", c.Element.Column, c.SummaryLine()))
		}
	}
	return lines
}
