package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gostai/domain/core"
	"gostai/domain/survey"
	"gostai/internal"
	apperrors "gostai/internal/errors"
	"gostai/ports"
)

// loadComplete reads the survey and keeps the participants with both scores
func loadComplete(ctx context.Context, reader ports.SurveyReader, logger *internal.Logger) (*survey.Dataset, []survey.ParticipantRecord, error) {
	ds, err := reader.Read(ctx)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to load survey")
	}

	complete := ds.Complete()
	if dropped := len(ds.Records) - len(complete); dropped > 0 {
		logger.Warn("[Pipeline] %d participant(s) without both A and B scores excluded", dropped)
	}
	if len(complete) == 0 {
		return nil, nil, apperrors.Wrap(core.ErrEmptyDataset, "no participant has both scores")
	}
	return ds, complete, nil
}

// ensureDir creates the output directory when a pipeline writes files
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.OutputError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}
	return nil
}

// renderChart draws one chart into dir and returns its path
func renderChart(charts ports.ChartRenderer, dir, name string, chart ports.BoxChart) (string, error) {
	if err := ensureDir(dir); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := charts.RenderBoxChart(path, chart); err != nil {
		return "", apperrors.OutputError(fmt.Sprintf("failed to draw %s", name), err)
	}
	return path, nil
}

func participants(n int) string {
	if n == 1 {
		return "1 participant"
	}
	return fmt.Sprintf("%d participants", n)
}
