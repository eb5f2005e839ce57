package ports

import (
	"context"

	"gostai/domain/survey"
)

// SurveyReader loads the participant table
type SurveyReader interface {
	Read(ctx context.Context) (*survey.Dataset, error)
}
