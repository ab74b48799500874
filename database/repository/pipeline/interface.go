package pipelineRepo

import (
	"context"

	"neira/models"
)

// PipelineRepository persists pipeline-state snapshots for later resumption.
type PipelineRepository interface {
	Save(ctx context.Context, state *models.PipelineState) error
	GetByID(ctx context.Context, id string) (*models.PipelineState, error)
	ListByUser(ctx context.Context, userID string) ([]models.PipelineState, error)
	Delete(ctx context.Context, id string) error
}
