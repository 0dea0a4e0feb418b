package main

import (
	"context"

	"github.com/blockwork/engine/internal/models"
	"github.com/blockwork/engine/internal/repository"
	"github.com/blockwork/engine/internal/schedule"
	"github.com/google/uuid"
)

type cycleReport struct {
	BlockID uuid.UUID   `json:"block_id"`
	Cycle   []uuid.UUID `json:"cycle"`
}

// dependencyLister is the part of the timeline repository verify-deps reads.
type dependencyLister interface {
	ListTimelineBlocks(ctx context.Context) ([]uuid.UUID, error)
	ListDependencies(ctx context.Context, blockID uuid.UUID) ([]models.TimelineDependency, error)
}

var _ dependencyLister = (repository.TimelineRepository)(nil)

// verifyDependencies walks every timeline block that has dependencies and
// reports one cycle per block where the stored graph is not acyclic.
func verifyDependencies(ctx context.Context, repo dependencyLister) ([]cycleReport, error) {
	blocks, err := repo.ListTimelineBlocks(ctx)
	if err != nil {
		return nil, err
	}
	var reports []cycleReport
	for _, blockID := range blocks {
		deps, err := repo.ListDependencies(ctx, blockID)
		if err != nil {
			return nil, err
		}
		edges := make([]schedule.Edge, 0, len(deps))
		for _, d := range deps {
			edges = append(edges, schedule.Edge{From: d.FromID, To: d.ToID})
		}
		if cycle := schedule.FindCycle(edges); cycle != nil {
			reports = append(reports, cycleReport{BlockID: blockID, Cycle: cycle})
		}
	}
	return reports, nil
}
