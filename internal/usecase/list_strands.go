package usecase

import (
	"context"

	"github.com/runoshun/loom/internal/domain"
)

// StrandSummary is one row of the strand listing.
type StrandSummary struct {
	Strand    *domain.Strand
	Goals     int
	DoneGoals int
}

// ListStrandsInput contains the parameters for listing strands.
type ListStrandsInput struct{}

// ListStrandsOutput contains the strand listing.
type ListStrandsOutput struct {
	Strands []StrandSummary
}

// ListStrands is the use case for listing strands with goal counts.
type ListStrands struct {
	store domain.DocumentStore
}

// NewListStrands creates a new ListStrands use case.
func NewListStrands(store domain.DocumentStore) *ListStrands {
	return &ListStrands{store: store}
}

// Execute assembles the listing from a single document load.
func (uc *ListStrands) Execute(_ context.Context, _ ListStrandsInput) (*ListStrandsOutput, error) {
	doc, err := uc.store.Load()
	if err != nil {
		return nil, err
	}

	out := &ListStrandsOutput{}
	for _, strand := range doc.Strands {
		summary := StrandSummary{Strand: strand}
		for _, goal := range doc.GoalsByStrand(strand.ID) {
			summary.Goals++
			if goal.Status == domain.GoalDone {
				summary.DoneGoals++
			}
		}
		out.Strands = append(out.Strands, summary)
	}
	return out, nil
}
