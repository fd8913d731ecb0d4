package usecase

import (
	"context"

	"viewsync/internal/domain/entity"
	"viewsync/internal/domain/repository"
)

// RatingSyncUseCase keeps one aggregate rating entry consistent with the
// review set it is derived from.
type RatingSyncUseCase struct {
	reviews repository.ReviewRepository
}

func NewRatingSyncUseCase(reviews repository.ReviewRepository) *RatingSyncUseCase {
	return &RatingSyncUseCase{
		reviews: reviews,
	}
}

// OnReviewWritten handles create, update and delete of a review document.
// Metadata-only updates are filtered out before any transaction starts;
// everything else triggers a full rebuild of the (owner, target) entry.
func (uc *RatingSyncUseCase) OnReviewWritten(ctx context.Context, ownerID string, before, after *entity.Review) error {
	if !entity.ReviewAffectsAggregate(before, after) {
		return nil
	}

	targetID := ""
	if after != nil {
		targetID = after.TargetID
	} else if before != nil {
		targetID = before.TargetID
	}
	if targetID == "" {
		return nil
	}

	return uc.reviews.SyncRating(ctx, ownerID, targetID)
}
