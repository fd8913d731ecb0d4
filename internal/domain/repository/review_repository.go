package repository

import "context"

// ReviewRepository rebuilds one aggregate rating entry from the complete
// review set for (owner, target), replacing the owner's ratings field in
// the transaction that read it.
type ReviewRepository interface {
	SyncRating(ctx context.Context, ownerID, targetID string) error
}
