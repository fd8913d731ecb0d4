package repository

import (
	"context"

	"viewsync/internal/domain/entity"
)

// ChatViewRepository maintains the per-viewer chat summary copies. Each
// method touches exactly one copy inside one optimistic transaction; the
// two copies of a relationship are never part of the same call.
type ChatViewRepository interface {
	// SyncSummary merges msg into the viewer's summary copy, creating it
	// from counterpart display fields when absent. With withUnread set,
	// the unread counter is recomputed from ground truth inside the same
	// transaction, whether or not the last-message fields change.
	SyncSummary(ctx context.Context, viewerID string, counterpart *entity.User, msg *entity.Message, withUnread bool) error

	// RecomputeUnread refreshes the recipient-side counter for the
	// relationship the message belongs to. A missing summary copy is a
	// no-op: the pending create event rebuilds it from ground truth.
	RecomputeUnread(ctx context.Context, msg *entity.Message) error

	// ListCounterparts returns the counterpart ids of every summary copy
	// the user owns.
	ListCounterparts(ctx context.Context, userID string) ([]string, error)

	// UpdateCounterpart refreshes the denormalized display fields on one
	// existing summary copy. Missing copies are skipped.
	UpdateCounterpart(ctx context.Context, viewerID string, counterpart *entity.User) error
}
