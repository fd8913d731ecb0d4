package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"viewsync/internal/domain/entity"
	"viewsync/internal/domain/repository"
	"viewsync/pkg/errors"
)

type firestoreChatViewRepository struct {
	client *firestore.Client
}

func NewFirestoreChatViewRepository(client *firestore.Client) repository.ChatViewRepository {
	return &firestoreChatViewRepository{
		client: client,
	}
}

func (r *firestoreChatViewRepository) summaryRef(viewerID, counterpartID string) *firestore.DocumentRef {
	return r.client.Collection("users").Doc(viewerID).Collection("chatrooms").Doc(counterpartID)
}

func (r *firestoreChatViewRepository) SyncSummary(ctx context.Context, viewerID string, counterpart *entity.User, msg *entity.Message, withUnread bool) error {
	ref := r.summaryRef(viewerID, counterpart.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var current *entity.ChatSummary

		doc, err := tx.Get(ref)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
		if err == nil {
			var s entity.ChatSummary
			if err := doc.DataTo(&s); err != nil {
				return err
			}
			current = &s
		}

		next, changed := entity.ReconcileSummary(current, counterpart, msg)

		// The counter decision is independent of the last-message
		// comparison: a late duplicate that loses the timestamp race can
		// still carry a stale counter back to ground truth.
		if withUnread {
			n, err := r.countUnread(ctx, tx, entity.PairKey(msg.SenderID, msg.ReceiverID), viewerID)
			if err != nil {
				return err
			}
			if next.SetUnread(n) {
				changed = true
			}
		}

		if !changed {
			return nil
		}
		return tx.Set(ref, next)
	})
	if err != nil {
		return errors.Internal("Failed to sync chat summary", err)
	}
	return nil
}

func (r *firestoreChatViewRepository) RecomputeUnread(ctx context.Context, msg *entity.Message) error {
	ref := r.summaryRef(msg.ReceiverID, msg.SenderID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				// Copy not created yet; the pending create event will
				// recompute from ground truth anyway.
				return nil
			}
			return err
		}

		var summary entity.ChatSummary
		if err := doc.DataTo(&summary); err != nil {
			return err
		}

		n, err := r.countUnread(ctx, tx, entity.PairKey(msg.SenderID, msg.ReceiverID), msg.ReceiverID)
		if err != nil {
			return err
		}
		if !summary.SetUnread(n) {
			return nil
		}
		return tx.Set(ref, &summary)
	})
	if err != nil {
		return errors.Internal("Failed to recompute unread count", err)
	}
	return nil
}

// countUnread is the recomputation query: a consistent in-transaction
// count of ground-truth messages addressed to the viewer and still
// unread.
func (r *firestoreChatViewRepository) countUnread(ctx context.Context, tx *firestore.Transaction, pairKey, viewerID string) (int, error) {
	query := r.client.Collection("chats").Doc(pairKey).Collection("messages").
		Where("receiverId", "==", viewerID).
		Where("isRead", "==", false)

	iter := tx.Documents(query)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}

func (r *firestoreChatViewRepository) ListCounterparts(ctx context.Context, userID string) ([]string, error) {
	iter := r.client.Collection("users").Doc(userID).Collection("chatrooms").Documents(ctx)
	defer iter.Stop()

	var counterparts []string
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list chat summaries", err)
		}
		counterparts = append(counterparts, doc.Ref.ID)
	}
	return counterparts, nil
}

func (r *firestoreChatViewRepository) UpdateCounterpart(ctx context.Context, viewerID string, counterpart *entity.User) error {
	ref := r.summaryRef(viewerID, counterpart.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return nil
			}
			return err
		}

		var summary entity.ChatSummary
		if err := doc.DataTo(&summary); err != nil {
			return err
		}
		if !summary.SetCounterpart(counterpart) {
			return nil
		}

		// Field-level update so a racing message sync cannot be clobbered.
		return tx.Update(ref, []firestore.Update{
			{Path: "counterpartName", Value: summary.CounterpartName},
			{Path: "counterpartPhotoURL", Value: summary.CounterpartPhotoURL},
		})
	})
	if err != nil {
		return errors.Internal("Failed to update counterpart profile", err)
	}
	return nil
}
