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

type firestoreReviewRepository struct {
	client *firestore.Client
}

func NewFirestoreReviewRepository(client *firestore.Client) repository.ReviewRepository {
	return &firestoreReviewRepository{
		client: client,
	}
}

func (r *firestoreReviewRepository) SyncRating(ctx context.Context, ownerID, targetID string) error {
	ownerRef := r.client.Collection("users").Doc(ownerID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ownerRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				// Owner already deleted; nothing to rebuild.
				return nil
			}
			return err
		}

		var owner entity.User
		if err := doc.DataTo(&owner); err != nil {
			return err
		}

		reviews, err := r.reviewSet(ctx, tx, ownerRef, targetID)
		if err != nil {
			return err
		}

		next := entity.RebuildRatings(owner.Ratings, targetID, reviews)

		// Whole-list replacement: concurrent writers for other targets in
		// the same list conflict and retry, bounded by list size.
		return tx.Update(ownerRef, []firestore.Update{
			{Path: "ratings", Value: next},
		})
	})
	if err != nil {
		return errors.Internal("Failed to sync aggregate rating", err)
	}
	return nil
}

// reviewSet reads the complete, newest-first review set for one target,
// consistent with the enclosing transaction. Newest first matters: the
// snippet fields are taken from the head.
func (r *firestoreReviewRepository) reviewSet(ctx context.Context, tx *firestore.Transaction, ownerRef *firestore.DocumentRef, targetID string) ([]*entity.Review, error) {
	query := ownerRef.Collection("reviews").
		Where("targetId", "==", targetID).
		OrderBy("createdAt", firestore.Desc)

	iter := tx.Documents(query)
	defer iter.Stop()

	var reviews []*entity.Review
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var review entity.Review
		if err := doc.DataTo(&review); err != nil {
			return nil, err
		}
		review.ID = doc.Ref.ID
		reviews = append(reviews, &review)
	}
	return reviews, nil
}
