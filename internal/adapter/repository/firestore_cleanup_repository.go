package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"viewsync/internal/domain/repository"
	"viewsync/pkg/errors"
)

const deleteBatchSize = 100

type firestoreCleanupRepository struct {
	client    *firestore.Client
	batchSize int
}

func NewFirestoreCleanupRepository(client *firestore.Client, batchSize int) repository.CleanupRepository {
	if batchSize <= 0 {
		batchSize = deleteBatchSize
	}
	return &firestoreCleanupRepository{
		client:    client,
		batchSize: batchSize,
	}
}

func (r *firestoreCleanupRepository) DeleteUserCollection(ctx context.Context, userID, collection string) error {
	col := r.client.Collection("users").Doc(userID).Collection(collection)
	if err := r.deleteCollection(ctx, col); err != nil {
		return errors.Internal("Failed to delete user collection "+collection, err)
	}
	return nil
}

func (r *firestoreCleanupRepository) DeleteChatHistory(ctx context.Context, pairKey string) error {
	chatRef := r.client.Collection("chats").Doc(pairKey)

	if err := r.deleteCollection(ctx, chatRef.Collection("messages")); err != nil {
		return errors.Internal("Failed to delete chat messages", err)
	}
	if _, err := chatRef.Delete(ctx); err != nil {
		return errors.Internal("Failed to delete chat document", err)
	}
	return nil
}

// deleteCollection drains a collection in bounded batches. An explicit
// loop, not recursion: each pass reads up to batchSize documents in a
// stable order, deletes them in one bulk flush, and a short batch is the
// terminal state.
func (r *firestoreCleanupRepository) deleteCollection(ctx context.Context, col *firestore.CollectionRef) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		docs, err := col.OrderBy(firestore.DocumentID, firestore.Asc).
			Limit(r.batchSize).
			Documents(ctx).
			GetAll()
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			return nil
		}

		if err := r.deleteBatch(ctx, docs); err != nil {
			return err
		}

		if len(docs) < r.batchSize {
			return nil
		}
	}
}

// deleteBatch flushes one bounded batch and surfaces the first failed
// delete. The error returned by Delete only covers client-side
// validation; the real outcome of each write arrives on its job after
// End. Propagating it matters twice over: the caller logs the branch
// failure, and the loop above stops re-reading documents that a
// persistent failure would otherwise leave in place forever.
func (r *firestoreCleanupRepository) deleteBatch(ctx context.Context, docs []*firestore.DocumentSnapshot) error {
	bw := r.client.BulkWriter(ctx)

	jobs := make([]*firestore.BulkWriterJob, 0, len(docs))
	for _, doc := range docs {
		job, err := bw.Delete(doc.Ref)
		if err != nil {
			bw.End()
			return err
		}
		jobs = append(jobs, job)
	}
	bw.End()

	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return err
		}
	}
	return nil
}
