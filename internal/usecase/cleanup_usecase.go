package usecase

import (
	"context"

	"viewsync/internal/domain/entity"
	"viewsync/internal/domain/repository"
	"viewsync/pkg/logger"
)

// dependentCollections are swept, in order, for every deleted user.
var dependentCollections = []string{"chatrooms", "favorites", "listings", "reviews"}

// CleanupUseCase is the cascade deletion engine. A branch failure is
// logged and leaves partial state; re-running the handler resumes where
// the batches stopped. That partial-state window is an accepted
// limitation, not a silent one.
type CleanupUseCase struct {
	users     repository.UserRepository
	chatViews repository.ChatViewRepository
	cleanup   repository.CleanupRepository
	blobs     BlobStore
}

func NewCleanupUseCase(
	users repository.UserRepository,
	chatViews repository.ChatViewRepository,
	cleanup repository.CleanupRepository,
	blobs BlobStore,
) *CleanupUseCase {
	return &CleanupUseCase{
		users:     users,
		chatViews: chatViews,
		cleanup:   cleanup,
		blobs:     blobs,
	}
}

// OnUserDeleted removes every dependent collection of the deleted user,
// shared chat histories whose counterpart is also gone, and finally the
// user's blobs. Blob deletes run last and are best-effort.
func (uc *CleanupUseCase) OnUserDeleted(ctx context.Context, user *entity.User) error {
	// Counterparts must be read before the chatrooms sweep destroys the
	// only index of them.
	counterparts, err := uc.chatViews.ListCounterparts(ctx, user.ID)
	if err != nil {
		logger.Error("OnUserDeleted: listing counterparts for %s failed: %v", user.ID, err)
		counterparts = nil
	}

	for _, counterpartID := range counterparts {
		exists, err := uc.users.Exists(ctx, counterpartID)
		if err != nil {
			logger.Error("OnUserDeleted: existence check for %s failed: %v", counterpartID, err)
			continue
		}
		if exists {
			// Survivor still references the shared history; leave it.
			continue
		}
		if err := uc.cleanup.DeleteChatHistory(ctx, entity.PairKey(user.ID, counterpartID)); err != nil {
			logger.Error("OnUserDeleted: chat history delete for pair (%s,%s) failed: %v", user.ID, counterpartID, err)
		}
	}

	for _, collection := range dependentCollections {
		if err := uc.cleanup.DeleteUserCollection(ctx, user.ID, collection); err != nil {
			logger.Error("OnUserDeleted: sweep of %s/%s failed: %v", user.ID, collection, err)
		}
	}

	if user.PhotoURL != "" {
		if err := uc.blobs.DeleteByURL(ctx, user.PhotoURL); err != nil {
			logger.Warn("OnUserDeleted: profile photo delete for %s failed: %v", user.ID, err)
		}
	}
	if err := uc.blobs.DeleteFolder(ctx, "users/"+user.ID); err != nil {
		logger.Warn("OnUserDeleted: storage folder delete for %s failed: %v", user.ID, err)
	}

	logger.Info("OnUserDeleted: cascade for %s finished (%d counterparts checked)", user.ID, len(counterparts))
	return nil
}
