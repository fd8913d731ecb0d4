package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viewsync/internal/domain/entity"
)

func newCleanupFixture() (*fakeStore, *fakeBlobStore, *CleanupUseCase) {
	store := newFakeStore()
	blobs := &fakeBlobStore{}
	return store, blobs, NewCleanupUseCase(store, store, store, blobs)
}

func seedDeletedUser(store *fakeStore) *entity.User {
	// carol is already gone from the users collection; the deletion event
	// carries her last document state.
	carol := &entity.User{ID: "carol", DisplayName: "Carol", PhotoURL: "https://storage.googleapis.com/bucket/users/carol/photo.jpg"}

	store.addUser(&entity.User{ID: "bob", DisplayName: "Bob"})

	store.summaries["carol"] = map[string]*entity.ChatSummary{
		"bob":  {CounterpartID: "bob"},
		"dave": {CounterpartID: "dave"}, // dave is also deleted
	}
	store.addMessage(&entity.Message{ID: "m1", SenderID: "carol", ReceiverID: "bob", Text: "hi"})
	store.addMessage(&entity.Message{ID: "m2", SenderID: "carol", ReceiverID: "dave", Text: "yo"})

	store.favorites["carol"] = []string{"fav1"}
	store.listings["carol"] = []string{"lst1"}
	store.reviews["carol"] = []*entity.Review{{ID: "r1", TargetID: "svc1", Rating: 5}}

	return carol
}

func TestOnUserDeletedSweepsDependentCollections(t *testing.T) {
	store, _, uc := newCleanupFixture()
	carol := seedDeletedUser(store)

	require.NoError(t, uc.OnUserDeleted(context.Background(), carol))

	assert.Empty(t, store.summaries["carol"])
	assert.Empty(t, store.favorites["carol"])
	assert.Empty(t, store.listings["carol"])
	assert.Empty(t, store.reviews["carol"])
}

func TestOnUserDeletedSharedHistorySurvivesWithCounterpart(t *testing.T) {
	store, _, uc := newCleanupFixture()
	carol := seedDeletedUser(store)

	require.NoError(t, uc.OnUserDeleted(context.Background(), carol))

	// bob still exists, so the shared history stays for him.
	assert.True(t, store.chats[entity.PairKey("carol", "bob")])
	// dave is gone, so that history is orphaned and removed.
	assert.False(t, store.chats[entity.PairKey("carol", "dave")])
	assert.Empty(t, store.messages[entity.PairKey("carol", "dave")])
}

func TestOnUserDeletedCleansBlobs(t *testing.T) {
	store, blobs, uc := newCleanupFixture()
	carol := seedDeletedUser(store)

	require.NoError(t, uc.OnUserDeleted(context.Background(), carol))

	assert.Equal(t, []string{carol.PhotoURL}, blobs.deletedURLs)
	assert.Equal(t, []string{"users/carol"}, blobs.deletedFolders)
}

func TestOnUserDeletedBlobFailureDoesNotAbort(t *testing.T) {
	store, blobs, uc := newCleanupFixture()
	carol := seedDeletedUser(store)
	blobs.broken = true

	assert.NoError(t, uc.OnUserDeleted(context.Background(), carol))
	assert.Empty(t, store.summaries["carol"], "collection sweep ran despite blob failure")
}

func TestOnUserDeletedBranchFailureContinues(t *testing.T) {
	store, _, uc := newCleanupFixture()
	carol := seedDeletedUser(store)
	store.failCollections["favorites"] = true

	require.NoError(t, uc.OnUserDeleted(context.Background(), carol))

	// The failing branch leaves partial state; the other branches finish.
	assert.NotEmpty(t, store.favorites["carol"])
	assert.Empty(t, store.summaries["carol"])
	assert.Empty(t, store.listings["carol"])
	assert.Empty(t, store.reviews["carol"])
}

func TestOnUserDeletedFailingSweepIsAbandonedNotRetried(t *testing.T) {
	store, _, uc := newCleanupFixture()
	carol := seedDeletedUser(store)
	store.failCollections["chatrooms"] = true

	require.NoError(t, uc.OnUserDeleted(context.Background(), carol))

	// A branch whose deletes keep failing server-side is attempted once
	// and abandoned; it must never spin on the same documents.
	assert.Equal(t, 1, store.sweepAttempts["chatrooms"])
	assert.NotEmpty(t, store.summaries["carol"], "partial state is the accepted outcome")
	assert.Equal(t, 1, store.sweepAttempts["favorites"], "remaining branches still swept")
}

func TestOnUserDeletedChatHistoryFailureContinues(t *testing.T) {
	store, _, uc := newCleanupFixture()
	carol := seedDeletedUser(store)
	store.failChats = true

	require.NoError(t, uc.OnUserDeleted(context.Background(), carol))

	// Orphaned history survives this run, but the collection sweeps and
	// blob cleanup still happen.
	assert.True(t, store.chats[entity.PairKey("carol", "dave")])
	assert.Empty(t, store.summaries["carol"])
}

func TestOnUserDeletedWithoutPhoto(t *testing.T) {
	store, blobs, uc := newCleanupFixture()
	carol := seedDeletedUser(store)
	carol.PhotoURL = ""

	require.NoError(t, uc.OnUserDeleted(context.Background(), carol))
	assert.Empty(t, blobs.deletedURLs)
	assert.Equal(t, []string{"users/carol"}, blobs.deletedFolders)
}
