package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"viewsync/internal/domain/entity"
	"viewsync/pkg/errors"
)

// fakeStore backs all repository interfaces with maps, applying the same
// pure reconciliation functions the Firestore adapters use, so handler
// tests exercise the real merge semantics without a store.
type fakeStore struct {
	mu sync.Mutex

	users     map[string]*entity.User
	messages  map[string][]*entity.Message                // pair key -> ground truth
	summaries map[string]map[string]*entity.ChatSummary   // viewer -> counterpart -> copy
	reviews   map[string][]*entity.Review                 // owner -> ground truth
	favorites map[string][]string
	listings  map[string][]string
	chats     map[string]bool // pair key -> shared history present

	lastSeen        map[string]time.Time
	syncRatingCalls int
	sweptCollection map[string][]string // userID -> collections deleted
	sweepAttempts   map[string]int      // collection -> delete attempts
	failCollections map[string]bool
	failChats       bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:           map[string]*entity.User{},
		messages:        map[string][]*entity.Message{},
		summaries:       map[string]map[string]*entity.ChatSummary{},
		reviews:         map[string][]*entity.Review{},
		favorites:       map[string][]string{},
		listings:        map[string][]string{},
		chats:           map[string]bool{},
		lastSeen:        map[string]time.Time{},
		sweptCollection: map[string][]string{},
		sweepAttempts:   map[string]int{},
		failCollections: map[string]bool{},
	}
}

func (f *fakeStore) addUser(u *entity.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
}

func (f *fakeStore) addMessage(m *entity.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	// Store a copy so markRead mutates ground truth, not the event
	// payload a test is still holding.
	copied := *m
	key := entity.PairKey(m.SenderID, m.ReceiverID)
	f.messages[key] = append(f.messages[key], &copied)
	f.chats[key] = true
}

func (f *fakeStore) markRead(pairKey, messageID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.messages[pairKey] {
		if m.ID == messageID {
			m.IsRead = true
		}
	}
}

func (f *fakeStore) summary(viewerID, counterpartID string) *entity.ChatSummary {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.summaries[viewerID][counterpartID]
}

func (f *fakeStore) unreadLocked(pairKey, viewerID string) int {
	n := 0
	for _, m := range f.messages[pairKey] {
		if m.ReceiverID == viewerID && !m.IsRead {
			n++
		}
	}
	return n
}

// --- repository.ChatViewRepository ---

func (f *fakeStore) SyncSummary(ctx context.Context, viewerID string, counterpart *entity.User, msg *entity.Message, withUnread bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current := f.summaries[viewerID][counterpart.ID]
	next, changed := entity.ReconcileSummary(current, counterpart, msg)
	if withUnread {
		if next.SetUnread(f.unreadLocked(entity.PairKey(msg.SenderID, msg.ReceiverID), viewerID)) {
			changed = true
		}
	}
	if !changed {
		return nil
	}
	if f.summaries[viewerID] == nil {
		f.summaries[viewerID] = map[string]*entity.ChatSummary{}
	}
	f.summaries[viewerID][counterpart.ID] = next
	return nil
}

func (f *fakeStore) RecomputeUnread(ctx context.Context, msg *entity.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	summary := f.summaries[msg.ReceiverID][msg.SenderID]
	if summary == nil {
		return nil
	}
	summary.SetUnread(f.unreadLocked(entity.PairKey(msg.SenderID, msg.ReceiverID), msg.ReceiverID))
	return nil
}

func (f *fakeStore) ListCounterparts(ctx context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []string
	for id := range f.summaries[userID] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeStore) UpdateCounterpart(ctx context.Context, viewerID string, counterpart *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	summary := f.summaries[viewerID][counterpart.ID]
	if summary == nil {
		return nil
	}
	summary.SetCounterpart(counterpart)
	return nil
}

// --- repository.UserRepository ---

func (f *fakeStore) GetByID(ctx context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeStore) Exists(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeStore) SetLastSeen(ctx context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSeen[id] = at
	return nil
}

// --- repository.ReviewRepository ---

func (f *fakeStore) SyncRating(ctx context.Context, ownerID, targetID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.syncRatingCalls++
	owner, ok := f.users[ownerID]
	if !ok {
		return nil
	}

	var set []*entity.Review
	for _, rv := range f.reviews[ownerID] {
		if rv.TargetID == targetID {
			set = append(set, rv)
		}
	}
	sort.Slice(set, func(i, j int) bool { return set[i].CreatedAt.After(set[j].CreatedAt) })

	owner.Ratings = entity.RebuildRatings(owner.Ratings, targetID, set)
	return nil
}

// --- repository.CleanupRepository ---

func (f *fakeStore) DeleteUserCollection(ctx context.Context, userID, collection string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sweepAttempts[collection]++
	if f.failCollections[collection] {
		// Mirrors the adapter contract: a batch whose deletes fail
		// server-side surfaces the error instead of reporting success.
		return errors.Internal("Failed to delete user collection "+collection, nil)
	}

	switch collection {
	case "chatrooms":
		delete(f.summaries, userID)
	case "favorites":
		delete(f.favorites, userID)
	case "listings":
		delete(f.listings, userID)
	case "reviews":
		delete(f.reviews, userID)
	}
	f.sweptCollection[userID] = append(f.sweptCollection[userID], collection)
	return nil
}

func (f *fakeStore) DeleteChatHistory(ctx context.Context, pairKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failChats {
		return errors.Internal("Failed to delete chat messages", nil)
	}
	delete(f.messages, pairKey)
	delete(f.chats, pairKey)
	return nil
}

// fakeNotifier records pushes and can be forced to fail.
type fakeNotifier struct {
	mu     sync.Mutex
	sent   []sentPush
	broken bool
}

type sentPush struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

func (n *fakeNotifier) SendPush(ctx context.Context, token, title, body string, data map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.broken {
		return errors.Internal("Failed to send push", nil)
	}
	n.sent = append(n.sent, sentPush{Token: token, Title: title, Body: body, Data: data})
	return nil
}

func (n *fakeNotifier) pushes() []sentPush {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentPush(nil), n.sent...)
}

// fakeBlobStore records deletions and can be forced to fail.
type fakeBlobStore struct {
	deletedURLs    []string
	deletedFolders []string
	broken         bool
}

func (b *fakeBlobStore) DeleteByURL(ctx context.Context, fileURL string) error {
	if b.broken {
		return errors.Internal("Failed to delete file", nil)
	}
	b.deletedURLs = append(b.deletedURLs, fileURL)
	return nil
}

func (b *fakeBlobStore) DeleteFolder(ctx context.Context, prefix string) error {
	if b.broken {
		return errors.Internal("Failed to delete folder", nil)
	}
	b.deletedFolders = append(b.deletedFolders, prefix)
	return nil
}
