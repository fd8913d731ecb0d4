package entity

import (
	"strings"
	"time"
)

// Message is ground truth. Immutable after creation except IsRead,
// which only ever flips false -> true.
type Message struct {
	ID         string    `json:"id" firestore:"id"`
	SenderID   string    `json:"sender_id" firestore:"senderId"`
	ReceiverID string    `json:"receiver_id" firestore:"receiverId"`
	Text       string    `json:"text" firestore:"text"`
	IsRead     bool      `json:"is_read" firestore:"isRead"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
}

// PairKey derives the shared chat document id for two users. The smaller
// id goes first, so PairKey(a, b) == PairKey(b, a) and both parties'
// events resolve to the same message collection.
func PairKey(a, b string) string {
	if strings.Compare(a, b) < 0 {
		return a + "_" + b
	}
	return b + "_" + a
}

// ReadTransition reports whether an update event marks a message as read.
// Only the false -> true transition is actionable; everything else on a
// message is immutable, so other diffs are noise from duplicate delivery.
func ReadTransition(before, after *Message) bool {
	if before == nil || after == nil {
		return false
	}
	return !before.IsRead && after.IsRead
}
