package entity

import "time"

// ChatSummary is one viewer's denormalized copy of a relationship, stored
// under users/{viewer}/chatrooms/{counterpart}. The two copies of a
// relationship are independent documents and are never written together.
type ChatSummary struct {
	CounterpartID       string    `json:"counterpart_id" firestore:"counterpartId"`
	CounterpartName     string    `json:"counterpart_name" firestore:"counterpartName"`
	CounterpartPhotoURL string    `json:"counterpart_photo_url,omitempty" firestore:"counterpartPhotoURL,omitempty"`
	LastMessage         string    `json:"last_message" firestore:"lastMessage"`
	LastSenderID        string    `json:"last_sender_id" firestore:"lastSenderId"`
	LastMessageAt       time.Time `json:"last_message_at" firestore:"lastMessageAt"`
	UnreadCount         int       `json:"unread_count" firestore:"unreadCount"`
}

// ReconcileSummary merges one delivered message into a viewer's summary
// copy and reports whether anything changed. A nil current summary takes
// the create path. Last-message fields only move forward in time: an
// older or equal timestamp loses, which makes duplicate and late
// deliveries no-ops instead of regressions.
func ReconcileSummary(current *ChatSummary, counterpart *User, msg *Message) (*ChatSummary, bool) {
	if current == nil {
		return &ChatSummary{
			CounterpartID:       counterpart.ID,
			CounterpartName:     counterpart.DisplayName,
			CounterpartPhotoURL: counterpart.PhotoURL,
			LastMessage:         msg.Text,
			LastSenderID:        msg.SenderID,
			LastMessageAt:       msg.CreatedAt,
		}, true
	}

	next := *current
	changed := false

	if msg.CreatedAt.After(current.LastMessageAt) {
		next.LastMessage = msg.Text
		next.LastSenderID = msg.SenderID
		next.LastMessageAt = msg.CreatedAt
		changed = true
	}

	return &next, changed
}

// SetUnread installs a freshly recomputed counter and reports whether it
// differs from the stored value. Kept separate from ReconcileSummary:
// a message that loses the last-message comparison must still be allowed
// to correct the counter.
func (s *ChatSummary) SetUnread(n int) bool {
	if s.UnreadCount == n {
		return false
	}
	s.UnreadCount = n
	return true
}

// SetCounterpart refreshes the denormalized display fields after a
// profile update and reports whether they changed.
func (s *ChatSummary) SetCounterpart(u *User) bool {
	if s.CounterpartName == u.DisplayName && s.CounterpartPhotoURL == u.PhotoURL {
		return false
	}
	s.CounterpartName = u.DisplayName
	s.CounterpartPhotoURL = u.PhotoURL
	return true
}
