package entity

import "time"

const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// User is the root owner record. Deleting it cascades over every
// collection keyed by its id.
type User struct {
	ID           string        `json:"id" firestore:"id"`
	DisplayName  string        `json:"display_name" firestore:"displayName"`
	PhotoURL     string        `json:"photo_url,omitempty" firestore:"photoURL,omitempty"`
	FCMToken     string        `json:"fcm_token,omitempty" firestore:"fcmToken,omitempty"`
	OnlineStatus string        `json:"online_status" firestore:"onlineStatus"`
	LastSeen     time.Time     `json:"last_seen" firestore:"lastSeen"`
	Ratings      []RatingEntry `json:"ratings" firestore:"ratings"`
	CreatedAt    time.Time     `json:"created_at" firestore:"createdAt"`
	UpdatedAt    time.Time     `json:"updated_at" firestore:"updatedAt"`
}

// DisplayChanged reports whether a profile update touched the fields that
// are denormalized into other users' chat summaries.
func DisplayChanged(before, after *User) bool {
	if before == nil || after == nil {
		return false
	}
	return before.DisplayName != after.DisplayName || before.PhotoURL != after.PhotoURL
}

// WentOffline reports the transition that should stamp lastSeen.
func WentOffline(before, after *User) bool {
	if before == nil || after == nil {
		return false
	}
	return before.OnlineStatus != StatusOffline && after.OnlineStatus == StatusOffline
}
