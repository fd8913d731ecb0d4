package entity

import "time"

// Review is ground truth for one rating, stored under
// users/{owner}/reviews/{id} and written by a third party.
type Review struct {
	ID         string    `json:"id" firestore:"id"`
	ReviewerID string    `json:"reviewer_id" firestore:"reviewerId"`
	TargetID   string    `json:"target_id" firestore:"targetId"`
	Rating     int       `json:"rating" firestore:"rating"`
	Text       string    `json:"text" firestore:"text"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
}

// RatingEntry is one element of the owner's aggregate ratings array,
// keyed by target id. Count and average are always a full scan over the
// current review set, never a running sum.
type RatingEntry struct {
	TargetID       string    `json:"target_id" firestore:"targetId"`
	Average        float64   `json:"average" firestore:"average"`
	Count          int       `json:"count" firestore:"count"`
	LastReviewText string    `json:"last_review_text" firestore:"lastReviewText"`
	LastReviewerID string    `json:"last_reviewer_id" firestore:"lastReviewerId"`
	LastReviewAt   time.Time `json:"last_review_at" firestore:"lastReviewAt"`
}

// RebuildRatings recomputes the entry for targetID from the complete
// review set and returns the updated list. Reviews must be ordered newest
// first; the snippet fields come from the first element. An empty set
// removes the entry. Other entries are copied untouched, and the input
// slice is never mutated.
func RebuildRatings(list []RatingEntry, targetID string, reviews []*Review) []RatingEntry {
	idx := -1
	for i, e := range list {
		if e.TargetID == targetID {
			idx = i
			break
		}
	}

	if len(reviews) == 0 {
		if idx < 0 {
			return list
		}
		out := make([]RatingEntry, 0, len(list)-1)
		out = append(out, list[:idx]...)
		out = append(out, list[idx+1:]...)
		return out
	}

	sum := 0
	for _, rv := range reviews {
		sum += rv.Rating
	}
	newest := reviews[0]
	entry := RatingEntry{
		TargetID:       targetID,
		Average:        float64(sum) / float64(len(reviews)),
		Count:          len(reviews),
		LastReviewText: newest.Text,
		LastReviewerID: newest.ReviewerID,
		LastReviewAt:   newest.CreatedAt,
	}

	out := make([]RatingEntry, len(list))
	copy(out, list)
	if idx >= 0 {
		out[idx] = entry
		return out
	}
	return append(out, entry)
}

// ReviewAffectsAggregate gates recomputation: creations, deletions, and
// changes to rating or text count; metadata-only touches do not.
func ReviewAffectsAggregate(before, after *Review) bool {
	if before == nil && after == nil {
		return false
	}
	if before == nil || after == nil {
		return true
	}
	return before.Rating != after.Rating || before.Text != after.Text
}
