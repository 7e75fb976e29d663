package rating

import "time"

// Rating is one rater's score for a subject. A rater may rate a given
// subject at most once; re-rating overwrites the existing row.
type Rating struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	RatedBy   string    `json:"ratedBy"`
	Rating    int       `json:"rating"`
	Review    string    `json:"review,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
