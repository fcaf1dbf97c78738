package models

import "time"

// Participant is an entry in a user's global participant registry, reusable
// across that user's bills. Names are display-only and not required to be
// unique.
type Participant struct {
	ID        string    `json:"id"`
	Owner     string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
