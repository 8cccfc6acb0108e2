package domain

import "time"

// RefreshToken is the server-side anchor for an issued session. A refresh
// request is only honored when a record matching the presented token exists;
// records self-expire via a TTL index on CreatedAt.
type RefreshToken struct {
	Token     string    `json:"token" bson:"token"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Email is a transactional message handed to the notifier. Delivery is
// best-effort and never blocks the operation that produced it.
type Email struct {
	To      []string
	Subject string
	Text    string
}
