package model

import "time"

// Message is an append-only audit/notification record produced as a
// side effect of ledger and approval operations. Only the unread flag
// is ever mutated.
type Message struct {
	ID        int64     `json:"id"`
	Sender    string    `json:"sender"`
	Avatar    string    `json:"avatar"`
	Content   string    `json:"content"`
	Unread    bool      `json:"unread"`
	CreatedAt time.Time `json:"created_at"`
}
