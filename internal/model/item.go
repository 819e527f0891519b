package model

import "time"

// Item is the domain model for a todo entry.
// The wire shape on disk is {id, title, due, done}; the timestamps are
// bookkeeping and stay off the wire until set.
type Item struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Due         *Date     `json:"due"`
	Done        bool      `json:"done"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
	CompletedAt time.Time `json:"completed_at,omitzero"`
}

// Overdue reports whether the item is pending with a due date strictly
// before today.
func (it Item) Overdue(today Date) bool {
	return !it.Done && it.Due != nil && it.Due.Before(today)
}
