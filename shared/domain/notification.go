package domain

import "time"

type Notification struct {
	Id          int64      `json:"id"`
	Owner       UserId     `json:"owner"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	// Meta is a client hint, typically a deep link to the triggering object.
	Meta     string     `json:"meta,omitempty"`
	Seen     bool       `json:"seen"`
	DateSeen *time.Time `json:"date_seen,omitempty"`
	Alerted  time.Time  `json:"date_alerted"`
}
