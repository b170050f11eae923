package models

import "time"

// ActivityLog is one entry of the audit trail
type ActivityLog struct {
	ID          int64     `json:"id"`
	UserID      *int64    `json:"userId,omitempty"`
	Activity    string    `json:"activity"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ActivityLogFilter narrows activity log listings
type ActivityLogFilter struct {
	Search   string
	Activity string
	Offset   uint64
	Limit    uint64
}
