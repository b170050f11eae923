package models

import "time"

// Rule is a catalogued infraction carrying a fixed point value
type Rule struct {
	ID          int64        `json:"id"`
	Description string       `json:"description"`
	Category    RuleCategory `json:"category"`
	Points      int          `json:"points"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}
