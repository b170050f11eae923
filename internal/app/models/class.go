package models

import "time"

// Class represents a school class (kelas)
type Class struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	HomeroomUserID  *int64    `json:"homeroomUserId,omitempty"`
	StudentCapacity *int      `json:"studentCapacity,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
