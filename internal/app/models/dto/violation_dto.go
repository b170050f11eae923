package dto

import (
	"time"

	"github.com/silani/discipline/internal/app/models"
)

// ViolationRequest is the body of violation create and update requests.
// OfficerID defaults to the authenticated user on create and to the stored
// officer on update.
type ViolationRequest struct {
	StudentID   int64     `json:"studentId" binding:"required,gt=0" example:"12"`
	OfficerID   int64     `json:"officerId" binding:"omitempty,gt=0" example:"2"`
	RuleID      int64     `json:"ruleId" binding:"required,gt=0" example:"5"`
	Status      string    `json:"status" binding:"required,oneof=ditunda diproses selesai" example:"ditunda"`
	Description string    `json:"description" binding:"max=1000"`
	OccurredAt  time.Time `json:"occurredAt" binding:"required" example:"2025-03-14T07:30:00+07:00"`
}

// NotificationResponse reports what happened to the guardian message
type NotificationResponse struct {
	Target  string    `json:"target,omitempty"`
	Sent    bool      `json:"sent"`
	Skipped bool      `json:"skipped"`
	Reason  string    `json:"reason,omitempty"`
	At      time.Time `json:"at"`
}

// CreateViolationResponse is returned after recording a violation
type CreateViolationResponse struct {
	Violation    *models.Violation    `json:"violation"`
	TotalPoints  int                  `json:"totalPoints"`
	Status       models.StudentStatus `json:"studentStatus,omitempty"`
	Notification NotificationResponse `json:"notification"`
}
