package models

import "time"

// Violation is one occurrence of a student breaking a rule
type Violation struct {
	ID          int64           `json:"id"`
	StudentID   *int64          `json:"studentId"`
	OfficerID   *int64          `json:"officerId"`
	RuleID      *int64          `json:"ruleId"`
	Status      ViolationStatus `json:"status"`
	Description string          `json:"description"`
	OccurredAt  time.Time       `json:"occurredAt"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ViolationDetail is a violation joined with its student and rule for listings
type ViolationDetail struct {
	Violation
	StudentName  *string       `json:"studentName,omitempty"`
	StudentNISN  *string       `json:"studentNisn,omitempty"`
	ClassName    *string       `json:"className,omitempty"`
	RuleName     *string       `json:"ruleDescription,omitempty"`
	RuleCategory *RuleCategory `json:"ruleCategory,omitempty"`
	RulePoints   *int          `json:"rulePoints,omitempty"`
}

// ViolationFilter narrows violation listings
type ViolationFilter struct {
	StudentID *int64
	Status    *ViolationStatus
	Year      *int
	Month     *int
	// Term matches student name or NISN
	Term string
}

// ViolationSummary aggregates violation counts for the dashboard
type ViolationSummary struct {
	Total    int64                     `json:"total"`
	ByStatus map[ViolationStatus]int64 `json:"byStatus"`
	PerMonth []MonthlyCount            `json:"perMonth"`
}

// MonthlyCount is the number of violations recorded in one month
type MonthlyCount struct {
	Month int   `json:"month"`
	Count int64 `json:"count"`
}
