package dto

import "github.com/silani/discipline/internal/app/models"

// ActivityLogListResponse is one page of the audit trail
type ActivityLogListResponse struct {
	Logs       []*models.ActivityLog `json:"logs"`
	Pagination PaginationInfo        `json:"pagination"`
}
