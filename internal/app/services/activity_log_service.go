package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/silani/discipline/internal/app/models"
)

// Activity log listing defaults
const (
	DefaultLogPageSize = 20
	MaxLogPageSize     = 100
)

// ActivityLogService records and lists audit entries
type ActivityLogService struct {
	store  ActivityLogStore
	logger zerolog.Logger
}

// NewActivityLogService creates a new activity log service
func NewActivityLogService(store ActivityLogStore, logger zerolog.Logger) *ActivityLogService {
	return &ActivityLogService{store: store, logger: logger}
}

// Record stores an audit entry. Failures are logged and swallowed.
func (s *ActivityLogService) Record(ctx context.Context, actorID *int64, activity, description string) {
	entry := &models.ActivityLog{
		UserID:      actorID,
		Activity:    activity,
		Description: description,
	}
	if err := s.store.Create(ctx, entry); err != nil {
		s.logger.Error().Err(err).
			Str("activity", activity).
			Str("description", description).
			Msg("Failed to write activity log")
	}
}

// ActivityLogPage is one page of audit entries
type ActivityLogPage struct {
	Items      []*models.ActivityLog
	TotalItems int64
	Page       int
	Size       int
}

// List returns audit entries, newest first, filtered by free-text search and
// activity kind. page is 1-based.
func (s *ActivityLogService) List(ctx context.Context, search, activity string, page, size int) (*ActivityLogPage, error) {
	if size <= 0 || size > MaxLogPageSize {
		size = DefaultLogPageSize
	}
	if page < 1 {
		page = 1
	}

	items, total, err := s.store.List(ctx, models.ActivityLogFilter{
		Search:   strings.TrimSpace(search),
		Activity: strings.TrimSpace(activity),
		Offset:   uint64((page - 1) * size),
		Limit:    uint64(size),
	})
	if err != nil {
		return nil, fmt.Errorf("error listing activity logs: %w", err)
	}

	return &ActivityLogPage{Items: items, TotalItems: total, Page: page, Size: size}, nil
}
