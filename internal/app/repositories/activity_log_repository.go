package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/silani/discipline/internal/app/models"
)

// ActivityLogRepository stores audit entries in activity_logs
type ActivityLogRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewActivityLogRepository creates a new ActivityLogRepository
func NewActivityLogRepository(db *pgxpool.Pool) *ActivityLogRepository {
	return &ActivityLogRepository{db: db, sb: statementBuilder}
}

// Create inserts an audit entry
func (r *ActivityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	sql, args, err := r.sb.Insert("activity_logs").
		Columns("user_id", "activity", "description").
		Values(entry.UserID, entry.Activity, entry.Description).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create activity log query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return fmt.Errorf("error creating activity log: %w", err)
	}
	return nil
}

// applyLogFilter adds the search and activity conditions shared by the page
// and count queries
func applyLogFilter(query squirrel.SelectBuilder, filter models.ActivityLogFilter) squirrel.SelectBuilder {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"activity": pattern},
			squirrel.ILike{"description": pattern},
		})
	}
	if filter.Activity != "" {
		query = query.Where(squirrel.Eq{"activity": filter.Activity})
	}
	return query
}

// List returns one page of audit entries, newest first, and the total number
// of matching entries
func (r *ActivityLogRepository) List(ctx context.Context, filter models.ActivityLogFilter) ([]*models.ActivityLog, int64, error) {
	countSQL, countArgs, err := applyLogFilter(r.sb.Select("COUNT(*)").From("activity_logs"), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count activity logs query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting activity logs: %w", err)
	}

	query := applyLogFilter(
		r.sb.Select("id", "user_id", "activity", "description", "created_at").From("activity_logs"),
		filter,
	).OrderBy("created_at DESC", "id DESC").Offset(filter.Offset)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list activity logs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying activity logs: %w", err)
	}
	defer rows.Close()

	entries := []*models.ActivityLog{}
	for rows.Next() {
		e := &models.ActivityLog{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.Activity, &e.Description, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("error scanning activity log row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating activity log rows: %w", err)
	}

	return entries, total, nil
}
