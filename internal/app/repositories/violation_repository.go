package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/silani/discipline/internal/app/models"
	"github.com/silani/discipline/internal/pkg/apperrors"
	"github.com/silani/discipline/internal/pkg/dberrors"
	"github.com/silani/discipline/internal/pkg/logger"
)

var violationColumns = []string{
	"v.id", "v.student_id", "v.officer_id", "v.rule_id", "v.status",
	"v.description", "v.occurred_at", "v.created_at", "v.updated_at",
}

var violationDetailColumns = append(append([]string{}, violationColumns...),
	"s.name", "s.nisn", "c.name", "r.description", "r.category", "r.points",
)

// ViolationRepository handles violation record database operations
type ViolationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewViolationRepository creates a new ViolationRepository
func NewViolationRepository(db *pgxpool.Pool) *ViolationRepository {
	return &ViolationRepository{db: db, sb: statementBuilder}
}

func violationFields(v *models.Violation) []interface{} {
	return []interface{}{
		&v.ID, &v.StudentID, &v.OfficerID, &v.RuleID, &v.Status,
		&v.Description, &v.OccurredAt, &v.CreatedAt, &v.UpdatedAt,
	}
}

func mapReferenceError(err error) error {
	if dberrors.IsForeignKeyError(err) {
		return fmt.Errorf("%w: student or rule does not exist", apperrors.ErrValidationFailed)
	}
	return err
}

// Create inserts a violation record and returns its ID
func (r *ViolationRepository) Create(ctx context.Context, v *models.Violation) (int64, error) {
	sql, args, err := r.sb.Insert("violations").
		Columns("student_id", "officer_id", "rule_id", "status", "description", "occurred_at").
		Values(v.StudentID, v.OfficerID, v.RuleID, v.Status, v.Description, v.OccurredAt).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create violation query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id, &v.CreatedAt, &v.UpdatedAt); err != nil {
		logger.Error().Err(err).Msg("Error executing create violation query")
		return 0, fmt.Errorf("error creating violation: %w", mapReferenceError(err))
	}

	return id, nil
}

// GetByID retrieves a violation record by ID
func (r *ViolationRepository) GetByID(ctx context.Context, id int64) (*models.Violation, error) {
	sql, args, err := r.sb.Select(violationColumns...).
		From("violations v").
		Where(squirrel.Eq{"v.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get violation query: %w", err)
	}

	v := &models.Violation{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(violationFields(v)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrViolationNotFound
		}
		logger.Error().Err(err).Int64("violationID", id).Msg("Error scanning violation row")
		return nil, fmt.Errorf("error getting violation by ID: %w", err)
	}

	return v, nil
}

// ListByStudent retrieves every violation linked to a student, whatever its
// processing status
func (r *ViolationRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.Violation, error) {
	sql, args, err := r.sb.Select(violationColumns...).
		From("violations v").
		Where(squirrel.Eq{"v.student_id": studentID}).
		OrderBy("v.occurred_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list student violations query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying student violations: %w", err)
	}
	defer rows.Close()

	violations := []*models.Violation{}
	for rows.Next() {
		v := &models.Violation{}
		if err := rows.Scan(violationFields(v)...); err != nil {
			return nil, fmt.Errorf("error scanning violation row: %w", err)
		}
		violations = append(violations, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating violation rows: %w", err)
	}

	return violations, nil
}

// buildListQuery applies a filter to the joined violation listing
func buildListQuery(sb squirrel.StatementBuilderType, filter models.ViolationFilter) squirrel.SelectBuilder {
	query := sb.Select(violationDetailColumns...).
		From("violations v").
		LeftJoin("students s ON s.id = v.student_id").
		LeftJoin("classes c ON c.id = s.class_id").
		LeftJoin("rules r ON r.id = v.rule_id")

	if filter.StudentID != nil {
		query = query.Where(squirrel.Eq{"v.student_id": *filter.StudentID})
	}
	if filter.Status != nil {
		query = query.Where(squirrel.Eq{"v.status": *filter.Status})
	}
	if filter.Year != nil {
		query = query.Where("EXTRACT(YEAR FROM v.occurred_at) = ?", *filter.Year)
	}
	if filter.Month != nil {
		query = query.Where("EXTRACT(MONTH FROM v.occurred_at) = ?", *filter.Month)
	}
	if filter.Term != "" {
		pattern := "%" + filter.Term + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"s.name": pattern},
			squirrel.ILike{"s.nisn": pattern},
		})
	}

	return query.OrderBy("v.occurred_at DESC", "v.id DESC")
}

// List retrieves violations joined with their student, class and rule
func (r *ViolationRepository) List(ctx context.Context, filter models.ViolationFilter) ([]*models.ViolationDetail, error) {
	sql, args, err := buildListQuery(r.sb, filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list violations query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list violations query")
		return nil, fmt.Errorf("error querying violations: %w", err)
	}
	defer rows.Close()

	items := []*models.ViolationDetail{}
	for rows.Next() {
		d := &models.ViolationDetail{}
		dest := append(violationFields(&d.Violation),
			&d.StudentName, &d.StudentNISN, &d.ClassName, &d.RuleName, &d.RuleCategory, &d.RulePoints)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("error scanning violation row: %w", err)
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating violation rows: %w", err)
	}

	return items, nil
}

// Update writes every field of a violation record
func (r *ViolationRepository) Update(ctx context.Context, v *models.Violation) error {
	sql, args, err := r.sb.Update("violations").
		SetMap(map[string]interface{}{
			"student_id":  v.StudentID,
			"officer_id":  v.OfficerID,
			"rule_id":     v.RuleID,
			"status":      v.Status,
			"description": v.Description,
			"occurred_at": v.OccurredAt,
			"updated_at":  squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": v.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update violation query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("violationID", v.ID).Msg("Error executing update violation query")
		return fmt.Errorf("error updating violation: %w", mapReferenceError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrViolationNotFound
	}

	return nil
}

// Delete removes a violation record
func (r *ViolationRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("violations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete violation query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting violation: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrViolationNotFound
	}

	return nil
}

// Summary counts all violations by processing status and the violations of
// the given year per month
func (r *ViolationRepository) Summary(ctx context.Context, year int) (*models.ViolationSummary, error) {
	summary := &models.ViolationSummary{
		ByStatus: make(map[models.ViolationStatus]int64, len(models.ViolationStatuses)),
		PerMonth: []models.MonthlyCount{},
	}
	for _, status := range models.ViolationStatuses {
		summary.ByStatus[status] = 0
	}

	statusSQL, statusArgs, err := r.sb.Select("status", "COUNT(*)").
		From("violations").
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build status summary query: %w", err)
	}

	rows, err := r.db.Query(ctx, statusSQL, statusArgs...)
	if err != nil {
		return nil, fmt.Errorf("error querying status summary: %w", err)
	}
	for rows.Next() {
		var status models.ViolationStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error scanning status summary row: %w", err)
		}
		summary.ByStatus[status] = count
		summary.Total += count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status summary rows: %w", err)
	}

	monthSQL, monthArgs, err := r.sb.Select("EXTRACT(MONTH FROM occurred_at)::int AS month", "COUNT(*)").
		From("violations").
		Where("EXTRACT(YEAR FROM occurred_at) = ?", year).
		GroupBy("month").
		OrderBy("month ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build monthly summary query: %w", err)
	}

	rows, err = r.db.Query(ctx, monthSQL, monthArgs...)
	if err != nil {
		return nil, fmt.Errorf("error querying monthly summary: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var mc models.MonthlyCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			return nil, fmt.Errorf("error scanning monthly summary row: %w", err)
		}
		summary.PerMonth = append(summary.PerMonth, mc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly summary rows: %w", err)
	}

	return summary, nil
}
