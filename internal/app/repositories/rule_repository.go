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

// RuleRepository is the rule catalog backed by the rules table
type RuleRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRuleRepository creates a new RuleRepository
func NewRuleRepository(db *pgxpool.Pool) *RuleRepository {
	return &RuleRepository{db: db, sb: statementBuilder}
}

func scanRule(row pgx.Row) (*models.Rule, error) {
	rule := &models.Rule{}
	err := row.Scan(&rule.ID, &rule.Description, &rule.Category, &rule.Points, &rule.CreatedAt, &rule.UpdatedAt)
	return rule, err
}

// Create inserts a rule and returns its ID
func (r *RuleRepository) Create(ctx context.Context, rule *models.Rule) (int64, error) {
	sql, args, err := r.sb.Insert("rules").
		Columns("description", "category", "points").
		Values(rule.Description, rule.Category, rule.Points).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create rule query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id, &rule.CreatedAt, &rule.UpdatedAt); err != nil {
		logger.Error().Err(err).Msg("Error executing create rule query")
		return 0, fmt.Errorf("error creating rule: %w", err)
	}

	return id, nil
}

// GetByID retrieves a rule by ID
func (r *RuleRepository) GetByID(ctx context.Context, id int64) (*models.Rule, error) {
	sql, args, err := r.sb.Select("id", "description", "category", "points", "created_at", "updated_at").
		From("rules").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get rule query: %w", err)
	}

	rule, err := scanRule(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRuleNotFound
		}
		logger.Error().Err(err).Int64("ruleID", id).Msg("Error scanning rule row")
		return nil, fmt.Errorf("error getting rule by ID: %w", err)
	}

	return rule, nil
}

// List retrieves the catalog, lightest rules first
func (r *RuleRepository) List(ctx context.Context) ([]*models.Rule, error) {
	sql, args, err := r.sb.Select("id", "description", "category", "points", "created_at", "updated_at").
		From("rules").
		OrderBy("points ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list rules query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying rules: %w", err)
	}
	defer rows.Close()

	rules := []*models.Rule{}
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning rule row: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rule rows: %w", err)
	}

	return rules, nil
}

// Update writes a rule
func (r *RuleRepository) Update(ctx context.Context, rule *models.Rule) error {
	sql, args, err := r.sb.Update("rules").
		SetMap(map[string]interface{}{
			"description": rule.Description,
			"category":    rule.Category,
			"points":      rule.Points,
			"updated_at":  squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": rule.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update rule query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating rule: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrRuleNotFound
	}

	return nil
}

// Delete removes a rule unless violation records still reference it
func (r *RuleRepository) Delete(ctx context.Context, id int64) error {
	checkSQL, checkArgs, err := r.sb.Select("1").
		From("violations").
		Where(squirrel.Eq{"rule_id": id}).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build check violations query: %w", err)
	}

	var inUse bool
	if err := r.db.QueryRow(ctx, checkSQL, checkArgs...).Scan(&inUse); err != nil {
		logger.Error().Err(err).Int64("ruleID", id).Msg("Error checking violations referencing rule")
		return fmt.Errorf("error checking rule usage: %w", err)
	}
	if inUse {
		return apperrors.ErrRuleInUse
	}

	sql, args, err := r.sb.Delete("rules").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete rule query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		// a violation inserted between the check and the delete
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrRuleInUse
		}
		return fmt.Errorf("error deleting rule: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrRuleNotFound
	}

	return nil
}
