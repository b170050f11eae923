package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/silani/discipline/internal/app/models"
	"github.com/silani/discipline/internal/pkg/apperrors"
)

// Aggregate is the result of recomputing one student's standing
type Aggregate struct {
	StudentID int64
	Total     int
	Previous  models.StudentStatus
	Status    models.StudentStatus
	// Found is false when the student no longer exists
	Found bool
}

// Changed reports whether the recomputation moved the student to a new status
func (a Aggregate) Changed() bool {
	return a.Found && a.Previous != a.Status
}

// PointAggregator recomputes a student's total from all linked violations
type PointAggregator struct {
	students   StudentFinder
	points     PointsWriter
	violations ViolationLister
	rules      RuleFinder
	logger     zerolog.Logger
}

// NewPointAggregator creates a new point aggregator
func NewPointAggregator(students StudentStore, violations ViolationLister, rules RuleFinder, logger zerolog.Logger) *PointAggregator {
	return &PointAggregator{
		students:   students,
		points:     students,
		violations: violations,
		rules:      rules,
		logger:     logger,
	}
}

// Recalculate sums the rule points of every violation linked to the student,
// derives the status and persists both. A missing student is not an error.
func (a *PointAggregator) Recalculate(ctx context.Context, studentID int64) (Aggregate, error) {
	result := Aggregate{StudentID: studentID}

	student, err := a.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			a.logger.Warn().Int64("studentId", studentID).Msg("Skipping point recalculation, student not found")
			return result, nil
		}
		return result, fmt.Errorf("error loading student %d: %w", studentID, err)
	}
	result.Found = true
	result.Previous = student.Status

	violations, err := a.violations.ListByStudent(ctx, studentID)
	if err != nil {
		return result, fmt.Errorf("error listing violations for student %d: %w", studentID, err)
	}

	points := make(map[int64]int)
	total := 0
	for _, v := range violations {
		if v.RuleID == nil {
			continue
		}
		value, ok := points[*v.RuleID]
		if !ok {
			rule, err := a.rules.GetByID(ctx, *v.RuleID)
			switch {
			case err == nil:
				value = rule.Points
			case errors.Is(err, apperrors.ErrResourceNotFound):
				a.logger.Warn().Int64("violationId", v.ID).Int64("ruleId", *v.RuleID).
					Msg("Violation references a missing rule, counting zero points")
			default:
				return result, fmt.Errorf("error loading rule %d: %w", *v.RuleID, err)
			}
			points[*v.RuleID] = value
		}
		total += value
	}

	result.Total = total
	result.Status = models.StatusForPoints(total)

	if err := a.points.UpdatePoints(ctx, studentID, result.Total, result.Status); err != nil {
		return result, fmt.Errorf("error saving points for student %d: %w", studentID, err)
	}

	event := a.logger.Debug()
	if result.Changed() {
		event = a.logger.Info()
	}
	event.Int64("studentId", studentID).
		Int("total", result.Total).
		Str("previousStatus", string(result.Previous)).
		Str("status", string(result.Status)).
		Msg("Recalculated student points")

	return result, nil
}
