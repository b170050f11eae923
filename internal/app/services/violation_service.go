package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/silani/discipline/internal/app/models"
	"github.com/silani/discipline/internal/pkg/apperrors"
)

// PointRecalculator recomputes a student's total and status
type PointRecalculator interface {
	Recalculate(ctx context.Context, studentID int64) (Aggregate, error)
}

// Notifier notifies a guardian about a newly recorded violation
type Notifier interface {
	Notify(ctx context.Context, actorID *int64, student *models.Student, rule *models.Rule, violation *models.Violation) NotificationOutcome
}

// ViolationInput carries the writable fields of a violation record
type ViolationInput struct {
	StudentID   int64                  `validate:"required,gt=0"`
	OfficerID   int64                  `validate:"required,gt=0"`
	RuleID      int64                  `validate:"required,gt=0"`
	Status      models.ViolationStatus `validate:"required,oneof=ditunda diproses selesai"`
	Description string                 `validate:"max=1000"`
	OccurredAt  time.Time
}

// CreateViolationResult is the stored record and the notification outcome
type CreateViolationResult struct {
	Violation    *models.Violation   `json:"violation"`
	Aggregate    Aggregate           `json:"-"`
	Notification NotificationOutcome `json:"notification"`
}

// ViolationService runs the violation workflow: persist, aggregate, notify
// and audit
type ViolationService struct {
	violations ViolationStore
	students   StudentFinder
	rules      RuleFinder
	points     PointRecalculator
	notifier   Notifier
	audit      AuditSink
	logger     zerolog.Logger
}

// NewViolationService creates a new violation service
func NewViolationService(
	violations ViolationStore,
	students StudentFinder,
	rules RuleFinder,
	points PointRecalculator,
	notifier Notifier,
	audit AuditSink,
	logger zerolog.Logger,
) *ViolationService {
	return &ViolationService{
		violations: violations,
		students:   students,
		rules:      rules,
		points:     points,
		notifier:   notifier,
		audit:      audit,
		logger:     logger,
	}
}

func validateViolationInput(input ViolationInput) error {
	if err := validateStruct(input); err != nil {
		return err
	}
	if input.OccurredAt.IsZero() {
		return fmt.Errorf("%w: OccurredAt is required", apperrors.ErrValidationFailed)
	}
	return nil
}

// Create records a violation, recomputes the student's points and notifies
// the guardian
func (s *ViolationService) Create(ctx context.Context, actorID *int64, input ViolationInput) (*CreateViolationResult, error) {
	if err := validateViolationInput(input); err != nil {
		return nil, err
	}

	student, err := s.students.GetByID(ctx, input.StudentID)
	if err != nil {
		return nil, fmt.Errorf("error loading student: %w", err)
	}
	rule, err := s.rules.GetByID(ctx, input.RuleID)
	if err != nil {
		return nil, fmt.Errorf("error loading rule: %w", err)
	}

	violation := &models.Violation{
		StudentID:   &input.StudentID,
		OfficerID:   &input.OfficerID,
		RuleID:      &input.RuleID,
		Status:      input.Status,
		Description: strings.TrimSpace(input.Description),
		OccurredAt:  input.OccurredAt,
	}
	id, err := s.violations.Create(ctx, violation)
	if err != nil {
		return nil, fmt.Errorf("error creating violation: %w", err)
	}
	violation.ID = id

	result := &CreateViolationResult{Violation: violation}
	result.Aggregate = s.recalculate(ctx, student.ID)
	if result.Aggregate.Found {
		student.TotalPoints = result.Aggregate.Total
		student.Status = result.Aggregate.Status
	}

	s.audit.Record(ctx, actorID, models.ActivityCreate,
		fmt.Sprintf("Violation added for student %s: %s (%s) with status %s",
			student.Name, rule.Description, rule.Category, violation.Status))

	result.Notification = s.notifier.Notify(ctx, actorID, student, rule, violation)
	return result, nil
}

// Update rewrites a violation record and recomputes every affected student.
// A zero OfficerID keeps the stored officer. Guardians are not notified again.
func (s *ViolationService) Update(ctx context.Context, actorID *int64, id int64, input ViolationInput) (*models.Violation, error) {
	old, err := s.violations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading violation: %w", err)
	}

	if input.OfficerID == 0 && old.OfficerID != nil {
		input.OfficerID = *old.OfficerID
	}

	if err := validateViolationInput(input); err != nil {
		return nil, err
	}

	if _, err := s.students.GetByID(ctx, input.StudentID); err != nil {
		return nil, fmt.Errorf("error loading student: %w", err)
	}
	if _, err := s.rules.GetByID(ctx, input.RuleID); err != nil {
		return nil, fmt.Errorf("error loading rule: %w", err)
	}

	updated := &models.Violation{
		ID:          old.ID,
		StudentID:   &input.StudentID,
		OfficerID:   &input.OfficerID,
		RuleID:      &input.RuleID,
		Status:      input.Status,
		Description: strings.TrimSpace(input.Description),
		OccurredAt:  input.OccurredAt,
		CreatedAt:   old.CreatedAt,
	}
	if err := s.violations.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("error updating violation: %w", err)
	}

	if changes := diffViolation(old, updated); len(changes) > 0 {
		s.audit.Record(ctx, actorID, models.ActivityUpdate,
			fmt.Sprintf("Violation %d updated: %s", id, strings.Join(changes, "; ")))
	}

	studentChanged := !sameID(old.StudentID, updated.StudentID)
	ruleChanged := !sameID(old.RuleID, updated.RuleID)
	switch {
	case studentChanged:
		if old.StudentID != nil {
			s.recalculate(ctx, *old.StudentID)
		}
		s.recalculate(ctx, input.StudentID)
	case ruleChanged:
		s.recalculate(ctx, input.StudentID)
	}

	return updated, nil
}

// Delete removes a violation record and recomputes the student it belonged to
func (s *ViolationService) Delete(ctx context.Context, actorID *int64, id int64) error {
	violation, err := s.violations.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error loading violation: %w", err)
	}

	if err := s.violations.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting violation: %w", err)
	}

	studentName := "-"
	if violation.StudentID != nil {
		if student, err := s.students.GetByID(ctx, *violation.StudentID); err == nil {
			studentName = student.Name
		}
		s.recalculate(ctx, *violation.StudentID)
	}
	ruleName := "-"
	if violation.RuleID != nil {
		if rule, err := s.rules.GetByID(ctx, *violation.RuleID); err == nil {
			ruleName = rule.Description
		}
	}

	s.audit.Record(ctx, actorID, models.ActivityDelete,
		fmt.Sprintf("Violation %d deleted for student %s (%s)", id, studentName, ruleName))
	return nil
}

// Get returns a single violation record
func (s *ViolationService) Get(ctx context.Context, id int64) (*models.Violation, error) {
	violation, err := s.violations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting violation: %w", err)
	}
	return violation, nil
}

// List returns violations, optionally limited to one student or status
func (s *ViolationService) List(ctx context.Context, studentID *int64, status *models.ViolationStatus) ([]*models.ViolationDetail, error) {
	if status != nil && !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown violation status %q", apperrors.ErrValidationFailed, *status)
	}
	items, err := s.violations.List(ctx, models.ViolationFilter{StudentID: studentID, Status: status})
	if err != nil {
		return nil, fmt.Errorf("error listing violations: %w", err)
	}
	return items, nil
}

// Search matches violations by student name or NISN
func (s *ViolationService) Search(ctx context.Context, term string) ([]*models.ViolationDetail, error) {
	items, err := s.violations.List(ctx, models.ViolationFilter{Term: strings.TrimSpace(term)})
	if err != nil {
		return nil, fmt.Errorf("error searching violations: %w", err)
	}
	return items, nil
}

// Report lists violations that occurred in the given year and month
func (s *ViolationService) Report(ctx context.Context, year, month *int, status *models.ViolationStatus) ([]*models.ViolationDetail, error) {
	if month != nil && (*month < 1 || *month > 12) {
		return nil, fmt.Errorf("%w: month must be between 1 and 12", apperrors.ErrValidationFailed)
	}
	if status != nil && !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown violation status %q", apperrors.ErrValidationFailed, *status)
	}
	items, err := s.violations.List(ctx, models.ViolationFilter{Year: year, Month: month, Status: status})
	if err != nil {
		return nil, fmt.Errorf("error building violation report: %w", err)
	}
	return items, nil
}

// Summary counts violations by status and per month of the given year
func (s *ViolationService) Summary(ctx context.Context, year int) (*models.ViolationSummary, error) {
	summary, err := s.violations.Summary(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("error summarizing violations: %w", err)
	}
	return summary, nil
}

// recalculate logs aggregation failures and keeps going. A failed pass
// reports Found=false so callers keep the student's previous values.
func (s *ViolationService) recalculate(ctx context.Context, studentID int64) Aggregate {
	agg, err := s.points.Recalculate(ctx, studentID)
	if err != nil {
		s.logger.Error().Err(err).Int64("studentId", studentID).Msg("Failed to recalculate student points")
		return Aggregate{StudentID: studentID}
	}
	return agg
}

func diffViolation(old, updated *models.Violation) []string {
	var changes []string
	if !sameID(old.StudentID, updated.StudentID) {
		changes = append(changes, fmt.Sprintf("student changed from %s to %s", formatID(old.StudentID), formatID(updated.StudentID)))
	}
	if !sameID(old.RuleID, updated.RuleID) {
		changes = append(changes, fmt.Sprintf("rule changed from %s to %s", formatID(old.RuleID), formatID(updated.RuleID)))
	}
	if !sameID(old.OfficerID, updated.OfficerID) {
		changes = append(changes, fmt.Sprintf("officer changed from %s to %s", formatID(old.OfficerID), formatID(updated.OfficerID)))
	}
	if old.Status != updated.Status {
		changes = append(changes, fmt.Sprintf("status changed from %s to %s", old.Status, updated.Status))
	}
	if old.Description != updated.Description {
		changes = append(changes, fmt.Sprintf("description changed from %q to %q", old.Description, updated.Description))
	}
	if !old.OccurredAt.Equal(updated.OccurredAt) {
		changes = append(changes, fmt.Sprintf("occurrence time changed from %s to %s",
			old.OccurredAt.Format(OccurredAtLayout), updated.OccurredAt.Format(OccurredAtLayout)))
	}
	return changes
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func formatID(id *int64) string {
	if id == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *id)
}
