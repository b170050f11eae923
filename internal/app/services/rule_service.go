package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/silani/discipline/internal/app/models"
)

// RuleInput carries the editable fields of a rule
type RuleInput struct {
	Description string              `validate:"required,max=255"`
	Category    models.RuleCategory `validate:"required,oneof=Ringan Sedang Berat"`
	Points      int                 `validate:"required,gt=0"`
}

// RuleService manages the rule catalog. Editing a rule does not touch
// existing student totals; they pick up the new value on the next
// recalculation.
type RuleService struct {
	rules  RuleStore
	audit  AuditSink
	logger zerolog.Logger
}

// NewRuleService creates a new rule service
func NewRuleService(rules RuleStore, audit AuditSink, logger zerolog.Logger) *RuleService {
	return &RuleService{rules: rules, audit: audit, logger: logger}
}

// Create adds a rule to the catalog
func (s *RuleService) Create(ctx context.Context, actorID *int64, input RuleInput) (*models.Rule, error) {
	input.Description = strings.TrimSpace(input.Description)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	rule := &models.Rule{
		Description: input.Description,
		Category:    input.Category,
		Points:      input.Points,
	}
	id, err := s.rules.Create(ctx, rule)
	if err != nil {
		return nil, fmt.Errorf("error creating rule: %w", err)
	}
	rule.ID = id

	s.audit.Record(ctx, actorID, models.ActivityCreate,
		fmt.Sprintf("Added rule %s (category: %s, points: %d)", rule.Description, rule.Category, rule.Points))
	return rule, nil
}

// Get returns a rule by ID
func (s *RuleService) Get(ctx context.Context, id int64) (*models.Rule, error) {
	rule, err := s.rules.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting rule: %w", err)
	}
	return rule, nil
}

// List returns the whole catalog
func (s *RuleService) List(ctx context.Context) ([]*models.Rule, error) {
	rules, err := s.rules.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing rules: %w", err)
	}
	return rules, nil
}

// Update edits a rule and writes one audit entry per changed field
func (s *RuleService) Update(ctx context.Context, actorID *int64, id int64, input RuleInput) (*models.Rule, error) {
	old, err := s.rules.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting rule: %w", err)
	}

	input.Description = strings.TrimSpace(input.Description)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	updated := *old
	updated.Description = input.Description
	updated.Category = input.Category
	updated.Points = input.Points
	if err := s.rules.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("error updating rule: %w", err)
	}

	if old.Description != updated.Description {
		s.audit.Record(ctx, actorID, models.ActivityUpdate,
			fmt.Sprintf("Changed rule description from '%s' to '%s'", old.Description, updated.Description))
	}
	if old.Category != updated.Category {
		s.audit.Record(ctx, actorID, models.ActivityUpdate,
			fmt.Sprintf("Changed category of rule '%s' from '%s' to '%s'", updated.Description, old.Category, updated.Category))
	}
	if old.Points != updated.Points {
		s.audit.Record(ctx, actorID, models.ActivityUpdate,
			fmt.Sprintf("Changed points of rule '%s' from %d to %d", updated.Description, old.Points, updated.Points))
	}
	return &updated, nil
}

// Delete removes a rule that no violation references
func (s *RuleService) Delete(ctx context.Context, actorID *int64, id int64) error {
	rule, err := s.rules.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error getting rule: %w", err)
	}

	if err := s.rules.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting rule: %w", err)
	}

	s.audit.Record(ctx, actorID, models.ActivityDelete,
		fmt.Sprintf("Deleted rule %s (category: %s, points: %d)", rule.Description, rule.Category, rule.Points))
	return nil
}
