package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/silani/discipline/internal/app/models"
)

// ClassInput carries the editable fields of a class
type ClassInput struct {
	Name            string `validate:"required,max=255"`
	HomeroomUserID  *int64 `validate:"omitempty,gt=0"`
	StudentCapacity *int   `validate:"omitempty,gte=0"`
}

// ClassService manages classes
type ClassService struct {
	classes ClassStore
	audit   AuditSink
	logger  zerolog.Logger
}

// NewClassService creates a new class service
func NewClassService(classes ClassStore, audit AuditSink, logger zerolog.Logger) *ClassService {
	return &ClassService{classes: classes, audit: audit, logger: logger}
}

// Create adds a class
func (s *ClassService) Create(ctx context.Context, actorID *int64, input ClassInput) (*models.Class, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	class := &models.Class{
		Name:            input.Name,
		HomeroomUserID:  input.HomeroomUserID,
		StudentCapacity: input.StudentCapacity,
	}
	id, err := s.classes.Create(ctx, class)
	if err != nil {
		return nil, fmt.Errorf("error creating class: %w", err)
	}
	class.ID = id

	s.audit.Record(ctx, actorID, models.ActivityCreate, fmt.Sprintf("Added class %s", class.Name))
	return class, nil
}

// Get returns a class by ID
func (s *ClassService) Get(ctx context.Context, id int64) (*models.Class, error) {
	class, err := s.classes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting class: %w", err)
	}
	return class, nil
}

// List returns all classes
func (s *ClassService) List(ctx context.Context) ([]*models.Class, error) {
	classes, err := s.classes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing classes: %w", err)
	}
	return classes, nil
}

// Update edits a class and audits each changed field
func (s *ClassService) Update(ctx context.Context, actorID *int64, id int64, input ClassInput) (*models.Class, error) {
	old, err := s.classes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting class: %w", err)
	}

	input.Name = strings.TrimSpace(input.Name)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	updated := *old
	updated.Name = input.Name
	updated.HomeroomUserID = input.HomeroomUserID
	updated.StudentCapacity = input.StudentCapacity
	if err := s.classes.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("error updating class: %w", err)
	}

	if old.Name != updated.Name {
		s.audit.Record(ctx, actorID, models.ActivityUpdate,
			fmt.Sprintf("Changed class name from %s to %s", old.Name, updated.Name))
	}
	if !sameInt(old.StudentCapacity, updated.StudentCapacity) {
		s.audit.Record(ctx, actorID, models.ActivityUpdate,
			fmt.Sprintf("Changed student count of class %s from %s to %s",
				updated.Name, formatInt(old.StudentCapacity), formatInt(updated.StudentCapacity)))
	}
	if !sameID(old.HomeroomUserID, updated.HomeroomUserID) {
		s.audit.Record(ctx, actorID, models.ActivityUpdate,
			fmt.Sprintf("Changed homeroom teacher of class %s from %s to %s",
				updated.Name, formatID(old.HomeroomUserID), formatID(updated.HomeroomUserID)))
	}
	return &updated, nil
}

// Delete removes a class. Its students become unassigned.
func (s *ClassService) Delete(ctx context.Context, actorID *int64, id int64) error {
	class, err := s.classes.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error getting class: %w", err)
	}

	if err := s.classes.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting class: %w", err)
	}

	s.audit.Record(ctx, actorID, models.ActivityDelete, fmt.Sprintf("Deleted class %s", class.Name))
	return nil
}

func sameInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func formatInt(v *int) string {
	if v == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *v)
}
