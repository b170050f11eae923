package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/silani/discipline/internal/app/models"
)

// ClassFinder looks up a single class
type ClassFinder interface {
	GetByID(ctx context.Context, id int64) (*models.Class, error)
}

// StudentInput carries the editable fields of a student. Points and status
// are derived and never accepted from callers.
type StudentInput struct {
	NISN          string `validate:"required,max=20"`
	Name          string `validate:"required,max=100"`
	ClassID       *int64 `validate:"omitempty,gt=0"`
	GuardianName  string `validate:"required,max=100"`
	GuardianPhone string `validate:"required,rawphone"`
}

func (in *StudentInput) normalize() {
	in.NISN = strings.TrimSpace(in.NISN)
	in.Name = strings.TrimSpace(in.Name)
	in.GuardianName = strings.TrimSpace(in.GuardianName)
	in.GuardianPhone = strings.TrimSpace(in.GuardianPhone)
}

// StudentService manages student records
type StudentService struct {
	students StudentStore
	classes  ClassFinder
	audit    AuditSink
	logger   zerolog.Logger
}

// NewStudentService creates a new student service
func NewStudentService(students StudentStore, classes ClassFinder, audit AuditSink, logger zerolog.Logger) *StudentService {
	return &StudentService{students: students, classes: classes, audit: audit, logger: logger}
}

// Create enrolls a student with zero points and Active status
func (s *StudentService) Create(ctx context.Context, actorID *int64, input StudentInput) (*models.Student, error) {
	input.normalize()
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	className, err := s.className(ctx, input.ClassID)
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		NISN:          input.NISN,
		Name:          input.Name,
		ClassID:       input.ClassID,
		ClassName:     className,
		GuardianName:  input.GuardianName,
		GuardianPhone: input.GuardianPhone,
		TotalPoints:   0,
		Status:        models.StatusForPoints(0),
	}
	id, err := s.students.Create(ctx, student)
	if err != nil {
		return nil, fmt.Errorf("error creating student: %w", err)
	}
	student.ID = id

	s.audit.Record(ctx, actorID, models.ActivityCreate,
		fmt.Sprintf("Added new student %s (NISN: %s)", student.Name, student.NISN))
	return student, nil
}

// Get returns a student by ID
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting student: %w", err)
	}
	return student, nil
}

// List returns all students, or only the students of one class
func (s *StudentService) List(ctx context.Context, classID *int64) ([]*models.Student, error) {
	students, err := s.students.List(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	return students, nil
}

// Update edits a student's fields and writes one audit entry per changed field
func (s *StudentService) Update(ctx context.Context, actorID *int64, id int64, input StudentInput) (*models.Student, error) {
	old, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting student: %w", err)
	}

	input.normalize()
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	className, err := s.className(ctx, input.ClassID)
	if err != nil {
		return nil, err
	}

	updated := *old
	updated.NISN = input.NISN
	updated.Name = input.Name
	updated.ClassID = input.ClassID
	updated.ClassName = className
	updated.GuardianName = input.GuardianName
	updated.GuardianPhone = input.GuardianPhone

	if err := s.students.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("error updating student: %w", err)
	}

	for _, change := range diffStudent(old, &updated) {
		s.audit.Record(ctx, actorID, models.ActivityUpdate, change)
	}
	return &updated, nil
}

// Delete removes a student and detaches its violation records
func (s *StudentService) Delete(ctx context.Context, actorID *int64, id int64) error {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error getting student: %w", err)
	}

	if err := s.students.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}

	s.audit.Record(ctx, actorID, models.ActivityDelete,
		fmt.Sprintf("Deleted student %s (NISN: %s)", student.Name, student.NISN))
	return nil
}

func (s *StudentService) className(ctx context.Context, classID *int64) (*string, error) {
	if classID == nil {
		return nil, nil
	}
	class, err := s.classes.GetByID(ctx, *classID)
	if err != nil {
		return nil, fmt.Errorf("error loading class: %w", err)
	}
	return &class.Name, nil
}

func diffStudent(old, updated *models.Student) []string {
	var changes []string
	if old.NISN != updated.NISN {
		changes = append(changes, fmt.Sprintf("Changed NISN of student %s from %s to %s", updated.Name, old.NISN, updated.NISN))
	}
	if old.Name != updated.Name {
		changes = append(changes, fmt.Sprintf("Changed student name from %s to %s", old.Name, updated.Name))
	}
	if !sameID(old.ClassID, updated.ClassID) {
		changes = append(changes, fmt.Sprintf("Moved student %s from class %s to %s", updated.Name, old.ClassLabel(), updated.ClassLabel()))
	}
	if old.GuardianName != updated.GuardianName {
		changes = append(changes, fmt.Sprintf("Changed guardian name of student %s from %s to %s", updated.Name, old.GuardianName, updated.GuardianName))
	}
	if old.GuardianPhone != updated.GuardianPhone {
		changes = append(changes, fmt.Sprintf("Changed guardian phone of student %s from %s to %s", updated.Name, old.GuardianPhone, updated.GuardianPhone))
	}
	return changes
}
