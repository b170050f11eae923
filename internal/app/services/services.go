package services

import (
	"context"

	"github.com/silani/discipline/internal/app/models"
)

// Services defined in this package:
// - PointAggregator: recomputes a student's point total and status
// - GuardianNotifier: composes and sends the guardian WhatsApp message
// - ViolationService: violation workflow (persist, aggregate, notify, audit)
// - StudentService, ClassService, RuleService: administrative CRUD with audit
// - ActivityLogService: audit sink and log listing
// - DeviceService: Fonnte device administration

// StudentFinder looks up a single student
type StudentFinder interface {
	GetByID(ctx context.Context, id int64) (*models.Student, error)
}

// PointsWriter persists a student's derived total and status together
type PointsWriter interface {
	UpdatePoints(ctx context.Context, id int64, total int, status models.StudentStatus) error
}

// StudentStore is the persistence contract for students
type StudentStore interface {
	StudentFinder
	PointsWriter
	Create(ctx context.Context, student *models.Student) (int64, error)
	List(ctx context.Context, classID *int64) ([]*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	// Delete removes the student and detaches its violation records
	Delete(ctx context.Context, id int64) error
}

// RuleFinder looks up a single rule
type RuleFinder interface {
	GetByID(ctx context.Context, id int64) (*models.Rule, error)
}

// RuleStore is the persistence contract for the rule catalog
type RuleStore interface {
	RuleFinder
	Create(ctx context.Context, rule *models.Rule) (int64, error)
	List(ctx context.Context) ([]*models.Rule, error)
	Update(ctx context.Context, rule *models.Rule) error
	// Delete fails with apperrors.ErrRuleInUse while violations reference the rule
	Delete(ctx context.Context, id int64) error
}

// ViolationLister lists the violation records linked to a student
type ViolationLister interface {
	ListByStudent(ctx context.Context, studentID int64) ([]*models.Violation, error)
}

// ViolationStore is the persistence contract for violation records
type ViolationStore interface {
	ViolationLister
	Create(ctx context.Context, violation *models.Violation) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Violation, error)
	Update(ctx context.Context, violation *models.Violation) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter models.ViolationFilter) ([]*models.ViolationDetail, error)
	Summary(ctx context.Context, year int) (*models.ViolationSummary, error)
}

// ClassStore is the persistence contract for classes
type ClassStore interface {
	Create(ctx context.Context, class *models.Class) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Class, error)
	List(ctx context.Context) ([]*models.Class, error)
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id int64) error
}

// ActivityLogStore persists audit entries
type ActivityLogStore interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, filter models.ActivityLogFilter) ([]*models.ActivityLog, int64, error)
}

// AuditSink accepts audit entries. Recording never fails from the caller's
// point of view.
type AuditSink interface {
	Record(ctx context.Context, actorID *int64, activity, description string)
}
