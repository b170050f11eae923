package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/silani/discipline/internal/app/models"
	"github.com/silani/discipline/internal/db"
	"github.com/silani/discipline/internal/pkg/apperrors"
	"github.com/silani/discipline/internal/pkg/dberrors"
	"github.com/silani/discipline/internal/pkg/logger"
)

var studentColumns = []string{
	"s.id", "s.nisn", "s.name", "s.class_id", "c.name",
	"s.guardian_name", "s.guardian_phone", "s.total_points", "s.status",
	"s.created_at", "s.updated_at",
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: db, sb: statementBuilder}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	s := &models.Student{}
	err := row.Scan(&s.ID, &s.NISN, &s.Name, &s.ClassID, &s.ClassName,
		&s.GuardianName, &s.GuardianPhone, &s.TotalPoints, &s.Status,
		&s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *StudentRepository) selectStudents() squirrel.SelectBuilder {
	return r.sb.Select(studentColumns...).
		From("students s").
		LeftJoin("classes c ON c.id = s.class_id")
}

// Create inserts a student and returns its ID
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) (int64, error) {
	sql, args, err := r.sb.Insert("students").
		Columns("nisn", "name", "class_id", "guardian_name", "guardian_phone", "total_points", "status").
		Values(student.NISN, student.Name, student.ClassID, student.GuardianName, student.GuardianPhone,
			student.TotalPoints, student.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create student query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id, &student.CreatedAt, &student.UpdatedAt); err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return 0, apperrors.ErrNISNAlreadyExists
		}
		if dberrors.IsForeignKeyError(err) {
			return 0, apperrors.ErrClassNotFound
		}
		logger.Error().Err(err).Str("nisn", student.NISN).Msg("Error executing create student query")
		return 0, fmt.Errorf("error creating student: %w", err)
	}

	return id, nil
}

// GetByID retrieves a student with its class name
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.selectStudents().
		Where(squirrel.Eq{"s.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}

	return student, nil
}

// List retrieves students ordered by name, optionally limited to one class
func (r *StudentRepository) List(ctx context.Context, classID *int64) ([]*models.Student, error) {
	query := r.selectStudents().OrderBy("s.name ASC")
	if classID != nil {
		query = query.Where(squirrel.Eq{"s.class_id": *classID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

// Update writes the editable fields of a student. Points and status are only
// written by UpdatePoints.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Update("students").
		SetMap(map[string]interface{}{
			"nisn":           student.NISN,
			"name":           student.Name,
			"class_id":       student.ClassID,
			"guardian_name":  student.GuardianName,
			"guardian_phone": student.GuardianPhone,
			"updated_at":     squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": student.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.ErrNISNAlreadyExists
		}
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrClassNotFound
		}
		logger.Error().Err(err).Int64("studentID", student.ID).Msg("Error executing update student query")
		return fmt.Errorf("error updating student: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// UpdatePoints stores a recomputed total and status in one statement
func (r *StudentRepository) UpdatePoints(ctx context.Context, id int64, total int, status models.StudentStatus) error {
	sql, args, err := r.sb.Update("students").
		Set("total_points", total).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update points query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating student points: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// Delete detaches the student's violations and removes the student in one
// transaction
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	detachSQL, detachArgs, err := r.sb.Update("violations").
		Set("student_id", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"student_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build detach violations query: %w", err)
	}

	deleteSQL, deleteArgs, err := r.sb.Delete("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	return db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		detached, err := tx.Exec(ctx, detachSQL, detachArgs...)
		if err != nil {
			return fmt.Errorf("error detaching violations: %w", err)
		}

		cmdTag, err := tx.Exec(ctx, deleteSQL, deleteArgs...)
		if err != nil {
			logger.Error().Err(err).Int64("studentID", id).Msg("Error executing delete student query")
			return fmt.Errorf("error deleting student: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrStudentNotFound
		}

		logger.Debug().Int64("studentID", id).Int64("detached", detached.RowsAffected()).Msg("Student deleted")
		return nil
	})
}
