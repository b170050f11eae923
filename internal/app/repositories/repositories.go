package repositories

import (
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// statementBuilder renders squirrel queries with PostgreSQL placeholders
var statementBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository     *StudentRepository
	ClassRepository       *ClassRepository
	RuleRepository        *RuleRepository
	ViolationRepository   *ViolationRepository
	ActivityLogRepository *ActivityLogRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		StudentRepository:     NewStudentRepository(db),
		ClassRepository:       NewClassRepository(db),
		RuleRepository:        NewRuleRepository(db),
		ViolationRepository:   NewViolationRepository(db),
		ActivityLogRepository: NewActivityLogRepository(db),
	}
}
