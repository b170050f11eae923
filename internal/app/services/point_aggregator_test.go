package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silani/discipline/internal/app/models"
)

func newAggregator(store *memStore) *PointAggregator {
	return NewPointAggregator(studentRepo{store}, violationRepo{store}, ruleRepo{store}, zerolog.Nop())
}

func link(store *memStore, studentID, ruleID int64, status models.ViolationStatus) {
	_, _ = violationRepo{store}.Create(context.Background(), &models.Violation{
		StudentID: &studentID,
		RuleID:    &ruleID,
		Status:    status,
	})
}

func TestRecalculate_SumsEveryStatus(t *testing.T) {
	store := newMemStore()
	student := store.addStudent("Budi", "081234567890")
	late := store.addRule("Terlambat", models.CategoryLight, 5)
	fight := store.addRule("Berkelahi", models.CategorySevere, 50)

	link(store, student.ID, late.ID, models.ViolationPending)
	link(store, student.ID, late.ID, models.ViolationInProgress)
	link(store, student.ID, fight.ID, models.ViolationResolved)

	agg, err := newAggregator(store).Recalculate(context.Background(), student.ID)
	require.NoError(t, err)

	assert.True(t, agg.Found)
	assert.Equal(t, 60, agg.Total)
	assert.Equal(t, models.StatusActive, agg.Previous)
	assert.Equal(t, models.StatusWarning2, agg.Status)
	assert.True(t, agg.Changed())

	stored := store.student(student.ID)
	assert.Equal(t, 60, stored.TotalPoints)
	assert.Equal(t, models.StatusWarning2, stored.Status)
}

func TestRecalculate_Idempotent(t *testing.T) {
	store := newMemStore()
	student := store.addStudent("Budi", "081234567890")
	rule := store.addRule("Bolos", models.CategoryMedium, 25)
	link(store, student.ID, rule.ID, models.ViolationPending)

	aggregator := newAggregator(store)
	first, err := aggregator.Recalculate(context.Background(), student.ID)
	require.NoError(t, err)
	second, err := aggregator.Recalculate(context.Background(), student.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, first.Status, second.Status)
	assert.False(t, second.Changed())
}

func TestRecalculate_MissingRuleCountsZero(t *testing.T) {
	store := newMemStore()
	student := store.addStudent("Budi", "081234567890")
	rule := store.addRule("Bolos", models.CategoryMedium, 30)
	link(store, student.ID, rule.ID, models.ViolationPending)
	link(store, student.ID, 999, models.ViolationPending)

	agg, err := newAggregator(store).Recalculate(context.Background(), student.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, agg.Total)
}

func TestRecalculate_StudentNotFound(t *testing.T) {
	store := newMemStore()

	agg, err := newAggregator(store).Recalculate(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, agg.Found)
	assert.Zero(t, agg.Total)
	assert.Zero(t, store.pointWrites)
}

func TestRecalculate_NoViolationsResetsToActive(t *testing.T) {
	store := newMemStore()
	student := store.addStudent("Budi", "081234567890")
	store.students[student.ID].TotalPoints = 80
	store.students[student.ID].Status = models.StatusWarning3

	agg, err := newAggregator(store).Recalculate(context.Background(), student.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, agg.Total)
	assert.Equal(t, models.StatusWarning3, agg.Previous)
	assert.Equal(t, models.StatusActive, agg.Status)
}
