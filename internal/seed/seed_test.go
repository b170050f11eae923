package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silani/discipline/internal/app/models"
)

type memRules struct{ items []*models.Rule }

func (m *memRules) Create(_ context.Context, rule *models.Rule) (int64, error) {
	rule.ID = int64(len(m.items) + 1)
	m.items = append(m.items, rule)
	return rule.ID, nil
}

func (m *memRules) List(context.Context) ([]*models.Rule, error) { return m.items, nil }

type memClasses struct{ items []*models.Class }

func (m *memClasses) Create(_ context.Context, class *models.Class) (int64, error) {
	class.ID = int64(len(m.items) + 1)
	m.items = append(m.items, class)
	return class.ID, nil
}

func (m *memClasses) List(context.Context) ([]*models.Class, error) { return m.items, nil }

func TestCreateDefaultData(t *testing.T) {
	rules := &memRules{}
	classes := &memClasses{}

	require.NoError(t, CreateDefaultData(context.Background(), rules, classes, zerolog.Nop()))
	assert.Len(t, rules.items, 12)
	assert.Len(t, classes.items, 9)

	// second run leaves existing data alone
	require.NoError(t, CreateDefaultData(context.Background(), rules, classes, zerolog.Nop()))
	assert.Len(t, rules.items, 12)
	assert.Len(t, classes.items, 9)
}

func TestDefaultRulesAreValid(t *testing.T) {
	for _, rule := range DefaultRules {
		assert.True(t, rule.Category.IsValid(), rule.Description)
		assert.Positive(t, rule.Points, rule.Description)
	}
}
