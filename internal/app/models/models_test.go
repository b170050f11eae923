package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusForPoints(t *testing.T) {
	tests := []struct {
		total int
		want  StudentStatus
	}{
		{0, StatusActive},
		{24, StatusActive},
		{25, StatusWarning1},
		{49, StatusWarning1},
		{50, StatusWarning2},
		{74, StatusWarning2},
		{75, StatusWarning3},
		{99, StatusWarning3},
		{100, StatusExpelled},
		{250, StatusExpelled},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusForPoints(tt.total), "total %d", tt.total)
	}
}

func TestEnumValidation(t *testing.T) {
	assert.True(t, ViolationPending.IsValid())
	assert.False(t, ViolationStatus("Selesai").IsValid())
	assert.True(t, CategorySevere.IsValid())
	assert.False(t, RuleCategory("Extreme").IsValid())
	assert.True(t, StatusExpelled.IsValid())
	assert.False(t, StudentStatus("").IsValid())
}

func TestClassLabel(t *testing.T) {
	name := "XII- RPL"
	assert.Equal(t, "XII- RPL", (&Student{ClassName: &name}).ClassLabel())
	assert.Equal(t, "-", (&Student{}).ClassLabel())
}
