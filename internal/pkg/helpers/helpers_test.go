package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silani/discipline/internal/pkg/apperrors"
)

func newContext(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(3, 20)
	assert.Equal(t, uint64(40), offset)
	assert.Equal(t, uint64(20), limit)

	offset, limit = CalculateOffsetLimit(0, 500)
	assert.Equal(t, uint64(0), offset)
	assert.Equal(t, uint64(DefaultPageSize), limit)
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(45, 2, 20)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 2, info.CurrentPage)

	info = NewPaginationInfo(0, 1, 20)
	assert.Equal(t, 1, info.TotalPages)

	info = NewPaginationInfo(5, 9, 20)
	assert.Equal(t, 1, info.CurrentPage)
}

func TestParsePaginationParams(t *testing.T) {
	page, size := ParsePaginationParams(newContext("/logs?page=2&size=50"))
	assert.Equal(t, 2, page)
	assert.Equal(t, 50, size)

	page, size = ParsePaginationParams(newContext("/logs?page=-1&size=abc"))
	assert.Equal(t, DefaultPage, page)
	assert.Equal(t, DefaultPageSize, size)
}

func TestOptionalQueries(t *testing.T) {
	c := newContext("/violations?studentId=12&year=2025&status=ditunda&month=x")

	studentID, err := OptionalInt64Query(c, "studentId")
	require.NoError(t, err)
	require.NotNil(t, studentID)
	assert.Equal(t, int64(12), *studentID)

	year, err := OptionalIntQuery(c, "year")
	require.NoError(t, err)
	assert.Equal(t, 2025, *year)

	_, err = OptionalIntQuery(c, "month")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	missing, err := OptionalInt64Query(c, "classId")
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.Equal(t, "ditunda", *OptionalStringQuery(c, "status"))
	assert.Nil(t, OptionalStringQuery(c, "term"))
}

func TestParseIDParam(t *testing.T) {
	c := newContext("/students/7")
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	id, err := ParseIDParam(c, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	c.Params = gin.Params{{Key: "id", Value: "0"}}
	_, err = ParseIDParam(c, "id")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 90*time.Minute, ParseDuration("1h30m", time.Hour))
	assert.Equal(t, time.Hour, ParseDuration("soon", time.Hour))
}
