package helpers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/silani/discipline/internal/pkg/apperrors"
)

// ParseIDParam parses a positive int64 path parameter
func ParseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequestError(fmt.Sprintf("%s must be a positive number", name))
	}
	return id, nil
}

// OptionalInt64Query parses an optional int64 query parameter. An absent or
// empty parameter yields nil.
func OptionalInt64Query(c *gin.Context, name string) (*int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("%s must be a number", name))
	}
	return &v, nil
}

// OptionalIntQuery parses an optional int query parameter
func OptionalIntQuery(c *gin.Context, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("%s must be a number", name))
	}
	return &v, nil
}

// OptionalStringQuery returns a query parameter, or nil when it is absent or empty
func OptionalStringQuery(c *gin.Context, name string) *string {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	return &raw
}
