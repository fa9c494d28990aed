package app_error

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type statusError struct {
	error
	status int
}

func (e statusError) Unwrap() error {
	return e.error
}

func (e statusError) HTTPStatus() int {
	return e.status
}

func WithHTTPStatus(c *gin.Context, err error, status int) {
	c.JSON(status, gin.H{"error": err.Error()})
}

// FromStoreError maps store failures to a response: missing records are
// 404 and foreign key violations are 409 (referenced teams, predictors
// and tournaments are protected, not cascade-deleted).
func FromStoreError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		WithHTTPStatus(c, err, 404)
		return
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) || strings.Contains(err.Error(), "violates foreign key constraint") {
		WithHTTPStatus(c, err, 409)
		return
	}
	WithHTTPStatus(c, err, 500)
}
