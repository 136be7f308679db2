package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "kennelbook.io/kennelbook/internal/pkg/errors"
)

// dateLayout is the wire format for calendar dates. Time-of-day never
// matters for cycle arithmetic, so RFC 3339 timestamps are accepted but
// truncated.
const dateLayout = "2006-01-02"

// parseDate parses a request date in YYYY-MM-DD or RFC 3339 form.
func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation(dateLayout, value, time.UTC); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, apperrors.BadRequest(apperrors.CodeValidationFailed,
		fmt.Sprintf("%s must be a date in YYYY-MM-DD form", field))
}

// bindJSON binds the request body and converts failures into a uniform
// validation error.
func bindJSON(c *gin.Context, out interface{}) error {
	if err := c.ShouldBindJSON(out); err != nil {
		return apperrors.Wrap(err, apperrors.CodeValidationFailed,
			"request body is not valid JSON for this endpoint", http.StatusBadRequest)
	}
	return nil
}

// abortWithError records err for the ErrorHandler middleware and stops the
// handler chain.
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
