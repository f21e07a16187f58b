// controllers/errors.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cashtrack/cashtrack_backend/lifecycle"
	"github.com/cashtrack/cashtrack_backend/models"
)

// respondError maps lifecycle error kinds onto HTTP statuses. Anything
// unrecognized is a 500 with a generic message; the real cause goes to the
// log, not the client.
func respondError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, lifecycle.ErrValidation):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, lifecycle.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, lifecycle.ErrForbidden):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, lifecycle.ErrStateConflict), errors.Is(err, lifecycle.ErrConflict):
		status = http.StatusConflict
		message = err.Error()
	default:
		c.Logger().Error(err)
	}

	return c.JSON(status, models.Response{
		Status:  status,
		Message: message,
	})
}
