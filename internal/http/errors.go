package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	dto "task-manager.com/task-manager/internal/data_models"
	apperrors "task-manager.com/task-manager/internal/errors"
	"task-manager.com/task-manager/internal/logger"
)

// NewErrorHandler renders every error returned by handlers and middleware
// as JSON: validation failures as an itemized list, everything else as a
// message.
func NewErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := render(err)

		if status >= http.StatusInternalServerError {
			log.Errorw("request_failed", "path", c.Path(), "status", status, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Errorw("error_response_failed", "error", err)
		}
	}
}

func render(err error) (int, interface{}) {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr
	}

	var appErr *apperrors.Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode, dto.MessageResponse{Message: appErr.Message}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		msg := fmt.Sprint(httpErr.Message)
		if httpErr.Internal != nil && httpErr.Code >= http.StatusInternalServerError {
			msg = httpErr.Internal.Error()
		}
		return httpErr.Code, dto.MessageResponse{Message: msg}
	}

	return http.StatusInternalServerError, dto.MessageResponse{Message: err.Error()}
}
