package validators

import (
	"github.com/labstack/echo/v4"

	apperrors "task-manager.com/task-manager/internal/errors"
)

// Rule inspects one part of a request and reports every problem it finds.
// Rules may stash parsed values on the context for the handler.
type Rule func(c echo.Context) []apperrors.FieldError

// Chain runs all rules and rejects the request with a ValidationError when
// any of them fail. The next handler only runs on a clean request.
func Chain(rules ...Rule) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var errs []apperrors.FieldError
			for _, rule := range rules {
				errs = append(errs, rule(c)...)
			}

			if len(errs) > 0 {
				return apperrors.NewValidationError(errs...)
			}

			return next(c)
		}
	}
}

var (
	CreateTask = Chain(CreateTaskBody)
	ListTasks  = Chain(CompletedQuery)
	TaskID     = Chain(TaskIDParam)
	UpdateTask = Chain(TaskIDParam, UpdateTaskBody)
)
