package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"task-manager.com/task-manager/internal/http/docs"
	"task-manager.com/task-manager/internal/http/validators"
)

const (
	tasksPath = "/api/tasks"
	taskPath  = "/api/tasks/:id"
	DocsPath  = "/api-docs"
)

// Route binds a verb and path to its validation chain and handler. The
// embedded Endpoint also feeds the generated API documentation.
type Route struct {
	docs.Endpoint
	Validate echo.MiddlewareFunc
	Handle   echo.HandlerFunc
}

var (
	idParam = docs.Param{
		Name:        "id",
		In:          "path",
		Description: "Task identifier.",
		Type:        "objectId",
		Required:    true,
	}

	badRequest   = docs.Response{Status: http.StatusBadRequest, Description: "Invalid request.", Schema: docs.SchemaValidationErrors}
	notFound     = docs.Response{Status: http.StatusNotFound, Description: "Task not found.", Schema: docs.SchemaMessage}
	storeFailure = docs.Response{Status: http.StatusInternalServerError, Description: "Store failure.", Schema: docs.SchemaMessage}
)

func (h *Handler) Routes() []Route {
	return []Route{
		{
			Endpoint: docs.Endpoint{
				Method:      http.MethodPost,
				Path:        tasksPath,
				OperationID: "createTask",
				Summary:     "Create a task",
				RequestBody: docs.SchemaCreateTask,
				Responses: []docs.Response{
					{Status: http.StatusCreated, Description: "Task created.", Schema: docs.SchemaTask},
					badRequest,
					storeFailure,
				},
			},
			Validate: validators.CreateTask,
			Handle:   h.CreateTask,
		},
		{
			Endpoint: docs.Endpoint{
				Method:      http.MethodGet,
				Path:        tasksPath,
				OperationID: "listTasks",
				Summary:     "List tasks",
				Params: []docs.Param{{
					Name:        "completed",
					In:          "query",
					Description: "Filter by state: true for completed, false for pending.",
					Type:        "boolean",
				}},
				Responses: []docs.Response{
					{Status: http.StatusOK, Description: "Tasks.", Schema: docs.SchemaTaskList},
					badRequest,
					storeFailure,
				},
			},
			Validate: validators.ListTasks,
			Handle:   h.ListTasks,
		},
		{
			Endpoint: docs.Endpoint{
				Method:      http.MethodGet,
				Path:        taskPath,
				OperationID: "getTask",
				Summary:     "Get a task",
				Params:      []docs.Param{idParam},
				Responses: []docs.Response{
					{Status: http.StatusOK, Description: "The task.", Schema: docs.SchemaTask},
					badRequest,
					notFound,
					storeFailure,
				},
			},
			Validate: validators.TaskID,
			Handle:   h.GetTask,
		},
		{
			Endpoint: docs.Endpoint{
				Method:      http.MethodPut,
				Path:        taskPath,
				OperationID: "updateTask",
				Summary:     "Update a task",
				Params:      []docs.Param{idParam},
				RequestBody: docs.SchemaUpdateTask,
				Responses: []docs.Response{
					{Status: http.StatusOK, Description: "Task updated.", Schema: docs.SchemaTask},
					badRequest,
					notFound,
					storeFailure,
				},
			},
			Validate: validators.UpdateTask,
			Handle:   h.UpdateTask,
		},
		{
			Endpoint: docs.Endpoint{
				Method:      http.MethodDelete,
				Path:        taskPath,
				OperationID: "deleteTask",
				Summary:     "Delete a task",
				Params:      []docs.Param{idParam},
				Responses: []docs.Response{
					{Status: http.StatusOK, Description: "Task deleted.", Schema: docs.SchemaMessage},
					badRequest,
					notFound,
					storeFailure,
				},
			},
			Validate: validators.TaskID,
			Handle:   h.DeleteTask,
		},
	}
}

// Register mounts the task routes, the health check and the documentation.
// apiMiddleware runs before validation on task routes only.
func Register(e *echo.Echo, h *Handler, info docs.Info, apiMiddleware ...echo.MiddlewareFunc) {
	routes := h.Routes()
	endpoints := make([]docs.Endpoint, 0, len(routes))

	for _, r := range routes {
		mw := append(append([]echo.MiddlewareFunc{}, apiMiddleware...), r.Validate)
		e.Add(r.Method, r.Path, r.Handle, mw...)
		endpoints = append(endpoints, r.Endpoint)
	}

	e.GET("/health", h.Health)
	docs.Register(e, DocsPath, docs.Build(info, endpoints))
}
