package dto

// CreateTaskRequest is the body of POST /api/tasks. Completed is accepted
// and type-checked but new tasks always start pending.
type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,notblank,max=100"`
	Description *string `json:"description" validate:"omitnil,max=500"`
	Completed   *bool   `json:"completed"`
}

// UpdateTaskRequest is the body of PUT /api/tasks/:id. Only supplied fields
// are changed.
type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitnil,min=1,notblank,max=100"`
	Description *string `json:"description" validate:"omitnil,max=500"`
	Completed   *bool   `json:"completed"`
}

type ListTasksQuery struct {
	Completed *bool
}
