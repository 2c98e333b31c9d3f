package services

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "task-manager.com/task-manager/internal/errors"
	"task-manager.com/task-manager/internal/logger"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
)

var tracer = otel.Tracer("task-manager.com/task-manager/internal/services")

// TaskService translates task operations into single store calls and maps
// store failures onto the application error taxonomy.
type TaskService struct {
	repo   repository.Store
	logger *logger.Logger
}

func NewTaskService(repo repository.Store, logger *logger.Logger) *TaskService {
	return &TaskService{
		repo:   repo,
		logger: logger,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, title string, description *string) (*model.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskService.CreateTask")
	defer span.End()

	if strings.TrimSpace(title) == "" {
		return nil, apperrors.ErrTitleRequired
	}

	task := &model.Task{
		Title:       title,
		Description: description,
		Completed:   false,
	}

	if err := s.repo.Insert(ctx, task); err != nil {
		return nil, s.storeFailure(span, "task_create_failed", err)
	}

	span.SetAttributes(attribute.String("task.id", task.ID))
	s.logger.Infow("task_create_success", "id", task.ID)
	return task, nil
}

func (s *TaskService) ListTasks(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskService.ListTasks")
	defer span.End()

	tasks, err := s.repo.FindMany(ctx, filter)
	if err != nil {
		return nil, s.storeFailure(span, "task_list_failed", err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	return tasks, nil
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*model.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskService.GetTask",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(span, "task_get_failed", id, err)
	}

	return task, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id string, changes model.TaskChanges) (*model.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskService.UpdateTask",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	task, err := s.repo.UpdateByID(ctx, id, changes)
	if err != nil {
		return nil, s.mapError(span, "task_update_failed", id, err)
	}

	s.logger.Infow("task_update_success", "id", id)
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "TaskService.DeleteTask",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return s.mapError(span, "task_delete_failed", id, err)
	}

	s.logger.Infow("task_delete_success", "id", id)
	return nil
}

func (s *TaskService) mapError(span trace.Span, event, id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		span.SetAttributes(attribute.Bool("task.found", false))
		s.logger.Warnw(event, "id", id, "error", err)
		return apperrors.ErrTaskNotFound
	}
	return s.storeFailure(span, event, err)
}

func (s *TaskService) storeFailure(span trace.Span, event string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logger.Errorw(event, "error", err)
	return apperrors.NewStoreError(err)
}

func (s *TaskService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
