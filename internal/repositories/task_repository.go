package repository

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	model "task-manager.com/task-manager/internal/models"
)

var tracer = otel.Tracer("task-manager.com/task-manager/internal/repositories")

// TaskRepository stores tasks in a SQL database through GORM.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Insert(ctx context.Context, task *model.Task) error {
	ctx, span := tracer.Start(ctx, "TaskRepository.Insert")
	defer span.End()

	assignIdentity(task)
	span.SetAttributes(attribute.String("task.id", task.ID))

	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

func (r *TaskRepository) FindMany(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.FindMany")
	defer span.End()

	query := r.db.WithContext(ctx).Order("created_at asc")
	if filter.Completed != nil {
		span.SetAttributes(attribute.Bool("task.completed", *filter.Completed))
		query = query.Where("completed = ?", *filter.Completed)
	}

	tasks := make([]model.Task, 0)
	if err := query.Find(&tasks).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.FindByID",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	return r.first(r.db.WithContext(ctx), id)
}

func (r *TaskRepository) UpdateByID(ctx context.Context, id string, changes model.TaskChanges) (*model.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.UpdateByID",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	if changes.IsEmpty() {
		return r.first(r.db.WithContext(ctx), id)
	}

	var task *model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Task{}).Where("id = ?", id).Updates(changes.Columns())
		if res.Error != nil {
			return fmt.Errorf("failed to update task: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		found, err := r.first(tx, id)
		if err != nil {
			return err
		}
		task = found
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
		}
		return nil, err
	}

	return task, nil
}

func (r *TaskRepository) DeleteByID(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "TaskRepository.DeleteByID",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	res := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if res.Error != nil {
		span.RecordError(res.Error)
		return fmt.Errorf("failed to delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *TaskRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return n, nil
}

func (r *TaskRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *TaskRepository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&model.Task{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func (r *TaskRepository) Close(_ context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r *TaskRepository) first(db *gorm.DB, id string) (*model.Task, error) {
	var task model.Task
	if err := db.First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}
