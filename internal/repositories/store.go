package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	model "task-manager.com/task-manager/internal/models"
)

// ErrNotFound is returned when no task matches the given id.
var ErrNotFound = errors.New("task not found")

// Store is the persistence contract the task service relies on. Each method
// is a single operation against the backing store.
type Store interface {
	Insert(ctx context.Context, task *model.Task) error
	FindMany(ctx context.Context, filter model.TaskFilter) ([]model.Task, error)
	FindByID(ctx context.Context, id string) (*model.Task, error)
	UpdateByID(ctx context.Context, id string, changes model.TaskChanges) (*model.Task, error)
	DeleteByID(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close(ctx context.Context) error
}

// assignIdentity stamps a new id and creation time on the task. Both backends
// use ObjectID hex ids so clients see one identifier format.
func assignIdentity(task *model.Task) {
	task.ID = primitive.NewObjectID().Hex()
	task.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
}
