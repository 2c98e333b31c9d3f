package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	model "task-manager.com/task-manager/internal/models"
)

const tasksCollection = "tasks"

// taskDocument is the BSON shape of a task. Ids are stored as native
// ObjectIDs.
type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Description *string            `bson:"description,omitempty"`
	Completed   bool               `bson:"completed"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func (d taskDocument) toModel() model.Task {
	return model.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Completed:   d.Completed,
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

// MongoTaskRepository stores tasks in a MongoDB collection.
type MongoTaskRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewMongoTaskRepository(client *mongo.Client, database string) *MongoTaskRepository {
	return &MongoTaskRepository{
		client: client,
		coll:   client.Database(database).Collection(tasksCollection),
	}
}

func (r *MongoTaskRepository) Insert(ctx context.Context, task *model.Task) error {
	ctx, span := tracer.Start(ctx, "MongoTaskRepository.Insert")
	defer span.End()

	assignIdentity(task)
	span.SetAttributes(attribute.String("task.id", task.ID))

	oid, err := primitive.ObjectIDFromHex(task.ID)
	if err != nil {
		return err
	}

	doc := taskDocument{
		ID:          oid,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

func (r *MongoTaskRepository) FindMany(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	ctx, span := tracer.Start(ctx, "MongoTaskRepository.FindMany")
	defer span.End()

	query := bson.M{}
	if filter.Completed != nil {
		query["completed"] = *filter.Completed
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}

	tasks := make([]model.Task, 0, len(docs))
	for _, d := range docs {
		tasks = append(tasks, d.toModel())
	}

	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	return tasks, nil
}

func (r *MongoTaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	ctx, span := tracer.Start(ctx, "MongoTaskRepository.FindByID",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid task id %q: %w", id, err)
	}

	var doc taskDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	task := doc.toModel()
	return &task, nil
}

func (r *MongoTaskRepository) UpdateByID(ctx context.Context, id string, changes model.TaskChanges) (*model.Task, error) {
	ctx, span := tracer.Start(ctx, "MongoTaskRepository.UpdateByID",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	if changes.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid task id %q: %w", id, err)
	}

	set := bson.M{}
	for field, value := range changes.Columns() {
		set[field] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc taskDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	task := doc.toModel()
	return &task, nil
}

func (r *MongoTaskRepository) DeleteByID(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "MongoTaskRepository.DeleteByID",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid task id %q: %w", id, err)
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *MongoTaskRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return n, nil
}

func (r *MongoTaskRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}

// Migrate creates the secondary index used by the completed filter.
func (r *MongoTaskRepository) Migrate(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "completed", Value: 1}},
		Options: options.Index().SetName("idx_tasks_completed"),
	})
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	return nil
}

func (r *MongoTaskRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
