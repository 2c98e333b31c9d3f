package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	repository "task-manager.com/task-manager/internal/repositories"
)

type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendMongo    Backend = "mongo"
)

// DetectBackend picks the store implementation from the shape of the DSN.
func DetectBackend(dsn string) Backend {
	switch {
	case strings.HasPrefix(dsn, "mongodb://"), strings.HasPrefix(dsn, "mongodb+srv://"):
		return BackendMongo
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"),
		strings.Contains(dsn, "host="):
		return BackendPostgres
	default:
		return BackendSQLite
	}
}

// NewStore opens the configured task store and checks it is reachable.
func NewStore(ctx context.Context, cfg Config) (repository.Store, error) {
	switch DetectBackend(cfg.DatabaseDSN) {
	case BackendMongo:
		return newMongoStore(ctx, cfg)
	case BackendPostgres:
		return newGormStore(ctx, postgres.Open(cfg.DatabaseDSN))
	default:
		return newGormStore(ctx, sqlite.Open(cfg.DatabaseDSN))
	}
}

func newGormStore(ctx context.Context, dialector gorm.Dialector) (repository.Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("db open failed: %w", err)
	}

	repo := repository.NewTaskRepository(db)
	if err := repo.Ping(ctx); err != nil {
		return nil, fmt.Errorf("db ping failed: %w", err)
	}

	return repo, nil
}

func newMongoStore(ctx context.Context, cfg Config) (repository.Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.DatabaseDSN))
	if err != nil {
		return nil, fmt.Errorf("mongo connect failed: %w", err)
	}

	repo := repository.NewMongoTaskRepository(client, cfg.MongoDatabase)
	if err := repo.Ping(connectCtx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	return repo, nil
}
