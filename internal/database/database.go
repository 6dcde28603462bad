package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Service owns the process-wide database connection pool. It is created
// once at startup and injected into every component that needs
// persistence; there is no package-level connection state.
type Service struct {
	db     *sql.DB
	logger *zap.Logger
}

// New opens a connection pool against the configured Postgres instance
// and verifies connectivity. A failed ping is fatal to the caller.
func New(uri string, logger *zap.Logger) (*Service, error) {
	db, err := sql.Open("pgx", uri)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Database connection established")

	return &Service{db: db, logger: logger}, nil
}

// DB exposes the underlying pool for repositories.
func (s *Service) DB() *sql.DB {
	return s.db
}

// Health reports connection pool statistics and reachability.
func (s *Service) Health(ctx context.Context) map[string]any {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	health := map[string]any{"status": "up"}
	if err := s.db.PingContext(ctx); err != nil {
		health["status"] = "down"
		health["error"] = err.Error()
		return health
	}

	stats := s.db.Stats()
	health["open_connections"] = stats.OpenConnections
	health["in_use"] = stats.InUse
	health["idle"] = stats.Idle

	// Version is absent until migrations have run.
	if version, err := SchemaVersion(s.db); err == nil {
		health["schema_version"] = version
	}

	return health
}

// Close shuts the pool down at process exit.
func (s *Service) Close() error {
	s.logger.Info("Closing database connection")
	return s.db.Close()
}
