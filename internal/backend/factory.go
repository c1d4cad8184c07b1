package backend

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"salesledger/internal/ledger"
	"salesledger/internal/sheets"
	gsheet "salesledger/internal/sheets/google"
	"salesledger/internal/storage"
	"salesledger/internal/storage/memory"
	"salesledger/internal/storage/redisstore"
)

// MemorySeedFile is read from the data directory to seed the memory backend.
const MemorySeedFile = "ledger_seed.json"

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case RedisBackend:
		return f.createRedisBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	version, dirty, err := storage.SchemaVersion(config.SQLiteDBPath)
	if err != nil {
		f.logger.Warn("Failed to read schema version", "error", err)
	}
	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath,
		"schema_version", version, "dirty", dirty)

	return &BackendResult{
		Medium:  repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createRedisBackend(ctx context.Context, config Config) (*BackendResult, error) {
	store, err := redisstore.New(ctx, config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis store: %w", err)
	}

	f.logger.Info("Initialized Redis backend", "key", redisstore.Key(namespaceOrDefault(config.Namespace)))

	return &BackendResult{
		Medium:  store,
		Cleanup: store.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data"
	}
	seed := filepath.Join(dataDir, MemorySeedFile)

	store := memory.NewFromFile(namespaceOrDefault(config.Namespace), seed)

	f.logger.Info("Initialized memory backend", "seed_file", seed)

	return &BackendResult{
		Medium:  store,
		Cleanup: nil, // No cleanup needed for memory backend
	}, nil
}

// CreateRemote implements Factory.CreateRemote
func (f *DefaultFactory) CreateRemote(ctx context.Context, config Config) (sheets.Remote, error) {
	if config.GoogleSpreadsheetID == "" {
		f.logger.Info("No spreadsheet configured, mirroring disabled")
		return nil, nil
	}

	cli, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:   config.GoogleSpreadsheetID,
		UsersSheet:      config.GoogleUsersSheet,
		DailySalesSheet: config.GoogleDailySalesSheet,
		CredentialsJSON: config.GoogleServiceAccountJSON,
		CredentialsFile: config.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets remote", "spreadsheet_id", config.GoogleSpreadsheetID)
	return cli, nil
}

func namespaceOrDefault(ns string) string {
	if ns == "" {
		return ledger.DefaultNamespace
	}
	return ns
}
