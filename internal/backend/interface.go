// Package backend builds the local ledger medium and the remote mirror
// target from configuration.
package backend

import (
	"context"

	"salesledger/internal/ledger"
	"salesledger/internal/sheets"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the medium and optional cleanup function
type BackendResult struct {
	Medium  ledger.Medium
	Cleanup CleanupFunc
}

// Factory creates media and remotes based on configuration
type Factory interface {
	// CreateBackend creates the local ledger medium
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
	// CreateRemote creates the mirror target, or returns nil when none is configured
	CreateRemote(ctx context.Context, config Config) (sheets.Remote, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Redis specific
	RedisURL string

	// Memory backend seed directory
	DataDirectory string

	// Google Sheets mirror
	GoogleSpreadsheetID      string
	GoogleUsersSheet         string
	GoogleDailySalesSheet    string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	Namespace string
}

// BackendType represents the type of local medium
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	RedisBackend  BackendType = "redis"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, RedisBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
