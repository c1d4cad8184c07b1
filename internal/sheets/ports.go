package sheets

import (
	"context"

	"salesledger/internal/core"
)

// Ports for the remote tabular store.
type (
	// UserRegistry reads and appends rows of the Users table.
	UserRegistry interface {
		FindUser(ctx context.Context, userID string) (user core.RemoteUser, found bool, err error)
		AppendUser(ctx context.Context, u core.RemoteUser) error
	}

	// DailySalesWriter appends rows to the DailySales table.
	DailySalesWriter interface {
		AppendDailySales(ctx context.Context, row core.DailySalesRow) error
	}

	// DailySalesReader reads the DailySales table filtered by user.
	DailySalesReader interface {
		ListDailySales(ctx context.Context, userID string) ([]core.DailySalesRow, error)
	}

	// ConnectionTester probes the remote without side effects.
	ConnectionTester interface {
		TestConnection(ctx context.Context) bool
	}

	// Remote is everything the mirror needs from the remote store.
	Remote interface {
		UserRegistry
		DailySalesWriter
		DailySalesReader
		ConnectionTester
	}
)
