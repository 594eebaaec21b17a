package store

import (
	"github.com/havochq/havoc/pkg/types"
)

// Store defines the interface for run-history persistence.
// Implemented by the BoltDB-backed store below; tests may substitute
// their own.
type Store interface {
	// Runs
	SaveRun(run *types.Run) error
	GetRun(uuid string) (*types.Run, error)
	ListRuns() ([]*types.Run, error)
	DeleteRun(uuid string) error

	// Utility
	Close() error
}
