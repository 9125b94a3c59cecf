package elasticsearch

import "time"

// Interface defines the contract for data stream administration operations
// This interface allows for easy mocking in tests
type Interface interface {
	// Connectivity probe, run before every action
	CheckConnection() error

	// Data stream operations
	DataStreamExists(name string) (bool, error)
	CreateDataStream(name string) error
	RolloverDataStream(name string) error
	BackingIndices(name string) ([]BackingIndex, error)
	CleanOldIndices(name string, retentionDays int, dryRun bool) error

	// Index primitives used by cleanup
	DeleteIndex(index string) error
	IndexCreationTime(index string) (time.Time, error)
}

// Ensure *Client implements Interface
var _ Interface = (*Client)(nil)
