package postgresengine

import (
	"github.com/AntonStoeckl/library-catalog-go/journal"
)

// Option defines a functional option for configuring the Journal.
type Option func(*Journal) error

// WithTableName sets the table the entries are stored in, "journal_entries" by default.
func WithTableName(tableName string) Option {
	return func(j *Journal) error {
		if tableName == "" {
			return journal.ErrEmptyTableNameSupplied
		}

		j.tableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the Journal.
//
// Debug level: SQL statements with execution timing
// Info level: entry counts, durations, concurrency conflicts
// Warn level: non-critical issues like failing to close rows
// Error level: failures that abort the operation.
func WithLogger(logger journal.Logger) Option {
	return func(j *Journal) error {
		j.logger = logger

		return nil
	}
}
