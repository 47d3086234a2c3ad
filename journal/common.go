package journal

import (
	"errors"
)

var (
	// ErrConcurrencyConflict is returned by Append when the filtered stream moved past the expected sequence number.
	ErrConcurrencyConflict = errors.New("concurrency error, no rows were affected")

	// ErrEmptyTableNameSupplied is returned when an engine is configured with an empty table name.
	ErrEmptyTableNameSupplied = errors.New("empty entry table name supplied")

	// ErrNilDatabaseConnection is returned when an engine is created without a database connection.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrQueryingEntriesFailed is returned when reading entries from the storage failed.
	ErrQueryingEntriesFailed = errors.New("querying entries failed")

	// ErrAppendingEntryFailed is returned when writing entries to the storage failed.
	ErrAppendingEntryFailed = errors.New("appending entry failed")

	// ErrBuildingQueryFailed is returned when a storage query could not be built.
	ErrBuildingQueryFailed = errors.New("building query failed")

	// ErrScanningDBRowFailed is returned when a storage row could not be scanned.
	ErrScanningDBRowFailed = errors.New("scanning db row failed")

	// ErrBuildingStorableEntryFailed is returned when a storage row does not form a valid entry.
	ErrBuildingStorableEntryFailed = errors.New("building storable entry failed")

	// ErrGettingRowsAffectedFailed is returned when the affected row count is not available.
	ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")
)

// MaxSequenceNumberUint is a type alias for uint, representing the maximum sequence number of a filtered entry stream.
type MaxSequenceNumberUint = uint
