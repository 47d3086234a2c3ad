package helper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-catalog-go/journal"
)

const (
	bookAddedEntryType    = "BookAddedToCatalog"
	bookRemovedEntryType  = "BookRemovedFromCatalog"
	bookIssuedEntryType   = "BookIssuedToPerson"
	bookReturnedEntryType = "BookReturnedByPerson"
)

// Journal is the part of the journal engines the helpers need.
type Journal interface {
	Query(ctx context.Context, filter journal.Filter) (journal.StorableEntries, journal.MaxSequenceNumberUint, error)
	Append(
		ctx context.Context,
		filter journal.Filter,
		expectedMaxSequenceNumber journal.MaxSequenceNumberUint,
		entry journal.StorableEntry,
		additionalEntries ...journal.StorableEntry,
	) error
}

func GivenUniqueID(t testing.TB) string {
	id, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return id.String()
}

func QueryMaxSequenceNumberBeforeAppend(t testing.TB, ctx context.Context, j Journal, filter journal.Filter) journal.MaxSequenceNumberUint {
	_, maxSequenceNumBeforeAppend, err := j.Query(ctx, filter)
	assert.NoError(t, err, "error in arranging test data")

	return maxSequenceNumBeforeAppend
}

func FilterAllEntryTypesForOneBook(bookID string) journal.Filter {
	return journal.BuildEntryFilter().
		Matching().
		AnyEntryTypeOf(
			bookAddedEntryType,
			bookRemovedEntryType,
			bookIssuedEntryType,
			bookReturnedEntryType).
		AndAnyPredicateOf(journal.P("BookID", bookID)).
		Finalize()
}

func GivenBookAddedEntry(t testing.TB, bookID string, fakeClock time.Time) journal.StorableEntry {
	return givenEntry(t, bookAddedEntryType, fakeClock, map[string]string{
		"BookID": bookID,
		"Title":  "Test Book Title",
	})
}

func GivenBookIssuedEntry(t testing.TB, bookID string, personID string, fakeClock time.Time) journal.StorableEntry {
	return givenEntry(t, bookIssuedEntryType, fakeClock, map[string]string{
		"BookID":   bookID,
		"PersonID": personID,
		"Title":    "Test Book Title",
	})
}

// GivenAppendedEntry appends the entry after querying the current max sequence number for the filter.
func GivenAppendedEntry(t testing.TB, ctx context.Context, j Journal, filter journal.Filter, entry journal.StorableEntry) {
	err := j.Append(ctx, filter, QueryMaxSequenceNumberBeforeAppend(t, ctx, j, filter), entry)
	assert.NoError(t, err, "error in arranging test data")
}

func givenEntry(t testing.TB, entryType string, occurredAt time.Time, payload map[string]string) journal.StorableEntry {
	payloadJSON, err := jsoniter.ConfigFastest.Marshal(payload)
	assert.NoError(t, err, "error in arranging test data")

	entry, err := journal.BuildStorableEntryWithEmptyMetadata(entryType, occurredAt, payloadJSON)
	assert.NoError(t, err, "error in arranging test data")

	return entry
}
