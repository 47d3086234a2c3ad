package shell

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-catalog-go/catalog"
	"github.com/AntonStoeckl/library-catalog-go/journal"
)

const (
	logMsgTransactionJournaled = "transaction journaled"
	logMsgRetriedAppend        = "journal append needed retries"
	logAttrEntryType           = "entry_type"
	logAttrBookID              = "book_id"
	logAttrAttempts            = "attempts"
	logAttrTotalDelayMS        = "total_delay_ms"
	logAttrCorrelationID       = "correlation_id"
)

var (
	// ErrUnknownTransactionEvent is returned when a recorder receives an event it cannot journal.
	ErrUnknownTransactionEvent = errors.New("unknown transaction event")

	// ErrRecordingTransactionFailed is returned when a transaction could not be journaled.
	ErrRecordingTransactionFailed = errors.New("recording transaction failed")

	// ErrReadingTransactionsFailed is returned when the journal could not be read.
	ErrReadingTransactionsFailed = errors.New("reading transactions failed")
)

// Journal is implemented by the journal engines.
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

// JournalRecorder appends catalog transactions to a Journal.
//
// Each transaction is appended to the stream of its book, guarded by the highest sequence number
// of that stream, and retried with exponential backoff on concurrency conflicts.
// All entries of one recorder share a correlation ID, each one is caused by its predecessor.
type JournalRecorder struct {
	journal       Journal
	correlationID uuid.UUID
	retryOptions  []RetryOption
	logger        journal.Logger

	mu            sync.Mutex
	lastMessageID uuid.UUID
}

// RecorderOption configures a JournalRecorder.
type RecorderOption func(*JournalRecorder)

// WithCorrelationID sets the correlation ID, a random one is generated by default.
func WithCorrelationID(correlationID uuid.UUID) RecorderOption {
	return func(r *JournalRecorder) {
		r.correlationID = correlationID
	}
}

// WithRetryOptions configures the retries on concurrency conflicts.
func WithRetryOptions(options ...RetryOption) RecorderOption {
	return func(r *JournalRecorder) {
		r.retryOptions = options
	}
}

// WithRecorderLogger sets the logger.
func WithRecorderLogger(logger journal.Logger) RecorderOption {
	return func(r *JournalRecorder) {
		r.logger = logger
	}
}

// NewJournalRecorder creates a JournalRecorder for the journal.
func NewJournalRecorder(j Journal, options ...RecorderOption) *JournalRecorder {
	r := &JournalRecorder{
		journal:       j,
		correlationID: uuid.New(),
	}

	for _, option := range options {
		option(r)
	}

	r.lastMessageID = r.correlationID

	return r
}

// CorrelationID returns the correlation ID shared by all entries of this recorder.
func (r *JournalRecorder) CorrelationID() uuid.UUID {
	return r.correlationID
}

// Record implements catalog.TransactionRecorder.
func (r *JournalRecorder) Record(ctx context.Context, event catalog.TransactionEvent) error {
	bookID, ok := bookIDOf(event)
	if !ok {
		return errors.Join(ErrRecordingTransactionFailed, ErrUnknownTransactionEvent)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	messageID, err := uuid.NewV7()
	if err != nil {
		return errors.Join(ErrRecordingTransactionFailed, err)
	}

	entry, err := StorableEntryFrom(event, BuildEntryMetadata(messageID, r.lastMessageID, r.correlationID))
	if err != nil {
		return errors.Join(ErrRecordingTransactionFailed, err)
	}

	filter := FilterTransactionsForBook(bookID)

	metrics, err := RetryWithExponentialBackoff(
		ctx,
		func(ctx context.Context) error {
			_, maxSequenceNumber, queryErr := r.journal.Query(ctx, filter)
			if queryErr != nil {
				return queryErr
			}

			return r.journal.Append(ctx, filter, maxSequenceNumber, entry)
		},
		r.retryOptions...,
	)

	if metrics.Attempts > 1 && r.logger != nil {
		r.logger.Debug(
			logMsgRetriedAppend,
			logAttrEntryType, event.IsEventType(),
			logAttrAttempts, metrics.Attempts,
			logAttrTotalDelayMS, metrics.TotalDelay.Milliseconds(),
		)
	}

	if err != nil {
		return errors.Join(ErrRecordingTransactionFailed, err)
	}

	r.lastMessageID = messageID

	if r.logger != nil {
		r.logger.Debug(
			logMsgTransactionJournaled,
			logAttrEntryType, event.IsEventType(),
			logAttrBookID, bookID,
			logAttrCorrelationID, r.correlationID.String(),
		)
	}

	return nil
}

// ReadTransactions returns the journaled transactions matching the filter in journal order.
func ReadTransactions(ctx context.Context, j Journal, filter journal.Filter) (catalog.TransactionEvents, error) {
	entries, _, err := j.Query(ctx, filter)
	if err != nil {
		return nil, errors.Join(ErrReadingTransactionsFailed, err)
	}

	events, err := DomainEventsFrom(entries)
	if err != nil {
		return nil, errors.Join(ErrReadingTransactionsFailed, err)
	}

	return events, nil
}

// ReadTransactionEnvelopes is like ReadTransactions but keeps the entry metadata.
func ReadTransactionEnvelopes(ctx context.Context, j Journal, filter journal.Filter) (EntryEnvelopes, error) {
	entries, _, err := j.Query(ctx, filter)
	if err != nil {
		return nil, errors.Join(ErrReadingTransactionsFailed, err)
	}

	envelopes, err := EntryEnvelopesFrom(entries)
	if err != nil {
		return nil, errors.Join(ErrReadingTransactionsFailed, err)
	}

	return envelopes, nil
}

// FilterTransactionsForBook selects all catalog transactions of one book ID.
func FilterTransactionsForBook(bookID catalog.BookIDString) journal.Filter {
	return journal.BuildEntryFilter().
		Matching().
		AnyEntryTypeOf(
			catalog.BookAddedToCatalogEventType,
			catalog.BookRemovedFromCatalogEventType,
			catalog.BookIssuedToPersonEventType,
			catalog.BookReturnedByPersonEventType).
		AndAnyPredicateOf(journal.P("BookID", bookID)).
		Finalize()
}

// FilterAllTransactions selects every catalog transaction.
func FilterAllTransactions() journal.Filter {
	return journal.BuildEntryFilter().
		Matching().
		AnyEntryTypeOf(
			catalog.BookAddedToCatalogEventType,
			catalog.BookRemovedFromCatalogEventType,
			catalog.BookIssuedToPersonEventType,
			catalog.BookReturnedByPersonEventType).
		Finalize()
}

// FilterLoansOfPerson selects the issue and return transactions of one person.
func FilterLoansOfPerson(personID catalog.PersonIDString) journal.Filter {
	return journal.BuildEntryFilter().
		Matching().
		AnyEntryTypeOf(catalog.BookIssuedToPersonEventType, catalog.BookReturnedByPersonEventType).
		AndAnyPredicateOf(journal.P("PersonID", personID)).
		Finalize()
}

func bookIDOf(event catalog.TransactionEvent) (catalog.BookIDString, bool) {
	switch e := event.(type) {
	case catalog.BookAddedToCatalog:
		return e.BookID, true
	case catalog.BookRemovedFromCatalog:
		return e.BookID, true
	case catalog.BookIssuedToPerson:
		return e.BookID, true
	case catalog.BookReturnedByPerson:
		return e.BookID, true
	default:
		return "", false
	}
}
