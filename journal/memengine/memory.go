// Package memengine provides an in-process implementation of the journal.
//
// It keeps all entries in a slice guarded by a mutex and evaluates filters in Go,
// decoding payloads with json-iterator to check predicates. It is the default
// journal of the demo and the reference engine for tests.
package memengine

import (
	"context"
	"errors"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-catalog-go/journal"
)

const (
	logMsgQueryCompleted      = "journal operation: query completed"
	logMsgEntriesAppended     = "journal operation: entries appended"
	logMsgConcurrencyConflict = "journal operation: concurrency conflict detected"
	logMsgUndecodablePayload  = "payload cannot be decoded for predicate matching"
	logAttrEntryCount         = "entry_count"
	logAttrEntryType          = "entry_type"
	logAttrExpectedSequence   = "expected_sequence"
	logAttrActualSequence     = "actual_sequence"
	logAttrError              = "error"
)

type sequencedEntry struct {
	sequenceNumber journal.MaxSequenceNumberUint
	entry          journal.StorableEntry
	payload        map[string]any
}

// Journal is an in-memory journal. The zero value is not usable, use NewJournal.
type Journal struct {
	mu      sync.RWMutex
	entries []sequencedEntry
	logger  journal.Logger
}

// Option defines a functional option for configuring the Journal.
type Option func(*Journal)

// WithLogger sets the logger for operational logging.
func WithLogger(logger journal.Logger) Option {
	return func(j *Journal) {
		j.logger = logger
	}
}

// NewJournal creates an empty in-memory Journal.
func NewJournal(options ...Option) *Journal {
	j := &Journal{
		entries: make([]sequencedEntry, 0),
	}

	for _, option := range options {
		option(j)
	}

	return j
}

// Query returns all entries matching the filter in sequence order,
// together with the highest sequence number among them (0 if there are none).
func (j *Journal) Query(ctx context.Context, filter journal.Filter) (
	journal.StorableEntries,
	journal.MaxSequenceNumberUint,
	error,
) {

	if err := ctx.Err(); err != nil {
		return nil, 0, errors.Join(journal.ErrQueryingEntriesFailed, err)
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	result := make(journal.StorableEntries, 0)
	maxSequenceNumber := journal.MaxSequenceNumberUint(0)

	for _, se := range j.entries {
		if !matches(filter, se) {
			continue
		}

		result = append(result, se.entry)
		maxSequenceNumber = se.sequenceNumber
	}

	j.logInfo(logMsgQueryCompleted, logAttrEntryCount, len(result))

	return result, maxSequenceNumber, nil
}

// Append appends the entries atomically if the highest sequence number matching the filter
// still equals expectedMaxSequenceNumber, otherwise it returns journal.ErrConcurrencyConflict.
func (j *Journal) Append(
	ctx context.Context,
	filter journal.Filter,
	expectedMaxSequenceNumber journal.MaxSequenceNumberUint,
	entry journal.StorableEntry,
	additionalEntries ...journal.StorableEntry,
) error {

	if err := ctx.Err(); err != nil {
		return errors.Join(journal.ErrAppendingEntryFailed, err)
	}

	allEntries := append(journal.StorableEntries{entry}, additionalEntries...)

	j.mu.Lock()
	defer j.mu.Unlock()

	actualMaxSequenceNumber := journal.MaxSequenceNumberUint(0)
	for _, se := range j.entries {
		if matches(filter, se) {
			actualMaxSequenceNumber = se.sequenceNumber
		}
	}

	if actualMaxSequenceNumber != expectedMaxSequenceNumber {
		j.logInfo(
			logMsgConcurrencyConflict,
			logAttrExpectedSequence, expectedMaxSequenceNumber,
			logAttrActualSequence, actualMaxSequenceNumber,
		)

		return journal.ErrConcurrencyConflict
	}

	nextSequenceNumber := journal.MaxSequenceNumberUint(len(j.entries))
	for _, e := range allEntries {
		nextSequenceNumber++
		j.entries = append(j.entries, sequencedEntry{
			sequenceNumber: nextSequenceNumber,
			entry:          e,
			payload:        j.decodePayload(e),
		})
	}

	j.logInfo(logMsgEntriesAppended, logAttrEntryCount, len(allEntries))

	return nil
}

// Len returns the total number of entries in the journal.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return len(j.entries)
}

// decodePayload decodes the payload once on append; entries with non-object payloads never match predicates.
func (j *Journal) decodePayload(entry journal.StorableEntry) map[string]any {
	payload := make(map[string]any)

	if err := jsoniter.ConfigFastest.Unmarshal(entry.PayloadJSON, &payload); err != nil {
		if j.logger != nil {
			j.logger.Warn(logMsgUndecodablePayload, logAttrEntryType, entry.EntryType, logAttrError, err.Error())
		}

		return nil
	}

	return payload
}

func (j *Journal) logInfo(msg string, args ...any) {
	if j.logger != nil {
		j.logger.Info(msg, args...)
	}
}
