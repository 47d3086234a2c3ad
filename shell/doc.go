// Package shell connects the catalog to the journal.
//
// It translates catalog transaction events to journal entries and back, attaches tracking
// metadata, and provides JournalRecorder, the catalog.TransactionRecorder that appends every
// transaction to a journal engine with optimistic concurrency and retries on conflicts.
package shell
