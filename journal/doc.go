// Package journal provides the abstractions of the catalog transaction journal:
// an append-only, filterable log of storable entries with optimistic concurrency.
//
// The journal is an audit sink. Catalog state is never rebuilt from it.
//
// Key types:
//   - Filter: Defines criteria for querying entries
//   - StorableEntry: Represents an entry that can be stored and retrieved
//   - StorableEntries: Collection of storable entries
//
// Common usage pattern:
//
//	filter := BuildEntryFilter().
//		Matching().
//		AnyEntryTypeOf(
//			catalog.BookIssuedToPersonEventType,
//			catalog.BookReturnedByPersonEventType).
//		AndAnyPredicateOf(P("BookID", "FIC-001")).
//		Finalize()
//
//	entries, maxSeq, err := j.Query(ctx, filter)
//	if err != nil {
//		// handle error
//	}
//
//	newEntry, _ := journal.BuildStorableEntry(entryType, time.Now(), payload, metadata)
//	err = j.Append(ctx, filter, maxSeq, newEntry)
//
// Engines live in the subpackages memengine (in-process) and postgresengine.
package journal
