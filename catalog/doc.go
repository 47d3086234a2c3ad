// Package catalog contains the in-memory model of a small public library:
// books, persons, the librarian and the library with its catalog.
//
// All operations are total. Absent books, misses and duplicates are answered with
// a console message instead of an error, and every operation reports its outcome
// as a bool so that callers do not have to parse the console output.
//
// Successful catalog changes and loans are additionally emitted as transaction events
// to an optional TransactionRecorder (see WithRecorder), which the shell layer
// backs with the transaction journal.
//
// The types in this package are not safe for concurrent use. They model exactly one
// logical actor driving a sequence of operations.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package catalog
