package catalog

import (
	"context"
	"time"
)

// Instead of full value objects, the transaction events use alias types and plain strings.

// OccurredAtTS represents when a transaction occurred.
type OccurredAtTS = time.Time

// ToOccurredAt converts a time to OccurredAtTS with UTC normalization and microsecond precision.
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}

// TransactionEvents is a slice of TransactionEvent instances.
type TransactionEvents = []TransactionEvent

// TransactionEvent represents a catalog transaction that has happened.
type TransactionEvent interface {
	// IsEventType returns the string identifier for this event type.
	IsEventType() string

	// HasOccurredAt returns when this event occurred.
	HasOccurredAt() time.Time
}

// TransactionRecorder receives every successful catalog transaction.
// Errors are logged by the caller and never abort a catalog operation.
type TransactionRecorder interface {
	Record(ctx context.Context, event TransactionEvent) error
}

// BookAddedToCatalogEventType is the event type identifier.
const BookAddedToCatalogEventType = "BookAddedToCatalog"

// BookAddedToCatalog represents when a book is added to the catalog of a library.
type BookAddedToCatalog struct {
	LibraryID  string
	BookID     BookIDString
	Kind       string
	Title      string
	Author     string
	OccurredAt OccurredAtTS
}

// BuildBookAddedToCatalog creates a new BookAddedToCatalog event.
func BuildBookAddedToCatalog(libraryID string, book Book, occurredAt time.Time) BookAddedToCatalog {
	return BookAddedToCatalog{
		LibraryID:  libraryID,
		BookID:     book.BookID(),
		Kind:       book.Kind(),
		Title:      book.Title(),
		Author:     book.Author(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookAddedToCatalog) IsEventType() string {
	return BookAddedToCatalogEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookAddedToCatalog) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// BookRemovedFromCatalogEventType is the event type identifier.
const BookRemovedFromCatalogEventType = "BookRemovedFromCatalog"

// BookRemovedFromCatalog represents when a book is removed from the catalog of a library.
type BookRemovedFromCatalog struct {
	LibraryID  string
	BookID     BookIDString
	Title      string
	OccurredAt OccurredAtTS
}

// BuildBookRemovedFromCatalog creates a new BookRemovedFromCatalog event.
func BuildBookRemovedFromCatalog(libraryID string, book Book, occurredAt time.Time) BookRemovedFromCatalog {
	return BookRemovedFromCatalog{
		LibraryID:  libraryID,
		BookID:     book.BookID(),
		Title:      book.Title(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookRemovedFromCatalog) IsEventType() string {
	return BookRemovedFromCatalogEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookRemovedFromCatalog) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// BookIssuedToPersonEventType is the event type identifier.
const BookIssuedToPersonEventType = "BookIssuedToPerson"

// BookIssuedToPerson represents when a librarian issues a book to a person.
type BookIssuedToPerson struct {
	EmployeeID string
	BookID     BookIDString
	Title      string
	PersonID   PersonIDString
	PersonName string
	OccurredAt OccurredAtTS
}

// BuildBookIssuedToPerson creates a new BookIssuedToPerson event.
func BuildBookIssuedToPerson(employeeID string, book Book, user Person, occurredAt time.Time) BookIssuedToPerson {
	return BookIssuedToPerson{
		EmployeeID: employeeID,
		BookID:     book.BookID(),
		Title:      book.Title(),
		PersonID:   user.PersonID(),
		PersonName: user.Name(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookIssuedToPerson) IsEventType() string {
	return BookIssuedToPersonEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookIssuedToPerson) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// BookReturnedByPersonEventType is the event type identifier.
const BookReturnedByPersonEventType = "BookReturnedByPerson"

// BookReturnedByPerson represents when a person returns an issued book to the librarian.
type BookReturnedByPerson struct {
	EmployeeID string
	BookID     BookIDString
	Title      string
	PersonID   PersonIDString
	PersonName string
	OccurredAt OccurredAtTS
}

// BuildBookReturnedByPerson creates a new BookReturnedByPerson event.
func BuildBookReturnedByPerson(employeeID string, book Book, user Person, occurredAt time.Time) BookReturnedByPerson {
	return BookReturnedByPerson{
		EmployeeID: employeeID,
		BookID:     book.BookID(),
		Title:      book.Title(),
		PersonID:   user.PersonID(),
		PersonName: user.Name(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookReturnedByPerson) IsEventType() string {
	return BookReturnedByPersonEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookReturnedByPerson) HasOccurredAt() time.Time {
	return e.OccurredAt
}
