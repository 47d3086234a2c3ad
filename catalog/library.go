package catalog

import (
	"context"
	"fmt"
	"strings"
)

const (
	msgBookAddedFormat         = "Book '%s' added to the library."
	msgBookExistsFormat        = "The book '%s' already exists."
	msgBookRemovedFormat       = "%s is removed from the library."
	msgBookNotInLibraryFormat  = "Either the book with ID '%s' is not present in library or already removed."
	msgBooksHeader             = "Books in the library:"
	msgNoBookWithTitleFormat   = "There is no book with the title '%s' in the %s library."
	msgIssuedBooksHeader       = "Issued books:"
	msgTransactionHistoryTitle = "Transaction History:"
)

// separatorLine follows every description printed by ListIssuedBooks.
var separatorLine = strings.Repeat("-", 50)

// Library owns the catalog and the transaction history, and works with exactly one librarian.
type Library struct {
	name               string
	id                 string
	books              []Book
	librarian          *Librarian
	transactionHistory []string
	env                environment
}

// NewLibrary creates a new Library with an empty catalog and history.
// The librarian is shared, not owned: it may issue books on its own.
func NewLibrary(name string, id string, librarian *Librarian, options ...Option) *Library {
	env := defaultEnvironment()
	for _, option := range options {
		option(&env)
	}

	return &Library{
		name:               name,
		id:                 id,
		books:              make([]Book, 0),
		librarian:          librarian,
		transactionHistory: make([]string, 0),
		env:                env,
	}
}

func (lib *Library) Name() string {
	return lib.name
}

func (lib *Library) ID() string {
	return lib.id
}

func (lib *Library) Librarian() *Librarian {
	return lib.librarian
}

// Books returns a copy of the catalog in insertion order.
func (lib *Library) Books() []Book {
	books := make([]Book, len(lib.books))
	copy(books, lib.books)

	return books
}

// CatalogSize returns the number of books in the catalog.
func (lib *Library) CatalogSize() int {
	return len(lib.books)
}

// TransactionHistory returns a copy of the history entries in insertion order.
func (lib *Library) TransactionHistory() []string {
	history := make([]string, len(lib.transactionHistory))
	copy(history, lib.transactionHistory)

	return history
}

// AddBook adds the book to the catalog unless the very same book is already in it.
// Another book with an equal BookID is still added.
func (lib *Library) AddBook(ctx context.Context, book Book) bool {
	if isAbsent(book) {
		lib.env.println(msgBookNotPresent)
		lib.env.logNoOp("add", logAttrLibraryID, lib.id)

		return false
	}

	if lib.contains(book) {
		lib.env.println(fmt.Sprintf(msgBookExistsFormat, book.Title()))
		lib.env.logNoOp("add", logAttrLibraryID, lib.id, logAttrBookID, book.BookID())

		return false
	}

	lib.books = append(lib.books, book)

	entry := fmt.Sprintf(msgBookAddedFormat, book.Title())
	lib.env.println(entry)
	lib.transactionHistory = append(lib.transactionHistory, entry)

	lib.env.record(
		ctx,
		BuildBookAddedToCatalog(lib.id, book, lib.env.now()),
		logAttrLibraryID, lib.id,
		logAttrBookID, book.BookID(),
	)

	return true
}

// RemoveBook removes the first book with the given BookID from the catalog.
func (lib *Library) RemoveBook(ctx context.Context, bookID BookIDString) bool {
	idx := -1
	for i, book := range lib.books {
		if book.BookID() == bookID {
			idx = i
			break
		}
	}

	if idx < 0 {
		lib.env.println(fmt.Sprintf(msgBookNotInLibraryFormat, bookID))
		lib.env.logNoOp("remove", logAttrLibraryID, lib.id, logAttrBookID, bookID)

		return false
	}

	removed := lib.books[idx]
	lib.books = append(lib.books[:idx], lib.books[idx+1:]...)

	entry := fmt.Sprintf(msgBookRemovedFormat, removed.Title())
	lib.env.println(entry)
	lib.transactionHistory = append(lib.transactionHistory, entry)

	lib.env.record(
		ctx,
		BuildBookRemovedFromCatalog(lib.id, removed, lib.env.now()),
		logAttrLibraryID, lib.id,
		logAttrBookID, removed.BookID(),
	)

	return true
}

// ViewBooks prints the description of every book in catalog order.
func (lib *Library) ViewBooks() {
	lib.env.println(msgBooksHeader)

	for _, book := range lib.books {
		lib.env.println(book.Describe())
	}
}

// SearchBook prints the description of the first book with exactly the given title.
// Titles are not unique; later matches are ignored.
func (lib *Library) SearchBook(title string) (Book, bool) {
	for _, book := range lib.books {
		if book.Title() == title {
			lib.env.println(book.Describe())

			return book, true
		}
	}

	lib.env.println(fmt.Sprintf(msgNoBookWithTitleFormat, title, lib.name))
	lib.env.logNoOp("search", logAttrLibraryID, lib.id, logAttrTitle, title)

	return nil, false
}

// ListIssuedBooks prints every book currently issued by the librarian, each followed by a separator line.
func (lib *Library) ListIssuedBooks() {
	lib.env.println(msgIssuedBooksHeader)

	if lib.librarian == nil {
		return
	}

	for _, book := range lib.librarian.issuedBooks {
		lib.env.println(book.Describe(), separatorLine)
	}
}

// DisplayTransactionHistory prints all history entries in insertion order after a header.
func (lib *Library) DisplayTransactionHistory() {
	lib.env.println("", msgTransactionHistoryTitle)

	for _, entry := range lib.transactionHistory {
		lib.env.println(entry)
	}
}

func (lib *Library) contains(book Book) bool {
	for _, b := range lib.books {
		if b == book {
			return true
		}
	}

	return false
}
