package catalog

import (
	"context"
	"fmt"
)

const (
	msgBookIssuedFormat        = "The book '%s' is issued to %s"
	msgIssueLoggedFormat       = "Transaction logged: %s issued '%s'"
	msgBookNotPresent          = "The book is not present"
	msgBookReturnedFormat      = "The book '%s' is returned by %s"
	msgReturnLoggedFormat      = "Transaction logged: '%s' returned by %s"
	msgBookNotReturnedFormat   = "%s did not return the book"
	msgBookNotIssuedFormat     = "The book '%s' is not issued, nothing to return"
	logMsgReturnOfUnissuedBook = "return of a book that is not issued"
)

// Librarian is a Person employed by a library, who issues books to patrons and takes them back.
type Librarian struct {
	Person
	employeeID  string
	issuedBooks []Book
	env         environment
}

// NewLibrarian creates a new Librarian without any issued books.
func NewLibrarian(person Person, employeeID string, options ...Option) *Librarian {
	env := defaultEnvironment()
	for _, option := range options {
		option(&env)
	}

	return &Librarian{
		Person:      person,
		employeeID:  employeeID,
		issuedBooks: make([]Book, 0),
		env:         env,
	}
}

func (l *Librarian) EmployeeID() string {
	return l.employeeID
}

// IssuedBooks returns a copy of the currently issued books in issue order.
func (l *Librarian) IssuedBooks() []Book {
	issued := make([]Book, len(l.issuedBooks))
	copy(issued, l.issuedBooks)

	return issued
}

// IssuedCount returns the number of currently issued books, duplicates included.
func (l *Librarian) IssuedCount() int {
	return len(l.issuedBooks)
}

// IssueBook lends the book to the user.
//
// The book is not checked against any catalog and may be issued more than once.
// Returns false if the book is absent.
func (l *Librarian) IssueBook(ctx context.Context, book Book, user Person) bool {
	if isAbsent(book) {
		l.env.println(msgBookNotPresent)
		l.env.logNoOp("issue", logAttrPersonID, user.PersonID())

		return false
	}

	l.issuedBooks = append(l.issuedBooks, book)

	l.env.println(
		fmt.Sprintf(msgBookIssuedFormat, book.Title(), user.Name()),
		fmt.Sprintf(msgIssueLoggedFormat, user.Name(), book.Title()),
	)

	l.env.record(
		ctx,
		BuildBookIssuedToPerson(l.employeeID, book, user, l.env.now()),
		logAttrEmployeeID, l.employeeID,
		logAttrBookID, book.BookID(),
		logAttrPersonID, user.PersonID(),
	)

	return true
}

// ReturnBook takes the book back from the user and removes its first issued entry.
//
// Returning a book that is not issued is a no-op with a warning.
// Returns true only if an issued entry was removed.
func (l *Librarian) ReturnBook(ctx context.Context, book Book, user Person) bool {
	if isAbsent(book) {
		l.env.println(fmt.Sprintf(msgBookNotReturnedFormat, user.Name()))
		l.env.logNoOp("return", logAttrPersonID, user.PersonID())

		return false
	}

	idx := l.indexOfIssued(book)
	if idx < 0 {
		l.env.println(fmt.Sprintf(msgBookNotIssuedFormat, book.Title()))

		if l.env.logger != nil {
			l.env.logger.Warn(logMsgReturnOfUnissuedBook, logAttrBookID, book.BookID(), logAttrPersonID, user.PersonID())
		}

		return false
	}

	l.issuedBooks = append(l.issuedBooks[:idx], l.issuedBooks[idx+1:]...)

	l.env.println(
		fmt.Sprintf(msgBookReturnedFormat, book.Title(), user.Name()),
		fmt.Sprintf(msgReturnLoggedFormat, book.Title(), user.Name()),
	)

	l.env.record(
		ctx,
		BuildBookReturnedByPerson(l.employeeID, book, user, l.env.now()),
		logAttrEmployeeID, l.employeeID,
		logAttrBookID, book.BookID(),
		logAttrPersonID, user.PersonID(),
	)

	return true
}

// indexOfIssued returns the position of the first issued entry with the same identity, or -1.
func (l *Librarian) indexOfIssued(book Book) int {
	for i, issued := range l.issuedBooks {
		if issued == book {
			return i
		}
	}

	return -1
}
