package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-catalog-go/catalog"
	"github.com/AntonStoeckl/library-catalog-go/journal"
)

var (
	// ErrMappingToDomainEventFailed is returned when event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEntryType is returned for unrecognized entry types.
	ErrMappingToDomainEventUnknownEntryType = errors.New("unknown entry type")
)

// DomainEventsFrom converts multiple StorableEntries to TransactionEvents.
func DomainEventsFrom(entries journal.StorableEntries) (catalog.TransactionEvents, error) {
	events := make(catalog.TransactionEvents, 0, len(entries))

	for _, entry := range entries {
		event, err := DomainEventFrom(entry)
		if err != nil {
			return nil, err
		}

		events = append(events, event)
	}

	return events, nil
}

// DomainEventFrom converts a StorableEntry to its corresponding TransactionEvent.
func DomainEventFrom(entry journal.StorableEntry) (catalog.TransactionEvent, error) {
	switch entry.EntryType {
	case catalog.BookAddedToCatalogEventType:
		return unmarshalEvent[catalog.BookAddedToCatalog](entry.PayloadJSON)

	case catalog.BookRemovedFromCatalogEventType:
		return unmarshalEvent[catalog.BookRemovedFromCatalog](entry.PayloadJSON)

	case catalog.BookIssuedToPersonEventType:
		return unmarshalEvent[catalog.BookIssuedToPerson](entry.PayloadJSON)

	case catalog.BookReturnedByPersonEventType:
		return unmarshalEvent[catalog.BookReturnedByPerson](entry.PayloadJSON)
	}

	return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEntryType)
}

func unmarshalEvent[E catalog.TransactionEvent](payloadJSON []byte) (catalog.TransactionEvent, error) {
	var event E

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &event); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return event, nil
}
