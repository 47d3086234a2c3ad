package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-catalog-go/catalog"
	"github.com/AntonStoeckl/library-catalog-go/journal"
)

var (
	// ErrMappingToStorableEntryFailedForEvent is returned when event serialization fails.
	ErrMappingToStorableEntryFailedForEvent = errors.New("mapping to storable entry failed for transaction event")

	// ErrMappingToStorableEntryFailedForMetadata is returned when metadata serialization fails.
	ErrMappingToStorableEntryFailedForMetadata = errors.New("mapping to storable entry failed for metadata")
)

// StorableEntryFrom converts a TransactionEvent and EntryMetadata to a StorableEntry.
func StorableEntryFrom(event catalog.TransactionEvent, metadata EntryMetadata) (journal.StorableEntry, error) {
	payloadJSON, err := jsoniter.ConfigFastest.Marshal(event)
	if err != nil {
		return journal.StorableEntry{}, errors.Join(ErrMappingToStorableEntryFailedForEvent, err)
	}

	metadataJSON, err := jsoniter.ConfigFastest.Marshal(metadata)
	if err != nil {
		return journal.StorableEntry{}, errors.Join(ErrMappingToStorableEntryFailedForMetadata, err)
	}

	entry, err := journal.BuildStorableEntry(event.IsEventType(), event.HasOccurredAt(), payloadJSON, metadataJSON)
	if err != nil {
		return journal.StorableEntry{}, errors.Join(ErrMappingToStorableEntryFailedForEvent, err)
	}

	return entry, nil
}

// StorableEntryWithEmptyMetadataFrom converts a TransactionEvent to a StorableEntry with empty metadata.
func StorableEntryWithEmptyMetadataFrom(event catalog.TransactionEvent) (journal.StorableEntry, error) {
	payloadJSON, err := jsoniter.ConfigFastest.Marshal(event)
	if err != nil {
		return journal.StorableEntry{}, errors.Join(ErrMappingToStorableEntryFailedForEvent, err)
	}

	entry, err := journal.BuildStorableEntryWithEmptyMetadata(event.IsEventType(), event.HasOccurredAt(), payloadJSON)
	if err != nil {
		return journal.StorableEntry{}, errors.Join(ErrMappingToStorableEntryFailedForEvent, err)
	}

	return entry, nil
}
