package journal

import (
	"encoding/json"
	"errors"
	"time"
)

var ErrInvalidPayloadJSON = errors.New("payload json is not valid")
var ErrInvalidMetadataJSON = errors.New("metadata json is not valid")
var ErrEmptyEntryType = errors.New("entry type must not be empty")

// StorableEntries is an alias type for a slice of StorableEntry
type StorableEntries = []StorableEntry

// StorableEntry is a DTO used by the journal engines to append entries and query them back.
//
// It is built on scalars to be completely agnostic of the catalog's transaction events.
//
// While its properties are exported, it should only be constructed with the supplied factory methods:
//   - BuildStorableEntry
//   - BuildStorableEntryWithEmptyMetadata
type StorableEntry struct {
	EntryType    string
	OccurredAt   time.Time
	PayloadJSON  []byte
	MetadataJSON []byte
}

// BuildStorableEntry is a factory method for StorableEntry.
//
// Returns an error if entryType is empty or if payloadJSON or metadataJSON are not valid JSON.
func BuildStorableEntry(entryType string, occurredAt time.Time, payloadJSON []byte, metadataJSON []byte) (StorableEntry, error) {
	if entryType == "" {
		return StorableEntry{}, ErrEmptyEntryType
	}

	if !json.Valid(payloadJSON) {
		return StorableEntry{}, ErrInvalidPayloadJSON
	}

	if !json.Valid(metadataJSON) {
		return StorableEntry{}, ErrInvalidMetadataJSON
	}

	return StorableEntry{
		EntryType:    entryType,
		OccurredAt:   occurredAt,
		PayloadJSON:  payloadJSON,
		MetadataJSON: metadataJSON,
	}, nil
}

// BuildStorableEntryWithEmptyMetadata is a factory method for StorableEntry with "{}" as metadata.
func BuildStorableEntryWithEmptyMetadata(entryType string, occurredAt time.Time, payloadJSON []byte) (StorableEntry, error) {
	return BuildStorableEntry(entryType, occurredAt, payloadJSON, []byte("{}"))
}
