package shell

import (
	"errors"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-catalog-go/journal"
)

// ErrMappingToEntryMetadataFailed is returned when metadata conversion fails.
var ErrMappingToEntryMetadataFailed = errors.New("mapping to entry metadata failed")

// MessageID represents a unique message identifier.
type MessageID = string

// CausationID represents the ID of the message that caused this one.
type CausationID = string

// CorrelationID represents the ID correlating all messages of one run.
type CorrelationID = string

// EntryMetadata contains tracking information stored next to each journal entry.
type EntryMetadata struct {
	MessageID     MessageID
	CausationID   CausationID
	CorrelationID CorrelationID
}

// BuildEntryMetadata creates EntryMetadata from UUID values.
func BuildEntryMetadata(messageID uuid.UUID, causationID uuid.UUID, correlationID uuid.UUID) EntryMetadata {
	return EntryMetadata{
		MessageID:     messageID.String(),
		CausationID:   causationID.String(),
		CorrelationID: correlationID.String(),
	}
}

// EntryMetadataFrom extracts EntryMetadata from a StorableEntry.
func EntryMetadataFrom(entry journal.StorableEntry) (EntryMetadata, error) {
	metadata := new(EntryMetadata)

	if err := jsoniter.ConfigFastest.Unmarshal(entry.MetadataJSON, metadata); err != nil {
		return EntryMetadata{}, errors.Join(ErrMappingToEntryMetadataFailed, err)
	}

	return *metadata, nil
}
