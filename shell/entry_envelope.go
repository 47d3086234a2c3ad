package shell

import (
	"errors"

	"github.com/AntonStoeckl/library-catalog-go/catalog"
	"github.com/AntonStoeckl/library-catalog-go/journal"
)

// ErrEntryEnvelopeFromStorableEntryFailed is returned when envelope conversion fails.
var ErrEntryEnvelopeFromStorableEntryFailed = errors.New("entry envelope from storable entry failed")

type EntryEnvelopes = []EntryEnvelope

// EntryEnvelope combines a transaction event with its metadata.
type EntryEnvelope struct {
	Event    catalog.TransactionEvent
	Metadata EntryMetadata
}

func BuildEntryEnvelope(event catalog.TransactionEvent, metadata EntryMetadata) EntryEnvelope {
	return EntryEnvelope{
		Event:    event,
		Metadata: metadata,
	}
}

// EntryEnvelopeFrom converts a StorableEntry to an EntryEnvelope.
func EntryEnvelopeFrom(entry journal.StorableEntry) (EntryEnvelope, error) {
	metadata, err := EntryMetadataFrom(entry)
	if err != nil {
		return EntryEnvelope{}, errors.Join(ErrEntryEnvelopeFromStorableEntryFailed, err)
	}

	event, err := DomainEventFrom(entry)
	if err != nil {
		return EntryEnvelope{}, errors.Join(ErrEntryEnvelopeFromStorableEntryFailed, err)
	}

	return BuildEntryEnvelope(event, metadata), nil
}

// EntryEnvelopesFrom converts multiple StorableEntries to EntryEnvelopes.
func EntryEnvelopesFrom(entries journal.StorableEntries) (EntryEnvelopes, error) {
	envelopes := make(EntryEnvelopes, 0, len(entries))

	for _, entry := range entries {
		envelope, err := EntryEnvelopeFrom(entry)
		if err != nil {
			return nil, err
		}

		envelopes = append(envelopes, envelope)
	}

	return envelopes, nil
}
