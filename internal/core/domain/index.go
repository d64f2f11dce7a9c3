package domain

import "time"

// IndexEntry is the persisted record for one indexed document.
// The JSON shape is the on-disk index format and must stay
// backward-readable: entries written before optional fields existed
// load without error.
type IndexEntry struct {
	// FileName is the file name the document arrived under.
	FileName string `json:"file_name"`

	// Fingerprint is the perceptual hash in hex form.
	Fingerprint string `json:"hash"`

	// Timestamp is when the document was registered.
	Timestamp time.Time `json:"timestamp"`

	// FileSize is the source size in bytes.
	FileSize int64 `json:"file_size"`

	// Metadata carries freeform key-value pairs accumulated by the
	// pipeline. Optional.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Match is one duplicate candidate returned by a fingerprint lookup.
type Match struct {
	// DocumentID is the identity of the previously indexed document.
	DocumentID string `json:"document_id"`

	// Similarity is the fingerprint similarity in [0,1].
	Similarity float64 `json:"similarity"`

	// FileName is the matched document's file name.
	FileName string `json:"file_name"`

	// Timestamp is when the matched document was registered.
	Timestamp time.Time `json:"timestamp"`
}
