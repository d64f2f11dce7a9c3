package domain

// Analysis is the structured output of the document analysis collaborator.
// The core records it verbatim and never interprets the fields beyond
// surfacing anomalies as a notification.
type Analysis struct {
	// DocumentType is the detected kind (invoice, contract, receipt, ...).
	DocumentType string `json:"document_type"`

	// Supplier is the detected vendor name, if any.
	Supplier string `json:"supplier,omitempty"`

	// Date is the detected document date, if any.
	Date string `json:"date,omitempty"`

	// KeyInfo carries extracted fields.
	KeyInfo map[string]any `json:"key_info,omitempty"`

	// Confidence is the collaborator's self-reported confidence in [0,1].
	Confidence float64 `json:"confidence"`

	// Anomalies lists detected irregularities. A non-empty list triggers
	// an anomaly_detected notification.
	Anomalies []string `json:"anomalies,omitempty"`
}
