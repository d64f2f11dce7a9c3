package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file type outside the fingerprinting
	// allow-list. Callers may choose to skip rather than retry; it is
	// deliberately distinguishable from transient I/O failures.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrRenderFailed indicates a page could not be rasterised.
	ErrRenderFailed = errors.New("page render failed")

	// ErrEmptyDocument indicates an operation that needs at least one page
	// was given a zero-page document.
	ErrEmptyDocument = errors.New("document has no pages")

	// ErrNotImplemented indicates functionality is not available in this
	// build (e.g. PDF rasterisation without cgo).
	ErrNotImplemented = errors.New("not implemented")
)
