package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// identityPrefix marks every generated document identifier.
const identityPrefix = "DOC"

// compositeHashLen is how many hex characters of the content hash the
// composite identity keeps.
const compositeHashLen = 12

// IdentityGenerator derives document identifiers. All forms are pure: the
// same inputs produce the same identifier, and generation has no side
// effects. Only the composite and hash forms can fail, and only when the
// content stream cannot be read.
type IdentityGenerator struct{}

// CompositeID combines the arrival timestamp (second granularity) with the
// first 12 hex characters of the content hash. Identical bytes ingested at
// different instants yield different identities: the composite form is for
// bookkeeping, not content addressing.
func (IdentityGenerator) CompositeID(content io.Reader, arrival time.Time) (string, error) {
	sum, err := contentDigest(content)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s_%s", identityPrefix, arrival.Format("20060102_150405"), sum[:compositeHashLen]), nil
}

// HashID returns the full SHA-256 digest of the content in hex. It is the
// strongest form: stable across arrivals of identical bytes.
func (IdentityGenerator) HashID(content io.Reader) (string, error) {
	return contentDigest(content)
}

// TimestampID returns a purely time-based identifier with microsecond
// granularity. Weaker than the composite form: identical within one
// microsecond.
func (IdentityGenerator) TimestampID(now time.Time) string {
	return fmt.Sprintf("%s_%s_%06d", identityPrefix, now.Format("20060102_150405"), now.Nanosecond()/1000)
}

// RandomID returns a UUIDv4 identifier, independent of content and time.
func (IdentityGenerator) RandomID() string {
	return uuid.NewString()
}

func contentDigest(content io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, content); err != nil {
		return "", fmt.Errorf("hashing content: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
