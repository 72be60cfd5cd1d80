// Package uuid generates and checks the request identifiers attached to
// every API call.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a time-ordered UUIDv7 string, falling back to a random v4 if the
// v7 generator fails.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.New().String()
	}
	return id.String()
}

// IsValid checks if a string is a valid UUID.
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}

// FromHeader returns the caller-supplied id if it is a valid UUID, otherwise
// a fresh one.
func FromHeader(value string) string {
	if value != "" && IsValid(value) {
		return value
	}
	return New()
}
