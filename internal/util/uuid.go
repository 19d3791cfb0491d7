package util

import (
	"strings"

	"github.com/google/uuid"
)

// IsValidUUID reports whether s is a hyphenated 8-4-4-4-12 UUID.
func IsValidUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// NewRequestID returns a random id for the X-Request-ID header.
func NewRequestID() string {
	return uuid.NewString()
}

const abbreviatedIDLength = 8

// AbbreviateID shortens long record ids (UUIDs, 24 character object ids) for
// narrow table cells. Short ids are returned unchanged.
func AbbreviateID(id string) string {
	id = strings.TrimSpace(id)
	if len([]rune(id)) <= abbreviatedIDLength+4 {
		return id
	}
	return string([]rune(id)[:abbreviatedIDLength]) + "…"
}
