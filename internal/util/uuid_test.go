package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidUUID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"lowercase", "550e8400-e29b-41d4-a716-446655440000", true},
		{"uppercase", "A1B2C3D4-E5F6-7890-ABCD-EF1234567890", true},
		{"empty", "", false},
		{"object id", "65a1f0c2b7e4a91d2c3f4e5a", false},
		{"no dashes", "550e8400e29b41d4a716446655440000", false},
		{"urn form", "urn:uuid:550e8400-e29b-41d4-a716-446655440000", false},
		{"bad char", "550e8400-e29b-41d4-a716-44665544000g", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidUUID(tt.input))
		})
	}
}

func TestNewRequestIDIsUUID(t *testing.T) {
	id := NewRequestID()
	assert.True(t, IsValidUUID(id))
	assert.NotEqual(t, id, NewRequestID())
}

func TestAbbreviateID(t *testing.T) {
	assert.Equal(t, "42", AbbreviateID("42"))
	assert.Equal(t, "user-0001", AbbreviateID(" user-0001 "))
	assert.Equal(t, "550e8400…", AbbreviateID("550e8400-e29b-41d4-a716-446655440000"))
	assert.Equal(t, "65a1f0c2…", AbbreviateID("65a1f0c2b7e4a91d2c3f4e5a"))
}
