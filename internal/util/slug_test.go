package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"users", "users"},
		{"Focus Sessions", "focus-sessions"},
		{"focusSessions", "focus-sessions"},
		{"castle_grounds", "castle-grounds"},
		{"  Castle Grounds  ", "castle-grounds"},
		{"Café", "cafe"},
		{"--dashboard--", "dashboard"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}
