package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		in       string
		expected bool
	}{
		{"a@b.com", true},
		{"first.last@example.co.uk", true},
		{"", false},
		{"no-at-sign", false},
		{"two@@example.com", false},
		{"missing@tld", false},
		{"spaces in@example.com", false},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsValidEmail(tc.in))
		})
	}
}

func TestIsValidEnum(t *testing.T) {
	valid := []string{"email", "sms", "both"}
	assert.True(t, IsValidEnum("sms", valid))
	assert.True(t, IsValidEnum("", valid))
	assert.False(t, IsValidEnum("fax", valid))
}
