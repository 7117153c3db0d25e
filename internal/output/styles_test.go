package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortHash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		hash     string
		expected string
	}{
		{name: "full sha", hash: "0123456789abcdef0123456789abcdef01234567", expected: "0123456"},
		{name: "exactly seven", hash: "0123456", expected: "0123456"},
		{name: "shorter than seven", hash: "ab12", expected: "ab12"},
		{name: "empty", hash: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, ShortHash(tt.hash))
		})
	}
}
