package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeUTF8(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "valid string untouched",
			input: "for loops repeat a block",
			want:  "for loops repeat a block",
		},
		{
			name:  "valid multibyte untouched",
			input: "résumé §2",
			want:  "résumé §2",
		},
		{
			name:  "invalid byte dropped",
			input: "loops\xffexplained",
			want:  "loopsexplained",
		},
		{
			name:  "truncated sequence dropped",
			input: "module\xc3",
			want:  "module",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sanitizeUTF8(tc.input))
		})
	}
}
