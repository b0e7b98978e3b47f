package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		raw      string
		decimals bool
		want     float64
		ok       bool
	}{
		{"42", false, 42, true},
		{"  42  ", false, 42, true},
		{"42.9", false, 42, true},
		{"-7", false, -7, true},
		{"+7", false, 7, true},
		{"12px", false, 12, true},
		{"1.5", true, 1.5, true},
		{".5", true, 0.5, true},
		{"3.", true, 3, true},
		{"1e2", true, 100, true},
		{"2.4s", true, 2.4, true},
		{"", false, 0, false},
		{"abc", true, 0, false},
		{"s2", true, 0, false},
		{".", true, 0, false},
		{".5", false, 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseInput(tt.raw, tt.decimals)
		assert.Equal(t, tt.ok, ok, "ParseInput(%q, %v)", tt.raw, tt.decimals)
		if tt.ok {
			assert.Equal(t, tt.want, got, "ParseInput(%q, %v)", tt.raw, tt.decimals)
		}
	}
}
