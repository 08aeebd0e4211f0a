package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePaging(t *testing.T) {
	tests := []struct {
		in          string
		limit, offs int
	}{
		{"", 10, 10},
		{"0", 10, 0},
		{"-3", 10, 10},
		{"abc", 10, 10},
		{" 25 ", 25, 25},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.limit, ParsePositiveInt(tt.in, 10))
			assert.Equal(t, tt.offs, ParseNonNegativeInt(tt.in, 10))
		})
	}
	assert.Equal(t, 0, ParseNonNegativeInt("0", 10), "zero offset is kept")
}
