package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		page, size            int
		wantOffset, wantLimit int
	}{
		{page: 1, size: 10, wantOffset: 0, wantLimit: 10},
		{page: 3, size: 5, wantOffset: 10, wantLimit: 5},
		{page: 0, size: 0, wantOffset: 0, wantLimit: DefaultPageSize},
		{page: -4, size: 1000, wantOffset: 0, wantLimit: DefaultPageSize},
	}
	for _, tt := range tests {
		offset, limit := Calculate(tt.page, tt.size)
		assert.Equal(t, tt.wantOffset, offset)
		assert.Equal(t, tt.wantLimit, limit)
	}
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 7, ParseIntDefault("", 7))
	assert.Equal(t, 7, ParseIntDefault("seven", 7))
	assert.Equal(t, 3, ParseIntDefault("3", 7))
}

func TestNewMeta(t *testing.T) {
	m := NewMeta(2, 2, 5)
	assert.Equal(t, Meta{Page: 2, Size: 2, Total: 5, TotalPages: 3, HasPrev: true, HasNext: true}, m)

	m = NewMeta(3, 2, 5)
	assert.False(t, m.HasNext)

	m = NewMeta(0, 0, 0)
	assert.Equal(t, Meta{Page: 1, Size: DefaultPageSize}, m)
}
