package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTake(t *testing.T) {
	s := []string{"a", "b", "c"}

	assert.Equal(t, []string{"a", "b"}, Take(s, 2))
	assert.Equal(t, s, Take(s, 5))
	assert.Empty(t, Take(s, -1))
}

func TestFirst(t *testing.T) {
	v, ok := First([]int{4, 5})
	assert.True(t, ok)
	assert.Equal(t, 4, v)

	_, ok = First([]int(nil))
	assert.False(t, ok)
	assert.True(t, IsEmpty([]int(nil)))
}

func TestSpans(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		size     int
		expected []Span
	}{
		{"empty", 0, 4, nil},
		{"exact", 4, 2, []Span{{0, 2}, {2, 4}}},
		{"remainder", 5, 2, []Span{{0, 2}, {2, 4}, {4, 5}}},
		{"single", 3, 10, []Span{{0, 3}}},
		{"zero size means one span", 3, 0, []Span{{0, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Spans(tt.total, tt.size))
		})
	}
}
