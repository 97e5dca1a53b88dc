package typing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name            string
		target, input   string
		correct, scored int
	}{
		{"exact", "Hello Cookey Typer!", "Hello Cookey Typer!", 19, 19},
		{"empty input", "Hello", "", 0, 0},
		{"one typo", "abcdef", "abXdef", 5, 4},
		{"missing tail", "abcdef", "abc", 3, 3},
		{"garbage", "abc", "zzzzzz", 0, 0},
		{"extra chars", "abc", "abcxyz", 3, 0},
		{"unicode", "café", "café", 4, 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			correct, acc := Score(tc.target, tc.input)
			assert.Equal(t, tc.correct, correct)
			assert.Equal(t, tc.scored, acc)
		})
	}
}

func TestPrompter(t *testing.T) {
	sentences := []string{"one", "two", "three"}

	p := NewPrompter(sentences, "hello", 1)
	assert.Equal(t, "hello", p.Current())
	for i := 0; i < 20; i++ {
		next := p.Next()
		assert.Contains(t, sentences, next)
		assert.Equal(t, next, p.Current())
	}

	// Same seed, same sequence
	a, b := NewPrompter(sentences, "", 7), NewPrompter(sentences, "", 7)
	assert.Equal(t, "one", a.Current())
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}

	empty := NewPrompter(nil, "", 1)
	assert.Equal(t, "", empty.Next())
}
