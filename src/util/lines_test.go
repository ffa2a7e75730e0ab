package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLines(t *testing.T) {
	assert.Nil(t, SplitLines(""))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\nb"))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\nb\n"))
	assert.Equal(t, []string{"a", "", "b", ""}, SplitLines("a\n\nb\n\n"))
	assert.Equal(t, []string{""}, SplitLines("\n"))
}

func TestJoinLinesRoundTrip(t *testing.T) {
	for _, text := range []string{"a\nb", "a\nb\n", "x\n\n"} {
		trailing := len(text) > 0 && text[len(text)-1] == '\n'
		assert.Equal(t, text, JoinLines(SplitLines(text), trailing))
	}
}
