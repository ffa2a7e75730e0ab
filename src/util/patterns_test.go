package util

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"code-reviewer/src/config"
)

func TestExclusionMatcher(t *testing.T) {
	m := NewExclusionMatcher(config.ExclusionsConfig{
		ClassPatterns:    []string{"^Test", "Mock$", "([bad"},
		FunctionPatterns: []string{"^test_"},
	})

	assert.True(t, m.Matches("TestParser", ""))
	assert.True(t, m.Matches("ClientMock", ""))
	assert.True(t, m.Matches("", "test_parse"))
	assert.False(t, m.Matches("Parser", "parse"))
	assert.False(t, m.Matches("", ""))

	var nilMatcher *ExclusionMatcher
	assert.False(t, nilMatcher.Matches("TestParser", "test_x"))
}
