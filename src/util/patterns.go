package util

import (
	"regexp"

	"code-reviewer/src/config"
)

// ExclusionMatcher matches named entities against exclusion patterns
type ExclusionMatcher struct {
	classPatterns    []*regexp.Regexp
	functionPatterns []*regexp.Regexp
}

// NewExclusionMatcher creates a new exclusion matcher from config.
// Patterns that fail to compile are logged and ignored.
func NewExclusionMatcher(cfg config.ExclusionsConfig) *ExclusionMatcher {
	m := &ExclusionMatcher{}

	for _, p := range cfg.ClassPatterns {
		if re, err := regexp.Compile(p); err == nil {
			m.classPatterns = append(m.classPatterns, re)
		} else {
			Warn("Ignoring invalid class exclusion pattern %q: %v", p, err)
		}
	}

	for _, p := range cfg.FunctionPatterns {
		if re, err := regexp.Compile(p); err == nil {
			m.functionPatterns = append(m.functionPatterns, re)
		} else {
			Warn("Ignoring invalid function exclusion pattern %q: %v", p, err)
		}
	}

	return m
}

// Matches reports whether the class or function should be excluded.
// Either name may be empty. A nil matcher matches nothing.
func (m *ExclusionMatcher) Matches(className, funcName string) bool {
	if m == nil {
		return false
	}

	if className != "" {
		for _, re := range m.classPatterns {
			if re.MatchString(className) {
				return true
			}
		}
	}

	if funcName != "" {
		for _, re := range m.functionPatterns {
			if re.MatchString(funcName) {
				return true
			}
		}
	}

	return false
}
