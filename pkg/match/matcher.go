// Package match evaluates include/exclude glob patterns against object names.
//
// Patterns use doublestar syntax, so `reports/**/*.pdf` matches at any depth.
// Matching is applied by the catalog builder before deduplication.
package match

import (
	"errors"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher evaluates patterns against stored-object names.
//
//   - Include patterns: a name must match at least one
//   - Exclude patterns: a name must not match any
//
// The Matcher is safe for concurrent use after creation.
type Matcher struct {
	includes []string
	excludes []string
	prefix   string
}

// Config configures a Matcher.
type Config struct {
	// Includes are glob patterns that names must match (at least one).
	// Empty means match everything.
	Includes []string

	// Excludes are glob patterns that names must not match (any).
	Excludes []string
}

// Errors returned by Matcher operations.
var (
	// ErrInvalidPattern is returned when a pattern cannot be compiled.
	ErrInvalidPattern = errors.New("invalid glob pattern")
)

// PatternError wraps pattern-related errors with context.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return "pattern " + e.Pattern + ": " + e.Err.Error()
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// New creates a Matcher from the given configuration.
//
// An empty Includes list is treated as a single "**" pattern. Returns an
// error if any pattern is invalid.
func New(cfg Config) (*Matcher, error) {
	includes := cfg.Includes
	if len(includes) == 0 {
		includes = []string{"**"}
	}

	for _, p := range append(append([]string{}, includes...), cfg.Excludes...) {
		if !doublestar.ValidatePattern(p) {
			return nil, &PatternError{Pattern: p, Err: ErrInvalidPattern}
		}
	}

	return &Matcher{
		includes: includes,
		excludes: append([]string{}, cfg.Excludes...),
		prefix:   commonPrefix(includes),
	}, nil
}

// Match returns true if the name matches the include/exclude patterns.
//
// Names are matched as-is: object-storage keys are opaque strings where any
// character is valid.
func (m *Matcher) Match(name string) bool {
	matched := false
	for _, inc := range m.includes {
		if matchPattern(inc, name) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	for _, exc := range m.excludes {
		if matchPattern(exc, name) {
			return false
		}
	}

	return true
}

// Prefix returns the literal key prefix shared by every include pattern,
// usable to narrow storage list operations. Empty means a full listing is
// required.
func (m *Matcher) Prefix() string {
	return m.prefix
}

// matchPattern matches a name against a doublestar pattern.
func matchPattern(pattern, name string) bool {
	ok, err := doublestar.Match(pattern, name)
	if err != nil {
		// Pattern was validated at construction time, so this shouldn't happen
		return false
	}
	return ok
}

// literalPrefix returns the pattern text before the first glob metacharacter,
// cut back to the last path separator so the result is a valid key prefix.
func literalPrefix(pattern string) string {
	end := strings.IndexAny(pattern, "*?[{")
	if end == -1 {
		return pattern
	}
	slash := strings.LastIndex(pattern[:end], "/")
	if slash == -1 {
		return ""
	}
	return pattern[:slash+1]
}

// commonPrefix returns the longest prefix shared by every pattern's literal
// prefix.
func commonPrefix(patterns []string) string {
	if len(patterns) == 0 {
		return ""
	}
	prefix := literalPrefix(patterns[0])
	for _, p := range patterns[1:] {
		lp := literalPrefix(p)
		for !strings.HasPrefix(lp, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	return prefix
}
