// Package filter narrows the set of extracted attachments with regex
// include/exclude rules over content type and declared filename.
package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// Options captures the filtering configuration.
type Options struct {
	IncludeType []string
	ExcludeType []string
}

// Filter holds compiled regex patterns for filtering attachments.
type Filter struct {
	includeMode bool
	excludeMode bool
	include     []*regexp.Regexp
	exclude     []*regexp.Regexp
}

// New creates a Filter from the provided options. Include and exclude
// patterns are mutually exclusive.
func New(opts Options) (*Filter, error) {
	include, err := compilePatterns(opts.IncludeType)
	if err != nil {
		return nil, fmt.Errorf("compile include-type pattern: %w", err)
	}
	exclude, err := compilePatterns(opts.ExcludeType)
	if err != nil {
		return nil, fmt.Errorf("compile exclude-type pattern: %w", err)
	}

	if len(include) > 0 && len(exclude) > 0 {
		return nil, fmt.Errorf("include and exclude filters are mutually exclusive")
	}

	return &Filter{
		includeMode: len(include) > 0,
		excludeMode: len(exclude) > 0,
		include:     include,
		exclude:     exclude,
	}, nil
}

// Allows returns true if an attachment with the given content type
// and filename passes the filter criteria. With no patterns
// configured every attachment is allowed.
func (f *Filter) Allows(contentType, filename string) bool {
	if f.includeMode {
		return matchAny(f.include, contentType) || matchAny(f.include, filename)
	}
	if f.excludeMode {
		if matchAny(f.exclude, contentType) || matchAny(f.exclude, filename) {
			return false
		}
	}
	return true
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile %q: %w", pattern, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

func matchAny(patterns []*regexp.Regexp, text string) bool {
	if text == "" {
		return false
	}
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
