package model

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"privacy-governor/internal/domain"
)

// AnonymizationLevel selects how aggressively content is scrubbed.
type AnonymizationLevel string

const (
	AnonymizeStandard   AnonymizationLevel = "standard"
	AnonymizeAggressive AnonymizationLevel = "aggressive"
)

// Heuristics applied only at the aggressive level. They run after the
// configured patterns so placeholders are never re-matched.
var (
	honorificNameRe   = regexp.MustCompile(`\b(?:Mr|Mrs|Ms|Dr|Prof)\.?\s+[A-Z][a-z]+\b`)
	capitalizedPairRe = regexp.MustCompile(`\b[A-Z][a-z]+\s+[A-Z][a-z]+\b`)
	streetAddressRe   = regexp.MustCompile(`\b\d{1,5}\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\s+(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr)\b`)
)

// Anonymizer replaces sensitive substrings with indexed placeholders.
// Pure transform: callers log replacement counts, never content.
type Anonymizer struct {
	patterns []*regexp.Regexp
}

func NewAnonymizer(patterns []string) (*Anonymizer, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%w: pattern %q: %v", domain.ErrInvalidArgument, p, err)
		}
		compiled = append(compiled, re)
	}
	return &Anonymizer{patterns: compiled}, nil
}

// Anonymize redacts content and returns the redacted text plus the full
// substring -> placeholder map so callers can audit what was removed.
//
// The scan over all patterns completes before any replacement is applied,
// so an earlier replacement cannot alter text a later pattern would match.
// A substring matched by several patterns keeps the placeholder of the
// first pattern that claimed it.
func (a *Anonymizer) Anonymize(content string, level AnonymizationLevel) (string, map[string]string) {
	replacements := make(map[string]string)

	for i, re := range a.patterns {
		for _, match := range re.FindAllString(content, -1) {
			if _, claimed := replacements[match]; !claimed {
				replacements[match] = fmt.Sprintf("[REDACTED_%d]", i)
			}
		}
	}

	redacted := applyReplacements(content, replacements)

	if level == AnonymizeAggressive {
		extra := make(map[string]string)
		claim := func(re *regexp.Regexp, placeholder string) {
			for _, match := range re.FindAllString(redacted, -1) {
				if _, done := replacements[match]; done {
					continue
				}
				if _, done := extra[match]; done {
					continue
				}
				extra[match] = placeholder
			}
		}
		claim(streetAddressRe, "[LOCATION]")
		claim(honorificNameRe, "[NAME]")
		claim(capitalizedPairRe, "[NAME]")

		redacted = applyReplacements(redacted, extra)
		for orig, ph := range extra {
			replacements[orig] = ph
		}
	}

	return redacted, replacements
}

// applyReplacements substitutes longest substrings first so a shorter match
// cannot clobber part of a longer one.
func applyReplacements(text string, replacements map[string]string) string {
	if len(replacements) == 0 {
		return text
	}
	keys := make([]string, 0, len(replacements))
	for k := range replacements {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		text = strings.ReplaceAll(text, k, replacements[k])
	}
	return text
}
