package model

import (
	"fmt"
	"regexp"
	"strings"

	"privacy-governor/internal/domain"
)

// Classification is the result of scoring one piece of content.
type Classification struct {
	Level       SensitivityLevel
	ContentType string
}

// sensitivityKeywords raise content to at least CONFIDENTIAL on a hit.
var sensitivityKeywords = []string{
	"confidential", "classified", "secret", "private",
	"medical", "health", "diagnosis", "treatment",
	"financial", "bank", "account", "salary", "income",
	"legal", "lawsuit", "attorney", "court",
}

// personalKeywords alone only raise content to PERSONAL.
var personalKeywords = []string{"personal", "private", "individual"}

// contentTypeLexicon is evaluated in declaration order; first domain with a
// keyword hit names the content type.
var contentTypeLexicon = []struct {
	name  string
	words []string
}{
	{"medical", []string{"medical", "health", "doctor", "diagnosis"}},
	{"financial", []string{"financial", "bank", "money", "investment"}},
	{"legal", []string{"legal", "law", "court", "attorney"}},
	{"business", []string{"business", "company", "corporate"}},
}

// Classifier scores content against the configured sensitive patterns and a
// fixed keyword lexicon. It is stateless after construction: the same input
// always yields the same Classification.
type Classifier struct {
	patterns []*regexp.Regexp
}

// NewClassifier compiles the configured patterns. A compile failure means
// the pattern list is corrupted; callers must treat the classifier as
// unavailable and deny rather than defaulting to PUBLIC.
func NewClassifier(patterns []string) (*Classifier, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%w: pattern %q: %v", domain.ErrClassifierUnavailable, p, err)
		}
		compiled = append(compiled, re)
	}
	return &Classifier{patterns: compiled}, nil
}

// Classify scores content. Decision table, first match wins:
//
//  1. pattern hit AND keyword hit  -> RESTRICTED
//  2. pattern hit OR  keyword hit  -> CONFIDENTIAL
//  3. personal keyword present     -> PERSONAL
//  4. otherwise                    -> PUBLIC
//
// Empty content is PUBLIC.
func (c *Classifier) Classify(content string) Classification {
	if content == "" {
		return Classification{Level: SensitivityPublic, ContentType: "general"}
	}

	lower := strings.ToLower(content)

	patternHit := false
	for _, re := range c.patterns {
		if re.MatchString(content) {
			patternHit = true
			break
		}
	}

	keywordHit := false
	for _, kw := range sensitivityKeywords {
		if strings.Contains(lower, kw) {
			keywordHit = true
			break
		}
	}

	level := SensitivityPublic
	switch {
	case patternHit && keywordHit:
		level = SensitivityRestricted
	case patternHit || keywordHit:
		level = SensitivityConfidential
	default:
		for _, kw := range personalKeywords {
			if strings.Contains(lower, kw) {
				level = SensitivityPersonal
				break
			}
		}
	}

	return Classification{Level: level, ContentType: classifyContentType(lower)}
}

func classifyContentType(lower string) string {
	for _, group := range contentTypeLexicon {
		for _, w := range group.words {
			if strings.Contains(lower, w) {
				return group.name
			}
		}
	}
	return "general"
}
