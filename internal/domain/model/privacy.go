package model

import (
	"time"

	"privacy-governor/internal/domain"
)

// PrivacyMode is the global switch governing which AI providers may ever
// receive content.
type PrivacyMode string

const (
	PrivacyModePrivate   PrivacyMode = "private"   // local processing only
	PrivacyModeSelective PrivacyMode = "selective" // explicit per-provider allow-listing
	PrivacyModeOpen      PrivacyMode = "open"      // all known providers, no approval
)

func ParsePrivacyMode(s string) (PrivacyMode, error) {
	switch PrivacyMode(s) {
	case PrivacyModePrivate, PrivacyModeSelective, PrivacyModeOpen:
		return PrivacyMode(s), nil
	}
	return "", domain.ErrInvalidArgument
}

// Provider identifies an AI backend capable of receiving content.
// ProviderLocal is the on-device sentinel: always trusted, never networked.
type Provider string

const (
	ProviderOpenAI      Provider = "openai"
	ProviderAnthropic   Provider = "anthropic"
	ProviderGoogle      Provider = "google"
	ProviderHuggingFace Provider = "huggingface"
	ProviderOpenRouter  Provider = "openrouter"
	ProviderLocal       Provider = "local"
)

// AllProviders returns every known provider, local last.
func AllProviders() []Provider {
	return []Provider{
		ProviderOpenAI,
		ProviderAnthropic,
		ProviderGoogle,
		ProviderHuggingFace,
		ProviderOpenRouter,
		ProviderLocal,
	}
}

func ParseProvider(s string) (Provider, error) {
	for _, p := range AllProviders() {
		if Provider(s) == p {
			return p, nil
		}
	}
	return "", domain.ErrInvalidArgument
}

func (p Provider) IsLocal() bool { return p == ProviderLocal }

// TaskType names the AI operation the caller wants to run on the content.
type TaskType string

const (
	TaskSummarization       TaskType = "summarization"
	TaskContentCleaning     TaskType = "content_cleaning"
	TaskKnowledgeExtraction TaskType = "knowledge_extraction"
	TaskSearchEnhancement   TaskType = "search_enhancement"
	TaskContentGeneration   TaskType = "content_generation"
	TaskTranslation         TaskType = "translation"
	TaskSentimentAnalysis   TaskType = "sentiment_analysis"
)

// SensitivityLevel is a total order: any check phrased as "X or more
// sensitive" relies on the numeric ordering below.
type SensitivityLevel int

const (
	SensitivityPublic SensitivityLevel = iota
	SensitivityPersonal
	SensitivityConfidential
	SensitivityRestricted
)

func (l SensitivityLevel) String() string {
	switch l {
	case SensitivityPublic:
		return "public"
	case SensitivityPersonal:
		return "personal"
	case SensitivityConfidential:
		return "confidential"
	case SensitivityRestricted:
		return "restricted"
	}
	return "unknown"
}

// AtLeast reports whether l is as sensitive as min or more.
func (l SensitivityLevel) AtLeast(min SensitivityLevel) bool { return l >= min }

// PrivacySettings is the single active configuration governing every
// permission decision. Consumers read it through the settings repository;
// mutations go through SettingsUseCase and are last-writer-wins.
type PrivacySettings struct {
	Mode                PrivacyMode `json:"mode"`
	AllowedProviders    []Provider  `json:"allowed_providers"`
	AutoAnonymize       bool        `json:"auto_anonymize"`
	RequireApproval     bool        `json:"require_approval"`
	MaxRetentionDays    int         `json:"max_retention_days"`
	SensitivePatterns   []string    `json:"sensitive_patterns"`
	BlockedContentTypes []string    `json:"blocked_content_types"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// DefaultSensitivePatterns cover the identifiers the transcription pipeline
// most often leaks: SSN, card number, email, phone.
func DefaultSensitivePatterns() []string {
	return []string{
		`\b\d{3}-\d{2}-\d{4}\b`,
		`\b\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}\b`,
		`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`,
		`\(?\b\d{3}\)?[-. ]?\d{3}[-. ]?\d{4}\b`,
	}
}

func NewDefaultSettings() *PrivacySettings {
	return &PrivacySettings{
		Mode:                PrivacyModePrivate,
		AllowedProviders:    []Provider{ProviderLocal},
		AutoAnonymize:       true,
		RequireApproval:     true,
		MaxRetentionDays:    30,
		SensitivePatterns:   DefaultSensitivePatterns(),
		BlockedContentTypes: []string{"financial", "medical", "legal"},
		UpdatedAt:           time.Now(),
	}
}

// Allows reports whether p is in the allowed provider set.
func (s *PrivacySettings) Allows(p Provider) bool {
	for _, ap := range s.AllowedProviders {
		if ap == p {
			return true
		}
	}
	return false
}

// Blocks reports whether contentType is in the blocked set.
func (s *PrivacySettings) Blocks(contentType string) bool {
	for _, t := range s.BlockedContentTypes {
		if t == contentType {
			return true
		}
	}
	return false
}

// ApplyMode switches the global mode and adjusts the derived fields:
//
//	private   -> providers = {local}, approval on, anonymization on
//	open      -> providers = all known, approval off, anonymization off
//	selective -> approval on, anonymization on, providers untouched
//	             (caller must allow-list providers explicitly)
func (s *PrivacySettings) ApplyMode(mode PrivacyMode) error {
	switch mode {
	case PrivacyModePrivate:
		s.AllowedProviders = []Provider{ProviderLocal}
		s.RequireApproval = true
		s.AutoAnonymize = true
	case PrivacyModeSelective:
		s.RequireApproval = true
		s.AutoAnonymize = true
	case PrivacyModeOpen:
		s.AllowedProviders = AllProviders()
		s.RequireApproval = false
		s.AutoAnonymize = false
	default:
		return domain.ErrInvalidArgument
	}
	s.Mode = mode
	s.UpdatedAt = time.Now()
	return nil
}

// Validate enforces the structural invariants: non-negative retention and
// private mode implying a local-only provider set.
func (s *PrivacySettings) Validate() error {
	if s.MaxRetentionDays < 0 {
		return domain.ErrInvalidArgument
	}
	if _, err := ParsePrivacyMode(string(s.Mode)); err != nil {
		return err
	}
	if s.Mode == PrivacyModePrivate {
		if len(s.AllowedProviders) != 1 || s.AllowedProviders[0] != ProviderLocal {
			return domain.ErrInvalidArgument
		}
	}
	return nil
}

// RetentionPeriod converts the retention window to a duration.
// Zero means "never retain": records become purge-eligible immediately.
func (s *PrivacySettings) RetentionPeriod() time.Duration {
	return time.Duration(s.MaxRetentionDays) * 24 * time.Hour
}

// AllowProvider adds p to the allowed set if absent.
func (s *PrivacySettings) AllowProvider(p Provider) {
	if !s.Allows(p) {
		s.AllowedProviders = append(s.AllowedProviders, p)
		s.UpdatedAt = time.Now()
	}
}

// DisallowProvider removes p from the allowed set.
func (s *PrivacySettings) DisallowProvider(p Provider) {
	out := s.AllowedProviders[:0]
	for _, ap := range s.AllowedProviders {
		if ap != p {
			out = append(out, ap)
		}
	}
	s.AllowedProviders = out
	s.UpdatedAt = time.Now()
}

// Clone returns a deep copy so a permission check evaluates one consistent
// snapshot even while settings are being updated concurrently.
func (s *PrivacySettings) Clone() *PrivacySettings {
	cp := *s
	cp.AllowedProviders = append([]Provider(nil), s.AllowedProviders...)
	cp.SensitivePatterns = append([]string(nil), s.SensitivePatterns...)
	cp.BlockedContentTypes = append([]string(nil), s.BlockedContentTypes...)
	return &cp
}
