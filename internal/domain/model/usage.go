package model

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/oklog/ulid/v2"
)

// UsageRecord is one append-only audit entry for a dispatched AI call.
// It never carries the raw content, only its fingerprint; records are
// inserted once and removed only by retention purge or explicit erasure.
type UsageRecord struct {
	ID              string    `json:"id"`
	Fingerprint     string    `json:"fingerprint"`
	Provider        Provider  `json:"provider"`
	TaskType        TaskType  `json:"task_type"`
	Timestamp       time.Time `json:"timestamp"`
	BytesSent       int       `json:"bytes_sent"`
	TokensEstimated int       `json:"tokens_estimated"`
	Anonymized      bool      `json:"anonymized"`
	Approved        bool      `json:"approved"`
	RetentionDays   int       `json:"retention_days"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// Fingerprint returns the one-way hash identifying content without
// retaining it.
func Fingerprint(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// NewUsageRecord builds an immutable audit entry. IDs are ULIDs so the
// ledger stays lexicographically ordered by insertion time.
func NewUsageRecord(fingerprint string, provider Provider, task TaskType, bytesSent, tokens, retentionDays int, anonymized, approved bool, now time.Time) *UsageRecord {
	return &UsageRecord{
		ID:              ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		Fingerprint:     fingerprint,
		Provider:        provider,
		TaskType:        task,
		Timestamp:       now,
		BytesSent:       bytesSent,
		TokensEstimated: tokens,
		Anonymized:      anonymized,
		Approved:        approved,
		RetentionDays:   retentionDays,
		ExpiresAt:       now.Add(time.Duration(retentionDays) * 24 * time.Hour),
	}
}

// Expired reports purge eligibility at the given instant.
func (r *UsageRecord) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// ProviderUsage is a dashboard aggregate over the trailing window.
type ProviderUsage struct {
	Provider         Provider `json:"provider"`
	Requests         int      `json:"requests"`
	TotalBytesSent   int64    `json:"total_bytes_sent"`
	TotalTokens      int64    `json:"total_tokens"`
	AnonymizedCount  int      `json:"anonymized_count"`
	ApprovedRequests int      `json:"approved_requests"`
}

// AnonymizationRate is the share of requests that went out anonymized.
func (u ProviderUsage) AnonymizationRate() float64 {
	if u.Requests == 0 {
		return 0
	}
	return float64(u.AnonymizedCount) / float64(u.Requests)
}
