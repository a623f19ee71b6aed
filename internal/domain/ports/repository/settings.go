package repository

import (
	"context"

	"privacy-governor/internal/domain/model"
)

// -----------------------------
// Privacy settings (single row)
// -----------------------------

// SettingsRepository persists the one active PrivacySettings record.
// Save is a single read-modify-write; on failure the in-memory settings
// must be left untouched by callers (no partial apply).
type SettingsRepository interface {
	Load(ctx context.Context, tx Tx) (*model.PrivacySettings, error)
	Save(ctx context.Context, tx Tx, s *model.PrivacySettings) error
}

// -----------------------------
// Per-provider policies
// -----------------------------

type ProviderPolicyRepository interface {
	Save(ctx context.Context, tx Tx, p *model.ProviderPolicy) error
	Find(ctx context.Context, tx Tx, provider model.Provider) (*model.ProviderPolicy, error)
	All(ctx context.Context, tx Tx) ([]*model.ProviderPolicy, error)

	// IncrementDailyUsage bumps the provider's daily counter and stamps
	// LastUsed in one atomic statement, resetting the counter first when the
	// stored LastUsed falls on an earlier calendar day. Returns the
	// post-increment count so concurrent callers serialize on the row.
	IncrementDailyUsage(ctx context.Context, tx Tx, provider model.Provider) (int, error)
}
