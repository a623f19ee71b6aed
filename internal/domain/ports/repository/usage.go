package repository

import (
	"context"
	"time"

	"privacy-governor/internal/domain/model"
)

// -----------------------------
// AI usage ledger (append-only)
// -----------------------------

// UsageLogRepository is the append-only audit ledger. Records are inserted
// once and never updated; deletion happens only through PurgeExpired or
// DeleteAll (data-subject erasure).
type UsageLogRepository interface {
	Append(ctx context.Context, tx Tx, rec *model.UsageRecord) error
	ListSince(ctx context.Context, tx Tx, since time.Time, limit int) ([]*model.UsageRecord, error)
	StatsByProvider(ctx context.Context, tx Tx, since time.Time) ([]model.ProviderUsage, error)

	// PurgeExpired removes every record with expires_at <= now. The cutoff is
	// timestamp-invariant, so records appended during a sweep are untouched.
	PurgeExpired(ctx context.Context, tx Tx, now time.Time) (int64, error)
	DeleteAll(ctx context.Context, tx Tx) (int64, error)
}
