// File: internal/usecase/retention_uc.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"privacy-governor/internal/domain"
	"privacy-governor/internal/domain/ports/repository"
)

// Compile-time check
var _ RetentionUseCase = (*retentionUC)(nil)

// RetentionUseCase bounds how long audit records live. PurgeExpired filters
// strictly by expires_at, so records appended mid-sweep are never touched;
// EraseAll services a data-subject erasure request.
type RetentionUseCase interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
	EraseAll(ctx context.Context) (int64, error)
}

type retentionUC struct {
	usage repository.UsageLogRepository

	log *zerolog.Logger
}

func NewRetentionUseCase(usage repository.UsageLogRepository, logger *zerolog.Logger) *retentionUC {
	l := logger.With().Str("component", "RetentionUC").Logger()
	return &retentionUC{usage: usage, log: &l}
}

func (r *retentionUC) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	n, err := r.usage.PurgeExpired(ctx, repository.NoTX, now)
	if err != nil {
		return 0, fmt.Errorf("%w: purge expired: %v", domain.ErrPersistence, err)
	}
	if n > 0 {
		r.log.Info().Int64("count", n).Msg("expired usage records purged")
	}
	return n, nil
}

func (r *retentionUC) EraseAll(ctx context.Context) (int64, error) {
	n, err := r.usage.DeleteAll(ctx, repository.NoTX)
	if err != nil {
		return 0, fmt.Errorf("%w: erase usage log: %v", domain.ErrPersistence, err)
	}
	r.log.Warn().Int64("count", n).Msg("usage log erased on request")
	return n, nil
}
