// File: internal/usecase/settings_uc.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"privacy-governor/internal/domain"
	"privacy-governor/internal/domain/model"
	"privacy-governor/internal/domain/ports/repository"
)

// Compile-time check
var _ SettingsUseCase = (*settingsUC)(nil)

// SettingsUseCase mutates the global privacy configuration. Mutations are
// applied to a copy and persisted atomically; on a persistence failure the
// stored settings are unchanged (no partial apply).
type SettingsUseCase interface {
	Settings(ctx context.Context) (*model.PrivacySettings, error)
	SetMode(ctx context.Context, mode model.PrivacyMode) (*model.PrivacySettings, error)
	ConfigureProvider(ctx context.Context, provider model.Provider, allowed bool, tasks []model.TaskType, anonymizeRequired, autoApprove bool, dailyLimit int) error
	Providers(ctx context.Context) ([]*model.ProviderPolicy, error)
}

type settingsUC struct {
	settings repository.SettingsRepository
	policies repository.ProviderPolicyRepository
	txm      repository.TransactionManager

	log *zerolog.Logger
}

func NewSettingsUseCase(settings repository.SettingsRepository, policies repository.ProviderPolicyRepository, txm repository.TransactionManager, logger *zerolog.Logger) *settingsUC {
	l := logger.With().Str("component", "SettingsUC").Logger()
	return &settingsUC{settings: settings, policies: policies, txm: txm, log: &l}
}

func (s *settingsUC) Settings(ctx context.Context) (*model.PrivacySettings, error) {
	cur, err := s.settings.Load(ctx, repository.NoTX)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	return cur, nil
}

func (s *settingsUC) SetMode(ctx context.Context, mode model.PrivacyMode) (*model.PrivacySettings, error) {
	cur, err := s.settings.Load(ctx, repository.NoTX)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}

	next := cur.Clone()
	if err := next.ApplyMode(mode); err != nil {
		return nil, err
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	if err := s.settings.Save(ctx, repository.NoTX, next); err != nil {
		return nil, fmt.Errorf("%w: save settings: %v", domain.ErrConfiguration, err)
	}

	s.log.Info().Str("mode", string(mode)).Msg("privacy mode changed")
	return next, nil
}

// ConfigureProvider upserts a per-provider grant and keeps the global
// allow-list in sync. Both writes run in one transaction so a failure
// never leaves the policy row and the allow-list disagreeing. Allowing a
// non-local provider while in private mode is rejected: the private-mode
// invariant pins the set to {local}.
func (s *settingsUC) ConfigureProvider(ctx context.Context, provider model.Provider, allowed bool, tasks []model.TaskType, anonymizeRequired, autoApprove bool, dailyLimit int) error {
	if dailyLimit < 0 {
		return domain.ErrInvalidArgument
	}

	cur, err := s.settings.Load(ctx, repository.NoTX)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	if cur.Mode == model.PrivacyModePrivate && allowed && !provider.IsLocal() {
		return fmt.Errorf("%w: cannot allow provider %s in private mode", domain.ErrInvalidArgument, provider)
	}

	pol := model.NewProviderPolicy(provider)
	pol.Allowed = allowed
	pol.AllowedTasks = tasks
	pol.RequireAnonymization = anonymizeRequired
	pol.AutoApprove = autoApprove
	pol.DailyLimit = dailyLimit
	pol.UpdatedAt = time.Now()

	next := cur.Clone()
	if allowed {
		next.AllowProvider(provider)
	} else {
		next.DisallowProvider(provider)
	}

	err = s.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := s.policies.Save(ctx, tx, pol); err != nil {
			return fmt.Errorf("save policy: %w", err)
		}
		if err := s.settings.Save(ctx, tx, next); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: configure provider: %v", domain.ErrConfiguration, err)
	}

	s.log.Info().
		Str("provider", string(provider)).
		Bool("allowed", allowed).
		Int("daily_limit", dailyLimit).
		Msg("provider policy updated")
	return nil
}

func (s *settingsUC) Providers(ctx context.Context) ([]*model.ProviderPolicy, error) {
	pols, err := s.policies.All(ctx, repository.NoTX)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	return pols, nil
}
