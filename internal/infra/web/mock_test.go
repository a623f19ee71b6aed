//go:build !integration

package web_test

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"privacy-governor/internal/domain/model"
	"privacy-governor/internal/usecase"
)

func newTestLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

// ---- fake GovernanceUseCase ----

type fakeGovernanceUC struct {
	CheckPermissionFunc func(ctx context.Context, content string, provider model.Provider, task model.TaskType) (model.PermissionDecision, error)
	RecordUsageFunc     func(ctx context.Context, content string, provider model.Provider, task model.TaskType, bytesSent int, anonymized, approved bool) (string, error)
	AnonymizeFunc       func(ctx context.Context, content string, level model.AnonymizationLevel) (string, map[string]string, error)
}

var _ usecase.GovernanceUseCase = (*fakeGovernanceUC)(nil)

func (f *fakeGovernanceUC) CheckPermission(ctx context.Context, content string, provider model.Provider, task model.TaskType) (model.PermissionDecision, error) {
	if f.CheckPermissionFunc != nil {
		return f.CheckPermissionFunc(ctx, content, provider, task)
	}
	return model.Allow("permitted", model.Classification{}), nil
}

func (f *fakeGovernanceUC) RecordUsage(ctx context.Context, content string, provider model.Provider, task model.TaskType, bytesSent int, anonymized, approved bool) (string, error) {
	if f.RecordUsageFunc != nil {
		return f.RecordUsageFunc(ctx, content, provider, task, bytesSent, anonymized, approved)
	}
	return model.Fingerprint(content), nil
}

func (f *fakeGovernanceUC) Anonymize(ctx context.Context, content string, level model.AnonymizationLevel) (string, map[string]string, error) {
	if f.AnonymizeFunc != nil {
		return f.AnonymizeFunc(ctx, content, level)
	}
	return content, map[string]string{}, nil
}

// ---- fake SettingsUseCase ----

type fakeSettingsUC struct {
	SettingsFunc          func(ctx context.Context) (*model.PrivacySettings, error)
	SetModeFunc           func(ctx context.Context, mode model.PrivacyMode) (*model.PrivacySettings, error)
	ConfigureProviderFunc func(ctx context.Context, provider model.Provider, allowed bool, tasks []model.TaskType, anonymizeRequired, autoApprove bool, dailyLimit int) error
	ProvidersFunc         func(ctx context.Context) ([]*model.ProviderPolicy, error)
}

var _ usecase.SettingsUseCase = (*fakeSettingsUC)(nil)

func (f *fakeSettingsUC) Settings(ctx context.Context) (*model.PrivacySettings, error) {
	if f.SettingsFunc != nil {
		return f.SettingsFunc(ctx)
	}
	return model.NewDefaultSettings(), nil
}

func (f *fakeSettingsUC) SetMode(ctx context.Context, mode model.PrivacyMode) (*model.PrivacySettings, error) {
	if f.SetModeFunc != nil {
		return f.SetModeFunc(ctx, mode)
	}
	s := model.NewDefaultSettings()
	if err := s.ApplyMode(mode); err != nil {
		return nil, err
	}
	return s, nil
}

func (f *fakeSettingsUC) ConfigureProvider(ctx context.Context, provider model.Provider, allowed bool, tasks []model.TaskType, anonymizeRequired, autoApprove bool, dailyLimit int) error {
	if f.ConfigureProviderFunc != nil {
		return f.ConfigureProviderFunc(ctx, provider, allowed, tasks, anonymizeRequired, autoApprove, dailyLimit)
	}
	return nil
}

func (f *fakeSettingsUC) Providers(ctx context.Context) ([]*model.ProviderPolicy, error) {
	if f.ProvidersFunc != nil {
		return f.ProvidersFunc(ctx)
	}
	return nil, nil
}

// ---- fake DashboardUseCase ----

type fakeDashboardUC struct {
	DashboardFunc func(ctx context.Context) (*usecase.Dashboard, error)
	ScoreFunc     func(ctx context.Context) (int, error)
}

var _ usecase.DashboardUseCase = (*fakeDashboardUC)(nil)

func (f *fakeDashboardUC) Dashboard(ctx context.Context) (*usecase.Dashboard, error) {
	if f.DashboardFunc != nil {
		return f.DashboardFunc(ctx)
	}
	return &usecase.Dashboard{Mode: model.PrivacyModePrivate, PrivacyScore: 95}, nil
}

func (f *fakeDashboardUC) PrivacyScore(ctx context.Context) (int, error) {
	if f.ScoreFunc != nil {
		return f.ScoreFunc(ctx)
	}
	return 95, nil
}

// ---- fake RetentionUseCase ----

type fakeRetentionUC struct {
	PurgeExpiredFunc func(ctx context.Context, now time.Time) (int64, error)
	EraseAllFunc     func(ctx context.Context) (int64, error)
}

var _ usecase.RetentionUseCase = (*fakeRetentionUC)(nil)

func (f *fakeRetentionUC) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	if f.PurgeExpiredFunc != nil {
		return f.PurgeExpiredFunc(ctx, now)
	}
	return 0, nil
}

func (f *fakeRetentionUC) EraseAll(ctx context.Context) (int64, error) {
	if f.EraseAllFunc != nil {
		return f.EraseAllFunc(ctx)
	}
	return 0, nil
}
