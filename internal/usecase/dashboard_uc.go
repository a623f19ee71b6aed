// File: internal/usecase/dashboard_uc.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"privacy-governor/internal/domain"
	"privacy-governor/internal/domain/model"
	"privacy-governor/internal/domain/ports/repository"
)

// Compile-time check
var _ DashboardUseCase = (*dashboardUC)(nil)

const (
	statsWindow    = 30 * 24 * time.Hour
	activityWindow = 7 * 24 * time.Hour
	activityLimit  = 20
)

// Dashboard is the transparency payload: who received how much over the
// trailing 30 days, plus a score and recommendations derived from the
// current settings.
type Dashboard struct {
	Mode            model.PrivacyMode     `json:"privacy_mode"`
	UsageStatistics []model.ProviderUsage `json:"usage_statistics"`
	RecentActivity  []*model.UsageRecord  `json:"recent_activity"`
	PrivacyScore    int                   `json:"privacy_score"`
	Recommendations []string              `json:"recommendations"`
}

type DashboardUseCase interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
	PrivacyScore(ctx context.Context) (int, error)
}

type dashboardUC struct {
	settings repository.SettingsRepository
	usage    repository.UsageLogRepository

	log *zerolog.Logger
}

func NewDashboardUseCase(settings repository.SettingsRepository, usage repository.UsageLogRepository, logger *zerolog.Logger) *dashboardUC {
	l := logger.With().Str("component", "DashboardUC").Logger()
	return &dashboardUC{settings: settings, usage: usage, log: &l}
}

func (d *dashboardUC) Dashboard(ctx context.Context) (*Dashboard, error) {
	settings, err := d.settings.Load(ctx, repository.NoTX)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}

	now := time.Now()
	stats, err := d.usage.StatsByProvider(ctx, repository.NoTX, now.Add(-statsWindow))
	if err != nil {
		return nil, fmt.Errorf("%w: usage stats: %v", domain.ErrPersistence, err)
	}
	recent, err := d.usage.ListSince(ctx, repository.NoTX, now.Add(-activityWindow), activityLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: recent activity: %v", domain.ErrPersistence, err)
	}

	return &Dashboard{
		Mode:            settings.Mode,
		UsageStatistics: stats,
		RecentActivity:  recent,
		PrivacyScore:    ScoreSettings(settings),
		Recommendations: Recommendations(settings),
	}, nil
}

func (d *dashboardUC) PrivacyScore(ctx context.Context) (int, error) {
	settings, err := d.settings.Load(ctx, repository.NoTX)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	return ScoreSettings(settings), nil
}

// ScoreSettings computes the 0-100 privacy score as a deterministic
// weighted sum over the current settings:
//
//	mode: private 40, selective 25, open 10
//	+15 auto-anonymize, +15 require-approval
//	+15 local-only providers, else +10 when at most two providers
//	+10 retention <= 30 days, else +5 when <= 90 days
func ScoreSettings(s *model.PrivacySettings) int {
	score := 0
	switch s.Mode {
	case model.PrivacyModePrivate:
		score += 40
	case model.PrivacyModeSelective:
		score += 25
	default:
		score += 10
	}
	if s.AutoAnonymize {
		score += 15
	}
	if s.RequireApproval {
		score += 15
	}
	if len(s.AllowedProviders) == 1 && s.AllowedProviders[0] == model.ProviderLocal {
		score += 15
	} else if len(s.AllowedProviders) <= 2 {
		score += 10
	}
	if s.MaxRetentionDays <= 30 {
		score += 10
	} else if s.MaxRetentionDays <= 90 {
		score += 5
	}
	if score > 100 {
		score = 100
	}
	return score
}

// Recommendations suggests the settings changes that would raise the score.
func Recommendations(s *model.PrivacySettings) []string {
	var recs []string
	if s.Mode != model.PrivacyModePrivate {
		recs = append(recs, "Consider switching to private mode for maximum privacy protection.")
	}
	if !s.AutoAnonymize {
		recs = append(recs, "Enable auto-anonymization to protect sensitive information.")
	}
	if s.MaxRetentionDays > 30 {
		recs = append(recs, "Reduce the usage-log retention period to 30 days or less.")
	}
	if len(s.AllowedProviders) > 3 {
		recs = append(recs, "Limit the number of allowed AI providers to reduce data exposure.")
	}
	return recs
}
