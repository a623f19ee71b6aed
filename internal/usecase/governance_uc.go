// File: internal/usecase/governance_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"privacy-governor/internal/domain"
	"privacy-governor/internal/domain/model"
	"privacy-governor/internal/domain/ports/adapter"
	"privacy-governor/internal/domain/ports/repository"
	"privacy-governor/internal/infra/logging"
	"privacy-governor/internal/infra/metrics"
)

// Compile-time check
var _ GovernanceUseCase = (*governanceUC)(nil)

// GovernanceUseCase decides whether content may be sent to a provider and
// keeps the audit ledger of every dispatched call.
//
// CheckPermission is read-only and safe to run in parallel; RecordUsage is
// the only mutation and must be called only after a successful check for
// semantically equivalent inputs. Re-checking immediately before recording
// is cheap and side-effect free by design.
type GovernanceUseCase interface {
	CheckPermission(ctx context.Context, content string, provider model.Provider, task model.TaskType) (model.PermissionDecision, error)
	RecordUsage(ctx context.Context, content string, provider model.Provider, task model.TaskType, bytesSent int, anonymized, approved bool) (string, error)
	Anonymize(ctx context.Context, content string, level model.AnonymizationLevel) (string, map[string]string, error)
}

type governanceUC struct {
	settings repository.SettingsRepository
	policies repository.ProviderPolicyRepository
	usage    repository.UsageLogRepository
	txm      repository.TransactionManager
	tokens   adapter.TokenCounter
	now      func() time.Time

	log *zerolog.Logger
}

func NewGovernanceUseCase(
	settings repository.SettingsRepository,
	policies repository.ProviderPolicyRepository,
	usage repository.UsageLogRepository,
	txm repository.TransactionManager,
	tokens adapter.TokenCounter,
	logger *zerolog.Logger,
) *governanceUC {
	l := logger.With().Str("component", "GovernanceUC").Logger()
	return &governanceUC{
		settings: settings,
		policies: policies,
		usage:    usage,
		txm:      txm,
		tokens:   tokens,
		now:      time.Now,
		log:      &l,
	}
}

// CheckPermission evaluates the full rule chain against one consistent
// settings snapshot. Every branch carries a human-readable reason; callers
// must not infer the reason from the boolean alone.
//
// The daily-quota check runs before classification so a quota denial is
// never masked by a content-policy denial.
func (g *governanceUC) CheckPermission(ctx context.Context, content string, provider model.Provider, task model.TaskType) (model.PermissionDecision, error) {
	defer logging.TraceDuration(g.log, "GovernanceUC.CheckPermission")()
	now := g.now()

	settings, err := g.settings.Load(ctx, repository.NoTX)
	if err != nil {
		d := model.Deny("permission check unavailable: settings could not be loaded", model.Classification{})
		metrics.IncDecision(string(provider), "deny", "config_error")
		return d, fmt.Errorf("%w: load settings: %v", domain.ErrConfiguration, err)
	}

	if settings.Mode == model.PrivacyModePrivate && !provider.IsLocal() {
		return g.deny(provider, "private_mode",
			"private mode restricts processing to the local provider", model.Classification{}), nil
	}

	if !settings.Allows(provider) {
		return g.deny(provider, "provider_not_allowed",
			fmt.Sprintf("provider %s is not in the allowed list", provider), model.Classification{}), nil
	}

	policy, err := g.policies.Find(ctx, repository.NoTX, provider)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		d := model.Deny("permission check unavailable: provider policy could not be loaded", model.Classification{})
		metrics.IncDecision(string(provider), "deny", "config_error")
		return d, fmt.Errorf("%w: load policy: %v", domain.ErrConfiguration, err)
	}

	if policy != nil {
		if !policy.Allowed {
			return g.deny(provider, "policy_disabled",
				fmt.Sprintf("provider %s is disabled by policy", provider), model.Classification{}), nil
		}
		if !policy.PermitsTask(task) {
			return g.deny(provider, "task_not_allowed",
				fmt.Sprintf("task type %s not allowed for provider %s", task, provider), model.Classification{}), nil
		}
		if policy.OverDailyLimit(now) {
			return g.deny(provider, "quota",
				fmt.Sprintf("daily usage limit exceeded for provider %s", provider), model.Classification{}), nil
		}
	}

	// Classification fails closed: a corrupted pattern list denies instead of
	// degrading to a PUBLIC allow.
	classifier, err := model.NewClassifier(settings.SensitivePatterns)
	if err != nil {
		d := g.deny(provider, "classifier_unavailable",
			"sensitivity classification unavailable; denying by default", model.Classification{})
		return d, fmt.Errorf("%w: %v", domain.ErrClassifierUnavailable, err)
	}
	c := classifier.Classify(content)

	if c.Level.AtLeast(model.SensitivityConfidential) && !provider.IsLocal() {
		return g.deny(provider, "sensitivity",
			fmt.Sprintf("content sensitivity level %s requires local processing only", c.Level), c), nil
	}

	if settings.Blocks(c.ContentType) {
		return g.deny(provider, "blocked_type",
			fmt.Sprintf("content type %s is blocked from AI processing", c.ContentType), c), nil
	}

	if settings.RequireApproval {
		if !c.Level.AtLeast(model.SensitivityConfidential) {
			return g.allow(provider, "auto_approved",
				"approved automatically for non-sensitive content", c), nil
		}
		if policy != nil && policy.AutoApprove && provider.IsLocal() {
			return g.allow(provider, "auto_approved",
				"auto-approved by provider policy for local processing", c), nil
		}
		return g.deny(provider, "approval_required",
			"explicit approval required for sensitive content", c), nil
	}

	return g.allow(provider, "permitted", "permitted", c), nil
}

// RecordUsage appends one immutable audit entry and bumps the provider's
// daily counter in a single transaction. It trusts the caller to have
// checked permission; any failure here happens after a successful external
// call, so the whole path surfaces as ErrAuditGap and upstream code can
// decide whether an unlogged call is fatal.
func (g *governanceUC) RecordUsage(ctx context.Context, content string, provider model.Provider, task model.TaskType, bytesSent int, anonymized, approved bool) (string, error) {
	now := g.now()
	fingerprint := model.Fingerprint(content)

	settings, err := g.settings.Load(ctx, repository.NoTX)
	if err != nil {
		return fingerprint, fmt.Errorf("%w: load settings: %v", domain.ErrAuditGap, err)
	}

	if bytesSent <= 0 {
		bytesSent = len(content)
	}
	tokens := 0
	if g.tokens != nil {
		tokens = g.tokens.Count(content)
	}

	rec := model.NewUsageRecord(fingerprint, provider, task, bytesSent, tokens,
		settings.MaxRetentionDays, anonymized, approved, now)

	policy, err := g.policies.Find(ctx, repository.NoTX, provider)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fingerprint, fmt.Errorf("%w: load policy: %v", domain.ErrAuditGap, err)
	}

	var count int
	err = g.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := g.usage.Append(ctx, tx, rec); err != nil {
			return fmt.Errorf("append usage record: %w", err)
		}
		// A missing policy row must not roll back the audit entry.
		n, err := g.policies.IncrementDailyUsage(ctx, tx, provider)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("increment daily usage: %w", err)
		}
		count = n
		return nil
	})
	if err != nil {
		return fingerprint, fmt.Errorf("%w: %v", domain.ErrAuditGap, err)
	}

	if policy != nil && policy.DailyLimit > 0 && count > policy.DailyLimit {
		g.log.Warn().
			Str("provider", string(provider)).
			Int("count", count).
			Int("daily_limit", policy.DailyLimit).
			Msg("daily usage limit exceeded at record time")
	}

	metrics.ObserveUsage(string(provider), string(task), bytesSent, tokens, anonymized)
	logging.With(ctx, g.log).Info().
		Str("provider", string(provider)).
		Str("task", string(task)).
		Int("bytes_sent", bytesSent).
		Int("tokens_estimated", tokens).
		Bool("anonymized", anonymized).
		Msg("AI usage recorded")

	return fingerprint, nil
}

// Anonymize scrubs content with the currently configured patterns. Only the
// replacement count is logged, never the content.
func (g *governanceUC) Anonymize(ctx context.Context, content string, level model.AnonymizationLevel) (string, map[string]string, error) {
	settings, err := g.settings.Load(ctx, repository.NoTX)
	if err != nil {
		return "", nil, fmt.Errorf("%w: load settings: %v", domain.ErrConfiguration, err)
	}
	anon, err := model.NewAnonymizer(settings.SensitivePatterns)
	if err != nil {
		return "", nil, err
	}
	redacted, replacements := anon.Anonymize(content, level)
	g.log.Debug().Int("replacements", len(replacements)).Msg("content anonymized")
	return redacted, replacements, nil
}

func (g *governanceUC) deny(provider model.Provider, class, reason string, c model.Classification) model.PermissionDecision {
	metrics.IncDecision(string(provider), "deny", class)
	g.log.Debug().Str("provider", string(provider)).Str("reason", reason).Msg("permission denied")
	return model.Deny(reason, c)
}

func (g *governanceUC) allow(provider model.Provider, class, reason string, c model.Classification) model.PermissionDecision {
	metrics.IncDecision(string(provider), "allow", class)
	return model.Allow(reason, c)
}
