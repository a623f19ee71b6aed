//go:build !integration

package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"privacy-governor/internal/domain"
	"privacy-governor/internal/domain/model"
	"privacy-governor/internal/domain/ports/adapter"
	"privacy-governor/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

// ---- Mock TransactionManager ----

// MockTxManager runs the callback inline. The default hands the callback a
// nil tx so mock repositories take their non-transactional path.
type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

// =============================
// Repositories
// =============================

// ---- Mock SettingsRepository ----

type MockSettingsRepo struct {
	mu       sync.Mutex
	Settings *model.PrivacySettings

	LoadFunc func(ctx context.Context, tx repository.Tx) (*model.PrivacySettings, error)
	SaveFunc func(ctx context.Context, tx repository.Tx, s *model.PrivacySettings) error
}

var _ repository.SettingsRepository = (*MockSettingsRepo)(nil)

func NewMockSettingsRepo(s *model.PrivacySettings) *MockSettingsRepo {
	return &MockSettingsRepo{Settings: s}
}

func (m *MockSettingsRepo) Load(ctx context.Context, tx repository.Tx) (*model.PrivacySettings, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Settings == nil {
		return nil, domain.ErrNotFound
	}
	return m.Settings.Clone(), nil
}

func (m *MockSettingsRepo) Save(ctx context.Context, tx repository.Tx, s *model.PrivacySettings) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, s)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Settings = s.Clone()
	return nil
}

// ---- Mock ProviderPolicyRepository ----

type MockPolicyRepo struct {
	mu       sync.Mutex
	Policies map[model.Provider]*model.ProviderPolicy

	FindFunc      func(ctx context.Context, tx repository.Tx, p model.Provider) (*model.ProviderPolicy, error)
	SaveFunc      func(ctx context.Context, tx repository.Tx, pol *model.ProviderPolicy) error
	IncrementFunc func(ctx context.Context, tx repository.Tx, p model.Provider) (int, error)
}

var _ repository.ProviderPolicyRepository = (*MockPolicyRepo)(nil)

func NewMockPolicyRepo() *MockPolicyRepo {
	return &MockPolicyRepo{Policies: map[model.Provider]*model.ProviderPolicy{}}
}

func (m *MockPolicyRepo) Save(ctx context.Context, tx repository.Tx, pol *model.ProviderPolicy) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, pol)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *pol
	m.Policies[pol.Provider] = &cp
	return nil
}

func (m *MockPolicyRepo) Find(ctx context.Context, tx repository.Tx, p model.Provider) (*model.ProviderPolicy, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, tx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	pol, ok := m.Policies[p]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *pol
	return &cp, nil
}

func (m *MockPolicyRepo) All(ctx context.Context, tx repository.Tx) ([]*model.ProviderPolicy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.ProviderPolicy, 0, len(m.Policies))
	for _, pol := range m.Policies {
		cp := *pol
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockPolicyRepo) IncrementDailyUsage(ctx context.Context, tx repository.Tx, p model.Provider) (int, error) {
	if m.IncrementFunc != nil {
		return m.IncrementFunc(ctx, tx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	pol, ok := m.Policies[p]
	if !ok {
		return 0, domain.ErrNotFound
	}
	now := time.Now()
	if pol.CountToday(now) == 0 {
		pol.UsageCountToday = 0
	}
	pol.UsageCountToday++
	pol.LastUsed = now
	return pol.UsageCountToday, nil
}

// ---- Mock UsageLogRepository ----

type MockUsageRepo struct {
	mu      sync.Mutex
	Records []*model.UsageRecord

	AppendFunc    func(ctx context.Context, tx repository.Tx, rec *model.UsageRecord) error
	StatsFunc     func(ctx context.Context, tx repository.Tx, since time.Time) ([]model.ProviderUsage, error)
	ListSinceFunc func(ctx context.Context, tx repository.Tx, since time.Time, limit int) ([]*model.UsageRecord, error)
}

var _ repository.UsageLogRepository = (*MockUsageRepo)(nil)

func NewMockUsageRepo() *MockUsageRepo { return &MockUsageRepo{} }

func (m *MockUsageRepo) Append(ctx context.Context, tx repository.Tx, rec *model.UsageRecord) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, tx, rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.Records = append(m.Records, &cp)
	return nil
}

func (m *MockUsageRepo) ListSince(ctx context.Context, tx repository.Tx, since time.Time, limit int) ([]*model.UsageRecord, error) {
	if m.ListSinceFunc != nil {
		return m.ListSinceFunc(ctx, tx, since, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.UsageRecord
	for i := len(m.Records) - 1; i >= 0 && len(out) < limit; i-- {
		if !m.Records[i].Timestamp.Before(since) {
			cp := *m.Records[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockUsageRepo) StatsByProvider(ctx context.Context, tx repository.Tx, since time.Time) ([]model.ProviderUsage, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, tx, since)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	agg := map[model.Provider]*model.ProviderUsage{}
	for _, r := range m.Records {
		if r.Timestamp.Before(since) {
			continue
		}
		u, ok := agg[r.Provider]
		if !ok {
			u = &model.ProviderUsage{Provider: r.Provider}
			agg[r.Provider] = u
		}
		u.Requests++
		u.TotalBytesSent += int64(r.BytesSent)
		u.TotalTokens += int64(r.TokensEstimated)
		if r.Anonymized {
			u.AnonymizedCount++
		}
		if r.Approved {
			u.ApprovedRequests++
		}
	}
	out := make([]model.ProviderUsage, 0, len(agg))
	for _, u := range agg {
		out = append(out, *u)
	}
	return out, nil
}

func (m *MockUsageRepo) PurgeExpired(ctx context.Context, tx repository.Tx, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*model.UsageRecord
	var n int64
	for _, r := range m.Records {
		if r.Expired(now) {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.Records = kept
	return n, nil
}

func (m *MockUsageRepo) DeleteAll(ctx context.Context, tx repository.Tx) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.Records))
	m.Records = nil
	return n, nil
}

// =============================
// Adapters
// =============================

// ---- Mock TokenCounter ----

type MockTokenCounter struct {
	CountFunc func(text string) int
}

var _ adapter.TokenCounter = (*MockTokenCounter)(nil)

func (m *MockTokenCounter) Count(text string) int {
	if m.CountFunc != nil {
		return m.CountFunc(text)
	}
	return len(text) / 4
}
