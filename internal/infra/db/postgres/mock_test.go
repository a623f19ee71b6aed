//go:build !integration

package postgres

import (
	"context"
	"time"

	"privacy-governor/internal/domain"
	"privacy-governor/internal/domain/model"
	"privacy-governor/internal/domain/ports/repository"
	red "privacy-governor/internal/infra/redis"
)

// ---- mock redis client ----

type mockRedisClient struct {
	GetFunc func(ctx context.Context, key string) (string, error)
	SetFunc func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc func(ctx context.Context, keys ...string) error
}

var _ red.RedisClient = (*mockRedisClient)(nil)

func (m *mockRedisClient) Ping(ctx context.Context) error { return nil }

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", domain.ErrNotFound
}

func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}

func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, keys...)
	}
	return nil
}

func (m *mockRedisClient) Close() error { return nil }

// ---- mock inner settings repo ----

type mockInnerSettingsRepo struct {
	LoadFunc func(ctx context.Context, tx repository.Tx) (*model.PrivacySettings, error)
	SaveFunc func(ctx context.Context, tx repository.Tx, s *model.PrivacySettings) error
}

var _ repository.SettingsRepository = (*mockInnerSettingsRepo)(nil)

func (m *mockInnerSettingsRepo) Load(ctx context.Context, tx repository.Tx) (*model.PrivacySettings, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, tx)
	}
	return nil, domain.ErrNotFound
}

func (m *mockInnerSettingsRepo) Save(ctx context.Context, tx repository.Tx, s *model.PrivacySettings) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, s)
	}
	return nil
}
