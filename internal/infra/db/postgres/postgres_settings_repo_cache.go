package postgres

import (
	"context"
	"encoding/json"
	"time"

	"privacy-governor/internal/domain/model"
	"privacy-governor/internal/domain/ports/repository"
	"privacy-governor/internal/infra/metrics"
	red "privacy-governor/internal/infra/redis"
)

var _ repository.SettingsRepository = (*settingsRepoCacheDecorator)(nil)

const settingsCacheKey = "privacy:settings"

// settingsRepoCacheDecorator keeps the hot settings document in Redis.
// Every permission check loads settings, so this read-through cache keeps
// Postgres out of the request path; Save invalidates after writing through.
type settingsRepoCacheDecorator struct {
	inner repository.SettingsRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewSettingsRepoCacheDecorator(inner repository.SettingsRepository, cache red.RedisClient) repository.SettingsRepository {
	return &settingsRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   5 * time.Minute,
	}
}

func (d *settingsRepoCacheDecorator) Load(ctx context.Context, tx repository.Tx) (*model.PrivacySettings, error) {
	if val, err := d.cache.Get(ctx, settingsCacheKey); err == nil {
		var s model.PrivacySettings
		if json.Unmarshal([]byte(val), &s) == nil {
			metrics.IncCacheRequest("settings", "hit")
			return &s, nil
		}
	}

	metrics.IncCacheRequest("settings", "miss")
	s, err := d.inner.Load(ctx, tx)
	if err != nil {
		return nil, err
	}
	if bytes, err := json.Marshal(s); err == nil {
		_ = d.cache.Set(ctx, settingsCacheKey, bytes, d.ttl)
	}
	return s, nil
}

func (d *settingsRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, s *model.PrivacySettings) error {
	if err := d.inner.Save(ctx, tx, s); err != nil {
		return err
	}
	// Invalidate after the write so a concurrent Load cannot repopulate the
	// key with the pre-save document.
	_ = d.cache.Del(ctx, settingsCacheKey)
	return nil
}
