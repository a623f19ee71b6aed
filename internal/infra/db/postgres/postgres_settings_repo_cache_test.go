//go:build !integration

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"

	"privacy-governor/internal/domain/model"
	"privacy-governor/internal/domain/ports/repository"
)

var errSaveFailed = errors.New("write failed")

func TestSettingsRepoCacheDecorator(t *testing.T) {
	ctx := context.Background()

	t.Run("Load fetches from DB and warms the cache on miss", func(t *testing.T) {
		innerCalled := false
		var cachedKey string

		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				return "", redis.Nil // Simulate cache miss
			},
			SetFunc: func(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
				cachedKey = key
				return nil
			},
		}
		inner := &mockInnerSettingsRepo{
			LoadFunc: func(ctx context.Context, tx repository.Tx) (*model.PrivacySettings, error) {
				innerCalled = true
				return model.NewDefaultSettings(), nil
			},
		}

		decorator := NewSettingsRepoCacheDecorator(inner, mockRedis)
		s, err := decorator.Load(ctx, repository.NoTX)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !innerCalled {
			t.Error("inner repository should be called on a cache miss")
		}
		if cachedKey != settingsCacheKey {
			t.Errorf("cache not warmed under the settings key, got %q", cachedKey)
		}
		if s.Mode != model.PrivacyModePrivate {
			t.Error("did not return the settings from the inner repository")
		}
	})

	t.Run("Load serves from cache without touching the DB", func(t *testing.T) {
		cached, _ := json.Marshal(model.NewDefaultSettings())
		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				return string(cached), nil
			},
		}
		inner := &mockInnerSettingsRepo{
			LoadFunc: func(ctx context.Context, tx repository.Tx) (*model.PrivacySettings, error) {
				t.Error("inner repository must not be called on a cache hit")
				return nil, nil
			},
		}

		decorator := NewSettingsRepoCacheDecorator(inner, mockRedis)
		s, err := decorator.Load(ctx, repository.NoTX)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if s.Mode != model.PrivacyModePrivate {
			t.Error("cached settings not decoded correctly")
		}
	})

	t.Run("Save invalidates the cache after writing through", func(t *testing.T) {
		deleted := false
		saved := false
		mockRedis := &mockRedisClient{
			DelFunc: func(ctx context.Context, keys ...string) error {
				deleted = true
				if !saved {
					t.Error("cache must be invalidated after the write-through, or a concurrent load could repopulate the stale document")
				}
				return nil
			},
		}
		inner := &mockInnerSettingsRepo{
			SaveFunc: func(ctx context.Context, tx repository.Tx, s *model.PrivacySettings) error {
				saved = true
				return nil
			},
		}

		decorator := NewSettingsRepoCacheDecorator(inner, mockRedis)
		if err := decorator.Save(ctx, repository.NoTX, model.NewDefaultSettings()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !deleted || !saved {
			t.Errorf("deleted=%v saved=%v, want both", deleted, saved)
		}
	})

	t.Run("Save keeps the cache when the write fails", func(t *testing.T) {
		mockRedis := &mockRedisClient{
			DelFunc: func(ctx context.Context, keys ...string) error {
				t.Error("cache must not be touched when the write fails")
				return nil
			},
		}
		inner := &mockInnerSettingsRepo{
			SaveFunc: func(ctx context.Context, tx repository.Tx, s *model.PrivacySettings) error {
				return errSaveFailed
			},
		}

		decorator := NewSettingsRepoCacheDecorator(inner, mockRedis)
		if err := decorator.Save(ctx, repository.NoTX, model.NewDefaultSettings()); err == nil {
			t.Fatal("expected the inner save error to surface")
		}
	})
}
