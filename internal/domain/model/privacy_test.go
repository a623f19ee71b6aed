//go:build !integration

package model_test

import (
	"errors"
	"testing"

	"privacy-governor/internal/domain"
	"privacy-governor/internal/domain/model"
)

func TestPrivacySettings_ApplyMode(t *testing.T) {
	t.Run("private pins providers and turns protections on", func(t *testing.T) {
		s := model.NewDefaultSettings()
		s.Mode = model.PrivacyModeOpen
		s.AllowedProviders = model.AllProviders()
		s.RequireApproval = false
		s.AutoAnonymize = false

		if err := s.ApplyMode(model.PrivacyModePrivate); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(s.AllowedProviders) != 1 || s.AllowedProviders[0] != model.ProviderLocal {
			t.Errorf("want {local}, got %v", s.AllowedProviders)
		}
		if !s.RequireApproval || !s.AutoAnonymize {
			t.Error("private mode must force approval and anonymization on")
		}
	})

	t.Run("selective keeps the provider set", func(t *testing.T) {
		s := model.NewDefaultSettings()
		s.AllowedProviders = []model.Provider{model.ProviderLocal, model.ProviderAnthropic}

		if err := s.ApplyMode(model.PrivacyModeSelective); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(s.AllowedProviders) != 2 {
			t.Errorf("selective mode must not touch providers, got %v", s.AllowedProviders)
		}
	})

	t.Run("open allows everything and drops approval", func(t *testing.T) {
		s := model.NewDefaultSettings()
		if err := s.ApplyMode(model.PrivacyModeOpen); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(s.AllowedProviders) != len(model.AllProviders()) {
			t.Errorf("want all providers, got %v", s.AllowedProviders)
		}
		if s.RequireApproval || s.AutoAnonymize {
			t.Error("open mode should drop approval and anonymization")
		}
	})

	t.Run("unknown mode is rejected", func(t *testing.T) {
		s := model.NewDefaultSettings()
		if err := s.ApplyMode(model.PrivacyMode("paranoid")); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("want ErrInvalidArgument, got %v", err)
		}
	})
}

func TestPrivacySettings_Validate(t *testing.T) {
	t.Run("defaults validate", func(t *testing.T) {
		if err := model.NewDefaultSettings().Validate(); err != nil {
			t.Fatalf("expected valid defaults, got %v", err)
		}
	})

	t.Run("negative retention is invalid", func(t *testing.T) {
		s := model.NewDefaultSettings()
		s.MaxRetentionDays = -1
		if err := s.Validate(); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("want ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("private mode with a remote provider is invalid", func(t *testing.T) {
		s := model.NewDefaultSettings()
		s.AllowedProviders = append(s.AllowedProviders, model.ProviderOpenAI)
		if err := s.Validate(); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("want ErrInvalidArgument, got %v", err)
		}
	})
}

func TestPrivacySettings_ProviderSet(t *testing.T) {
	s := model.NewDefaultSettings()
	s.Mode = model.PrivacyModeSelective

	s.AllowProvider(model.ProviderGoogle)
	if !s.Allows(model.ProviderGoogle) {
		t.Error("provider missing after AllowProvider")
	}
	// Idempotent.
	s.AllowProvider(model.ProviderGoogle)
	if got := len(s.AllowedProviders); got != 2 {
		t.Errorf("duplicate provider added: %d entries", got)
	}

	s.DisallowProvider(model.ProviderGoogle)
	if s.Allows(model.ProviderGoogle) {
		t.Error("provider still allowed after DisallowProvider")
	}
}

func TestPrivacySettings_Clone(t *testing.T) {
	s := model.NewDefaultSettings()
	c := s.Clone()

	c.Mode = model.PrivacyModeOpen
	c.AllowedProviders[0] = model.ProviderOpenAI
	c.SensitivePatterns[0] = "changed"

	if s.Mode != model.PrivacyModePrivate {
		t.Error("clone shares the mode field")
	}
	if s.AllowedProviders[0] != model.ProviderLocal {
		t.Error("clone shares the providers slice")
	}
	if s.SensitivePatterns[0] == "changed" {
		t.Error("clone shares the patterns slice")
	}
}

func TestParseProvider(t *testing.T) {
	if _, err := model.ParseProvider("anthropic"); err != nil {
		t.Errorf("known provider rejected: %v", err)
	}
	if _, err := model.ParseProvider("skynet"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("want ErrInvalidArgument, got %v", err)
	}
}
