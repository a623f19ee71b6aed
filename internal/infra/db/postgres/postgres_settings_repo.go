package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"privacy-governor/internal/domain"
	"privacy-governor/internal/domain/model"
	"privacy-governor/internal/domain/ports/repository"
)

// Ensure interface compliance
var _ repository.SettingsRepository = (*PostgresSettingsRepo)(nil)

// PostgresSettingsRepo stores the single active PrivacySettings document as
// a JSONB row with a fixed id. Writes are whole-document upserts, so
// last-writer-wins is enforced by the database itself.
type PostgresSettingsRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresSettingsRepo(pool *pgxpool.Pool) *PostgresSettingsRepo {
	return &PostgresSettingsRepo{pool: pool}
}

const settingsRowID = 1

func (r *PostgresSettingsRepo) Load(ctx context.Context, tx repository.Tx) (*model.PrivacySettings, error) {
	const q = `
SELECT settings, updated_at
  FROM privacy_settings
 WHERE id = $1;
`
	row := pickRow(ctx, r.pool, tx, q, settingsRowID)
	var (
		raw []byte
		s   model.PrivacySettings
	)
	if err := row.Scan(&raw, &s.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("Load settings: %w", err)
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("Load settings decode: %w", err)
	}
	return &s, nil
}

func (r *PostgresSettingsRepo) Save(ctx context.Context, tx repository.Tx, s *model.PrivacySettings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("Save settings encode: %w", err)
	}
	const q = `
INSERT INTO privacy_settings (id, settings, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE
  SET settings   = EXCLUDED.settings,
      updated_at = EXCLUDED.updated_at;
`
	if _, err := execSQL(ctx, r.pool, tx, q, settingsRowID, raw, s.UpdatedAt); err != nil {
		return fmt.Errorf("Save settings: %w", err)
	}
	return nil
}
