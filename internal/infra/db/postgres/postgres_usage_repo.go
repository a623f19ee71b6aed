package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"privacy-governor/internal/domain/model"
	"privacy-governor/internal/domain/ports/repository"
)

// Ensure interface compliance
var _ repository.UsageLogRepository = (*PostgresUsageRepo)(nil)

// PostgresUsageRepo is the append-only audit ledger. There is deliberately
// no Update: rows leave the table only through PurgeExpired or DeleteAll.
type PostgresUsageRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUsageRepo(pool *pgxpool.Pool) *PostgresUsageRepo {
	return &PostgresUsageRepo{pool: pool}
}

func (r *PostgresUsageRepo) Append(ctx context.Context, tx repository.Tx, rec *model.UsageRecord) error {
	const q = `
INSERT INTO ai_usage_log (
  id, fingerprint, provider, task_type, ts, bytes_sent, tokens_estimated,
  anonymized, approved, retention_days, expires_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11);
`
	_, err := execSQL(ctx, r.pool, tx, q,
		rec.ID, rec.Fingerprint, string(rec.Provider), string(rec.TaskType), rec.Timestamp,
		rec.BytesSent, rec.TokensEstimated, rec.Anonymized, rec.Approved,
		rec.RetentionDays, rec.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("Append usage: %w", err)
	}
	return nil
}

func (r *PostgresUsageRepo) ListSince(ctx context.Context, tx repository.Tx, since time.Time, limit int) ([]*model.UsageRecord, error) {
	const q = `
SELECT id, fingerprint, provider, task_type, ts, bytes_sent, tokens_estimated,
       anonymized, approved, retention_days, expires_at
  FROM ai_usage_log
 WHERE ts >= $1
 ORDER BY ts DESC
 LIMIT $2;
`
	rows, err := queryRows(ctx, r.pool, tx, q, since, limit)
	if err != nil {
		return nil, fmt.Errorf("ListSince usage: %w", err)
	}
	defer rows.Close()
	var out []*model.UsageRecord
	for rows.Next() {
		var (
			rec  model.UsageRecord
			prov string
			task string
		)
		if err := rows.Scan(&rec.ID, &rec.Fingerprint, &prov, &task, &rec.Timestamp,
			&rec.BytesSent, &rec.TokensEstimated, &rec.Anonymized, &rec.Approved,
			&rec.RetentionDays, &rec.ExpiresAt); err != nil {
			return nil, err
		}
		rec.Provider = model.Provider(prov)
		rec.TaskType = model.TaskType(task)
		out = append(out, &rec)
	}
	return out, rows.Err()
}

func (r *PostgresUsageRepo) StatsByProvider(ctx context.Context, tx repository.Tx, since time.Time) ([]model.ProviderUsage, error) {
	const q = `
SELECT provider,
       COUNT(*),
       COALESCE(SUM(bytes_sent), 0),
       COALESCE(SUM(tokens_estimated), 0),
       COUNT(*) FILTER (WHERE anonymized),
       COUNT(*) FILTER (WHERE approved)
  FROM ai_usage_log
 WHERE ts >= $1
 GROUP BY provider
 ORDER BY provider;
`
	rows, err := queryRows(ctx, r.pool, tx, q, since)
	if err != nil {
		return nil, fmt.Errorf("StatsByProvider: %w", err)
	}
	defer rows.Close()
	var out []model.ProviderUsage
	for rows.Next() {
		var (
			u    model.ProviderUsage
			prov string
		)
		if err := rows.Scan(&prov, &u.Requests, &u.TotalBytesSent, &u.TotalTokens,
			&u.AnonymizedCount, &u.ApprovedRequests); err != nil {
			return nil, err
		}
		u.Provider = model.Provider(prov)
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *PostgresUsageRepo) PurgeExpired(ctx context.Context, tx repository.Tx, now time.Time) (int64, error) {
	const q = `DELETE FROM ai_usage_log WHERE expires_at <= $1;`
	ct, err := execSQL(ctx, r.pool, tx, q, now)
	if err != nil {
		return 0, fmt.Errorf("PurgeExpired: %w", err)
	}
	return ct.RowsAffected(), nil
}

func (r *PostgresUsageRepo) DeleteAll(ctx context.Context, tx repository.Tx) (int64, error) {
	const q = `DELETE FROM ai_usage_log;`
	ct, err := execSQL(ctx, r.pool, tx, q)
	if err != nil {
		return 0, fmt.Errorf("DeleteAll usage: %w", err)
	}
	return ct.RowsAffected(), nil
}
