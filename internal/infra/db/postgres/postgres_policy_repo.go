package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"privacy-governor/internal/domain"
	"privacy-governor/internal/domain/model"
	"privacy-governor/internal/domain/ports/repository"
)

// Ensure interface compliance
var _ repository.ProviderPolicyRepository = (*PostgresPolicyRepo)(nil)

type PostgresPolicyRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresPolicyRepo(pool *pgxpool.Pool) *PostgresPolicyRepo {
	return &PostgresPolicyRepo{pool: pool}
}

func (r *PostgresPolicyRepo) Save(ctx context.Context, tx repository.Tx, p *model.ProviderPolicy) error {
	const q = `
INSERT INTO provider_policies (
  provider, allowed, allowed_tasks, require_anonymization, auto_approve,
  daily_limit, usage_count_today, last_used, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (provider) DO UPDATE SET
  allowed               = EXCLUDED.allowed,
  allowed_tasks         = EXCLUDED.allowed_tasks,
  require_anonymization = EXCLUDED.require_anonymization,
  auto_approve          = EXCLUDED.auto_approve,
  daily_limit           = EXCLUDED.daily_limit,
  updated_at            = EXCLUDED.updated_at;
`
	tasks := make([]string, 0, len(p.AllowedTasks))
	for _, t := range p.AllowedTasks {
		tasks = append(tasks, string(t))
	}
	_, err := execSQL(ctx, r.pool, tx, q,
		string(p.Provider), p.Allowed, tasks, p.RequireAnonymization, p.AutoApprove,
		p.DailyLimit, p.UsageCountToday, p.LastUsed, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Save policy: %w", err)
	}
	return nil
}

func (r *PostgresPolicyRepo) Find(ctx context.Context, tx repository.Tx, provider model.Provider) (*model.ProviderPolicy, error) {
	const q = `
SELECT provider, allowed, allowed_tasks, require_anonymization, auto_approve,
       daily_limit, usage_count_today, last_used, updated_at
  FROM provider_policies
 WHERE provider = $1;
`
	row := pickRow(ctx, r.pool, tx, q, string(provider))
	p, err := scanPolicy(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("Find policy: %w", err)
	}
	return p, nil
}

func (r *PostgresPolicyRepo) All(ctx context.Context, tx repository.Tx) ([]*model.ProviderPolicy, error) {
	const q = `
SELECT provider, allowed, allowed_tasks, require_anonymization, auto_approve,
       daily_limit, usage_count_today, last_used, updated_at
  FROM provider_policies
 ORDER BY provider;
`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, fmt.Errorf("All policies: %w", err)
	}
	defer rows.Close()
	var out []*model.ProviderPolicy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// IncrementDailyUsage resets stale counters and bumps in one statement so
// concurrent recorders serialize on the row lock instead of racing a
// read-modify-write.
func (r *PostgresPolicyRepo) IncrementDailyUsage(ctx context.Context, tx repository.Tx, provider model.Provider) (int, error) {
	const q = `
UPDATE provider_policies
   SET usage_count_today = CASE
         WHEN last_used IS NULL OR last_used::date <> now()::date THEN 1
         ELSE usage_count_today + 1
       END,
       last_used = now()
 WHERE provider = $1
RETURNING usage_count_today;
`
	row := pickRow(ctx, r.pool, tx, q, string(provider))
	var count int
	if err := row.Scan(&count); err != nil {
		if err == pgx.ErrNoRows {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("IncrementDailyUsage: %w", err)
	}
	return count, nil
}

func scanPolicy(row pgx.Row) (*model.ProviderPolicy, error) {
	var (
		p     model.ProviderPolicy
		prov  string
		tasks []string
	)
	if err := row.Scan(&prov, &p.Allowed, &tasks, &p.RequireAnonymization, &p.AutoApprove,
		&p.DailyLimit, &p.UsageCountToday, &p.LastUsed, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Provider = model.Provider(prov)
	for _, t := range tasks {
		p.AllowedTasks = append(p.AllowedTasks, model.TaskType(t))
	}
	return &p, nil
}
