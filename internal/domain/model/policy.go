package model

import "time"

// ProviderPolicy is the per-provider grant layered on top of the global
// settings: a task allow-list, anonymization and auto-approval flags, and
// an optional daily call limit. The daily counter lives on the policy row
// and resets when the calendar day of LastUsed differs from today.
type ProviderPolicy struct {
	Provider             Provider   `json:"provider"`
	Allowed              bool       `json:"allowed"`
	AllowedTasks         []TaskType `json:"allowed_tasks"` // empty = all tasks
	RequireAnonymization bool       `json:"require_anonymization"`
	AutoApprove          bool       `json:"auto_approve"`
	DailyLimit           int        `json:"daily_limit"` // 0 = unlimited
	UsageCountToday      int        `json:"usage_count_today"`
	LastUsed             time.Time  `json:"last_used"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// NewProviderPolicy returns the default grant for a provider: only local
// processing is allowed out of the box, everything else starts denied with
// a conservative daily cap.
func NewProviderPolicy(p Provider) *ProviderPolicy {
	pol := &ProviderPolicy{
		Provider:             p,
		Allowed:              p.IsLocal(),
		RequireAnonymization: true,
		UpdatedAt:            time.Now(),
	}
	if !p.IsLocal() {
		pol.DailyLimit = 100
	}
	return pol
}

// PermitsTask reports whether the task is covered by the allow-list.
// An empty list permits every task.
func (p *ProviderPolicy) PermitsTask(task TaskType) bool {
	if len(p.AllowedTasks) == 0 {
		return true
	}
	for _, t := range p.AllowedTasks {
		if t == task {
			return true
		}
	}
	return false
}

// CountToday returns the effective counter at the given instant: stale
// counters from a previous calendar day read as zero.
func (p *ProviderPolicy) CountToday(now time.Time) int {
	if p.LastUsed.IsZero() {
		return 0
	}
	ly, lm, ld := p.LastUsed.Date()
	ny, nm, nd := now.Date()
	if ly != ny || lm != nm || ld != nd {
		return 0
	}
	return p.UsageCountToday
}

// OverDailyLimit reports whether another call would exceed the cap.
func (p *ProviderPolicy) OverDailyLimit(now time.Time) bool {
	return p.DailyLimit > 0 && p.CountToday(now) >= p.DailyLimit
}
