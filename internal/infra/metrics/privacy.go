package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		permissionDecisions,
		usageRecords,
		usageBytesSent,
		usageTokens,
	)
}

var (
	permissionDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "privacy_permission_decisions_total",
			Help: "Permission decisions per provider, outcome and rule class.",
		},
		[]string{"provider", "outcome", "rule"},
	)

	usageRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "privacy_usage_records_total",
			Help: "Usage records appended per provider/task, split by anonymization.",
		},
		[]string{"provider", "task", "anonymized"},
	)

	usageBytesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "privacy_usage_bytes_sent",
			Help: "Sum of bytes dispatched to providers.",
		},
		[]string{"provider"},
	)

	usageTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "privacy_usage_tokens_estimated",
			Help: "Sum of estimated tokens dispatched to providers.",
		},
		[]string{"provider"},
	)
)

func IncDecision(provider, outcome, rule string) {
	permissionDecisions.WithLabelValues(norm(provider), norm(outcome), norm(rule)).Inc()
}

func ObserveUsage(provider, task string, bytesSent, tokens int, anonymized bool) {
	usageRecords.WithLabelValues(norm(provider), norm(task), strconv.FormatBool(anonymized)).Inc()
	usageBytesSent.WithLabelValues(norm(provider)).Add(float64(bytesSent))
	usageTokens.WithLabelValues(norm(provider)).Add(float64(tokens))
}
