package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(purgeSweepsTotal, purgedRecordsTotal) }

var (
	purgeSweepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "privacy_purge_sweeps_total",
			Help: "Retention purge sweeps, labeled by result.",
		},
		[]string{"result"}, // 'ok', 'failed', 'skipped'
	)

	purgedRecordsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "privacy_purged_records_total",
			Help: "Total usage records removed by retention purge.",
		},
	)
)

func IncPurgeSweep(result string) {
	purgeSweepsTotal.WithLabelValues(norm(result)).Inc()
}

func AddPurgedRecords(n int64) {
	purgedRecordsTotal.Add(float64(n))
}
