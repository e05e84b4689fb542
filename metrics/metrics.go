// Package metrics holds the process-wide prometheus collectors, served by
// the serve command on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DownloadOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fftpeg_download_outcomes_total",
		Help: "Download pipeline terminal outcomes by status.",
	}, []string{"status"})

	FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fftpeg_fetch_duration_seconds",
		Help:    "Time spent in the external fetch tool.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
	})

	Placements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fftpeg_placements_total",
		Help: "Placement attempts by axis and result.",
	}, []string{"axis", "result"})

	LinksSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fftpeg_links_swept_total",
		Help: "Broken placement links removed by sweeps.",
	})

	SweepRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fftpeg_sweep_runs_total",
		Help: "Completed sweep runs.",
	})

	LastSweep = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fftpeg_last_sweep_timestamp_seconds",
		Help: "Unix time of the last completed sweep.",
	})

	TagCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fftpeg_tag_cache_hits_total",
		Help: "Tag name lookups served from the LRU cache.",
	})

	TagCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fftpeg_tag_cache_misses_total",
		Help: "Tag name lookups that went to the database.",
	})
)
