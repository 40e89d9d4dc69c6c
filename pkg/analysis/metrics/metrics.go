package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// System metrics
	SystemMemoryUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "docinsight_system_memory_bytes",
		Help: "Current system memory usage",
	})

	SystemGoroutines = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "docinsight_system_goroutines",
		Help: "Number of goroutines",
	})

	// Pipeline metrics
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docinsight_stage_duration_seconds",
			Help:    "Time spent in each analysis stage",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	StageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docinsight_stage_errors_total",
			Help: "Total number of failed analysis stages",
		},
		[]string{"stage", "error_type"},
	)

	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docinsight_runs_total",
			Help: "Total number of analysis runs",
		},
		[]string{"status"},
	)

	// Feature metrics
	FeaturesExtracted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docinsight_features_extracted_total",
			Help: "Feature occurrences extracted per category",
		},
		[]string{"category"},
	)

	DistinctFeatures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "docinsight_distinct_features",
			Help: "Distinct features in the last analyzed document",
		},
		[]string{"category"},
	)

	// Artifact metrics
	ArtifactsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docinsight_artifacts_written_total",
			Help: "Number of report artifacts written",
		},
		[]string{"kind"},
	)

	SentimentScore = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "docinsight_sentiment_compound_score",
		Help: "Compound sentiment score of the last analyzed document",
	})
)

// StageTimer starts timing stage; call ObserveDuration when it ends
func StageTimer(stage string) *prometheus.Timer {
	return prometheus.NewTimer(StageDuration.WithLabelValues(stage))
}

// ObserveStage records a completed stage of the given length
func ObserveStage(stage string, d time.Duration) {
	StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordFeatures records the extraction totals of one category
func RecordFeatures(category string, total, distinct int) {
	FeaturesExtracted.WithLabelValues(category).Add(float64(total))
	DistinctFeatures.WithLabelValues(category).Set(float64(distinct))
}

// UpdateSystemMetrics updates system-level metrics
func UpdateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	SystemMemoryUsage.Set(float64(m.Alloc))
	SystemGoroutines.Set(float64(runtime.NumGoroutine()))
}

// WriteTextfile dumps every registered metric to path in the text
// exposition format read by the node exporter textfile collector.
func WriteTextfile(path string) error {
	UpdateSystemMetrics()
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
