package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Build collects the metrics of one bsindex build on a private registry.
type Build struct {
	registry *prometheus.Registry

	inputFiles    *prometheus.CounterVec
	outputFiles   *prometheus.CounterVec
	indexEntries  prometheus.Gauge
	skippedFiles  prometheus.Gauge
	duration      prometheus.Histogram
	lastSuccess   prometheus.Gauge
	buildFailures prometheus.Counter
}

func NewBuild(repository string) *Build {
	registry := prometheus.NewRegistry()
	factory := promauto.With(prometheus.WrapRegistererWith(prometheus.Labels{"repository": repository}, registry))

	return &Build{
		registry: registry,
		inputFiles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bsindex_input_files_total",
				Help: "Input files processed by outcome and data type",
			},
			[]string{"outcome", "data_type"},
		),
		outputFiles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bsindex_output_files_total",
				Help: "Output files by write outcome",
			},
			[]string{"outcome"},
		),
		indexEntries: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bsindex_index_entries",
				Help: "Entries in the generated index",
			},
		),
		skippedFiles: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bsindex_skipped_files",
				Help: "Data files left out of the index",
			},
		),
		duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bsindex_build_duration_seconds",
				Help:    "Duration of bsindex builds",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
		),
		lastSuccess: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bsindex_last_success_timestamp_seconds",
				Help: "Unix time of the last successful build",
			},
		),
		buildFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "bsindex_build_failures_total",
				Help: "Failed builds",
			},
		),
	}
}

func (b *Build) ObserveInput(outcome, dataType string) {
	b.inputFiles.WithLabelValues(outcome, dataType).Inc()
}

func (b *Build) ObserveOutput(outcome string) {
	b.outputFiles.WithLabelValues(outcome).Inc()
}

func (b *Build) SetIndex(entries, skipped int) {
	b.indexEntries.Set(float64(entries))
	b.skippedFiles.Set(float64(skipped))
}

// Finish records the build duration and whether it succeeded.
func (b *Build) Finish(started, now time.Time, err error) {
	b.duration.Observe(now.Sub(started).Seconds())
	if err != nil {
		b.buildFailures.Inc()
		return
	}
	b.lastSuccess.Set(float64(now.Unix()))
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (b *Build) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, b.registry)
}

func (b *Build) Registry() *prometheus.Registry {
	return b.registry
}
