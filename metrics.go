package shapego

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    conversions prometheus.Counter
//	    latency     prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordConversion(duration time.Duration, err error) {
//	    p.conversions.Inc()
//	    p.latency.Observe(duration.Seconds())
//	}
type MetricsCollector interface {
	// RecordConversion is called after each dataset/vector conversion.
	// duration is the total time taken, err is nil if successful.
	RecordConversion(duration time.Duration, err error)

	// RecordBatch is called after each batch conversion.
	// count is the number of datasets attempted.
	RecordBatch(count int, duration time.Duration, err error)

	// RecordSave is called after each representer save.
	RecordSave(duration time.Duration, err error)

	// RecordLoad is called after each representer load.
	RecordLoad(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordConversion(time.Duration, error) {}
func (NoopMetricsCollector) RecordBatch(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordSave(time.Duration, error)       {}
func (NoopMetricsCollector) RecordLoad(time.Duration, error)       {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ConversionCount      atomic.Int64
	ConversionErrors     atomic.Int64
	ConversionTotalNanos atomic.Int64
	BatchCount           atomic.Int64
	BatchItems           atomic.Int64
	BatchErrors          atomic.Int64
	SaveCount            atomic.Int64
	SaveErrors           atomic.Int64
	LoadCount            atomic.Int64
	LoadErrors           atomic.Int64
}

// RecordConversion implements MetricsCollector.
func (b *BasicMetricsCollector) RecordConversion(duration time.Duration, err error) {
	b.ConversionCount.Add(1)
	b.ConversionTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ConversionErrors.Add(1)
	}
}

// RecordBatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatch(count int, duration time.Duration, err error) {
	b.BatchCount.Add(1)
	b.BatchItems.Add(int64(count))
	if err != nil {
		b.BatchErrors.Add(1)
	}
}

// RecordSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSave(duration time.Duration, err error) {
	b.SaveCount.Add(1)
	if err != nil {
		b.SaveErrors.Add(1)
	}
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(duration time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ConversionCount:    b.ConversionCount.Load(),
		ConversionErrors:   b.ConversionErrors.Load(),
		ConversionAvgNanos: b.getAvgConversionNanos(),
		BatchCount:         b.BatchCount.Load(),
		BatchItems:         b.BatchItems.Load(),
		BatchErrors:        b.BatchErrors.Load(),
		SaveCount:          b.SaveCount.Load(),
		SaveErrors:         b.SaveErrors.Load(),
		LoadCount:          b.LoadCount.Load(),
		LoadErrors:         b.LoadErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgConversionNanos() int64 {
	count := b.ConversionCount.Load()
	if count == 0 {
		return 0
	}
	return b.ConversionTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ConversionCount    int64
	ConversionErrors   int64
	ConversionAvgNanos int64
	BatchCount         int64
	BatchItems         int64
	BatchErrors        int64
	SaveCount          int64
	SaveErrors         int64
	LoadCount          int64
	LoadErrors         int64
}
