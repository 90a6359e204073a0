package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	ingestStartedTotal   atomic.Uint64
	ingestCompletedTotal atomic.Uint64
	ingestFailedTotal    atomic.Uint64
	fallbackUsedTotal    atomic.Uint64

	ingestJobsReceivedTotal  atomic.Uint64
	ingestJobsCompletedTotal atomic.Uint64
	ingestJobsFailedTotal    atomic.Uint64
	ingestJobsDroppedTotal   atomic.Uint64

	ingestDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncIngestStarted increments the started counter.
func IncIngestStarted() {
	ingestStartedTotal.Add(1)
}

// IncIngestCompleted increments the completed counter.
func IncIngestCompleted() {
	ingestCompletedTotal.Add(1)
}

// IncIngestFailed increments the failed counter.
func IncIngestFailed() {
	ingestFailedTotal.Add(1)
}

// IncFallbackUsed increments the provider-fallback counter.
func IncFallbackUsed() {
	fallbackUsedTotal.Add(1)
}

// IncIngestJobsReceived increments the worker received counter.
func IncIngestJobsReceived() {
	ingestJobsReceivedTotal.Add(1)
}

// IncIngestJobsCompleted increments the worker completed counter.
func IncIngestJobsCompleted() {
	ingestJobsCompletedTotal.Add(1)
}

// IncIngestJobsFailed increments the worker failed counter.
func IncIngestJobsFailed() {
	ingestJobsFailedTotal.Add(1)
}

// IncIngestJobsDropped increments the counter for unrecoverable queue payloads.
func IncIngestJobsDropped() {
	ingestJobsDroppedTotal.Add(1)
}

// ObserveIngestDurationMs records a pipeline duration in milliseconds.
func ObserveIngestDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	ingestDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "ingest_started_total", "Total ingestions started", ingestStartedTotal.Load())
	writeCounter(&buf, "ingest_completed_total", "Total ingestions completed", ingestCompletedTotal.Load())
	writeCounter(&buf, "ingest_failed_total", "Total ingestions failed", ingestFailedTotal.Load())
	writeCounter(&buf, "ingest_fallback_used_total", "Total provider calls degraded to fallback content", fallbackUsedTotal.Load())
	writeCounter(&buf, "ingest_jobs_received_total", "Total queue jobs received", ingestJobsReceivedTotal.Load())
	writeCounter(&buf, "ingest_jobs_completed_total", "Total queue jobs completed", ingestJobsCompletedTotal.Load())
	writeCounter(&buf, "ingest_jobs_failed_total", "Total queue jobs failed", ingestJobsFailedTotal.Load())
	writeCounter(&buf, "ingest_jobs_dropped_total", "Total queue jobs dropped as unrecoverable", ingestJobsDroppedTotal.Load())
	writeHistogram(&buf, "ingest_duration_ms", "Ingestion pipeline duration in milliseconds", ingestDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
