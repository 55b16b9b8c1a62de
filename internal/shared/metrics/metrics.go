package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	letterStartedTotal   atomic.Uint64
	letterCompletedTotal atomic.Uint64
	letterFailedTotal    atomic.Uint64

	letterJobsReceivedTotal             atomic.Uint64
	letterJobsCompletedTotal            atomic.Uint64
	letterJobsFailedTotal               atomic.Uint64
	letterJobsDeletedUnrecoverableTotal atomic.Uint64

	letterDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncLetterStarted increments the started counter.
func IncLetterStarted() {
	letterStartedTotal.Add(1)
}

// IncLetterCompleted increments the completed counter.
func IncLetterCompleted() {
	letterCompletedTotal.Add(1)
}

// IncLetterFailed increments the failed counter.
func IncLetterFailed() {
	letterFailedTotal.Add(1)
}

// ObserveLetterDurationMs records a letter generation duration in milliseconds.
func ObserveLetterDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	letterDuration.Observe(value)
}

// IncLetterJobsReceived increments the queue jobs received counter.
func IncLetterJobsReceived() {
	letterJobsReceivedTotal.Add(1)
}

// IncLetterJobsCompleted increments the queue jobs completed counter.
func IncLetterJobsCompleted() {
	letterJobsCompletedTotal.Add(1)
}

// IncLetterJobsFailed increments the queue jobs failed counter.
func IncLetterJobsFailed() {
	letterJobsFailedTotal.Add(1)
}

// IncLetterJobsDeletedUnrecoverable increments the counter of jobs dropped
// because their payload can never be processed.
func IncLetterJobsDeletedUnrecoverable() {
	letterJobsDeletedUnrecoverableTotal.Add(1)
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
	writeCounter(&buf, "letter_started_total", "Total letter generations started", letterStartedTotal.Load())
	writeCounter(&buf, "letter_completed_total", "Total letter generations completed", letterCompletedTotal.Load())
	writeCounter(&buf, "letter_failed_total", "Total letter generations failed", letterFailedTotal.Load())
	writeCounter(&buf, "letter_jobs_received_total", "Total queue jobs received", letterJobsReceivedTotal.Load())
	writeCounter(&buf, "letter_jobs_completed_total", "Total queue jobs completed", letterJobsCompletedTotal.Load())
	writeCounter(&buf, "letter_jobs_failed_total", "Total queue jobs failed", letterJobsFailedTotal.Load())
	writeCounter(&buf, "letter_jobs_deleted_unrecoverable_total", "Total queue jobs deleted as unrecoverable", letterJobsDeletedUnrecoverableTotal.Load())
	writeHistogram(&buf, "letter_duration_ms", "Letter generation duration in milliseconds", letterDuration.Snapshot())
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

// NowMillis returns current time in milliseconds, useful for callers without time utilities.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
