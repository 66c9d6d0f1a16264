package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	predictionStartedTotal   atomic.Uint64
	predictionCompletedTotal atomic.Uint64
	predictionFailedTotal    atomic.Uint64
	chatOnlineTotal          atomic.Uint64
	chatOfflineTotal         atomic.Uint64
	chatFailedTotal          atomic.Uint64

	fallbackMu    sync.Mutex
	fallbackTotal = map[string]uint64{}

	predictionDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncPredictionStarted increments the started counter.
func IncPredictionStarted() { predictionStartedTotal.Add(1) }

// IncPredictionCompleted increments the completed counter.
func IncPredictionCompleted() { predictionCompletedTotal.Add(1) }

// IncPredictionFailed increments the failed counter.
func IncPredictionFailed() { predictionFailedTotal.Add(1) }

// IncAdvisoryFallback counts one placeholder substitution for the named facet.
func IncAdvisoryFallback(facet string) {
	fallbackMu.Lock()
	fallbackTotal[facet]++
	fallbackMu.Unlock()
}

// IncChat counts one chat reply, online or canned.
func IncChat(online bool) {
	if online {
		chatOnlineTotal.Add(1)
		return
	}
	chatOfflineTotal.Add(1)
}

// IncChatFailed counts a chat request the upstream rejected.
func IncChatFailed() { chatFailedTotal.Add(1) }

// ObservePredictionDurationMs records a prediction duration in milliseconds.
func ObservePredictionDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	predictionDuration.Observe(value)
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
	writeCounter(&buf, "prediction_started_total", "Total predictions started", predictionStartedTotal.Load())
	writeCounter(&buf, "prediction_completed_total", "Total predictions completed", predictionCompletedTotal.Load())
	writeCounter(&buf, "prediction_failed_total", "Total predictions failed", predictionFailedTotal.Load())
	writeFallbacks(&buf)
	fmt.Fprintf(&buf, "# HELP chat_replies_total Chat replies by mode\n")
	fmt.Fprintf(&buf, "# TYPE chat_replies_total counter\n")
	fmt.Fprintf(&buf, "chat_replies_total{mode=\"online\"} %d\n", chatOnlineTotal.Load())
	fmt.Fprintf(&buf, "chat_replies_total{mode=\"offline\"} %d\n", chatOfflineTotal.Load())
	writeCounter(&buf, "chat_failed_total", "Chat requests failed upstream", chatFailedTotal.Load())
	writeHistogram(&buf, "prediction_duration_ms", "Prediction duration in milliseconds", predictionDuration.Snapshot())
	return buf.String()
}

func writeFallbacks(buf *bytes.Buffer) {
	fallbackMu.Lock()
	facets := make([]string, 0, len(fallbackTotal))
	for f := range fallbackTotal {
		facets = append(facets, f)
	}
	sort.Strings(facets)
	counts := make([]uint64, len(facets))
	for i, f := range facets {
		counts[i] = fallbackTotal[f]
	}
	fallbackMu.Unlock()

	fmt.Fprintf(buf, "# HELP advisory_fallback_total Advisory facets replaced by placeholders\n")
	fmt.Fprintf(buf, "# TYPE advisory_fallback_total counter\n")
	for i, f := range facets {
		fmt.Fprintf(buf, "advisory_fallback_total{facet=%q} %d\n", f, counts[i])
	}
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

// Observe records value in the first bucket whose bound covers it.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
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
