// Package metrics exposes tool invocation counters and latencies in the
// Prometheus text exposition format.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

type invocationKey struct {
	tool    string
	outcome string
}

type histogram struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram() *histogram {
	buckets := []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	return &histogram{buckets: buckets, counts: make([]uint64, len(buckets))}
}

func (h *histogram) observe(value float64) {
	h.count++
	h.sum += value
	for idx, bound := range h.buckets {
		if value <= bound {
			for i := idx; i < len(h.counts); i++ {
				h.counts[i]++
			}
			break
		}
	}
}

type collector struct {
	mu          sync.Mutex
	invocations map[invocationKey]uint64
	latency     map[string]*histogram
}

var toolCollector = &collector{
	invocations: make(map[invocationKey]uint64),
	latency:     make(map[string]*histogram),
}

// ObserveInvocation records one tool invocation and its duration.
func ObserveInvocation(tool, outcome string, duration time.Duration) {
	toolCollector.observe(tool, outcome, duration)
}

func (c *collector) observe(tool, outcome string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.invocations[invocationKey{tool: tool, outcome: outcome}]++

	hist := c.latency[tool]
	if hist == nil {
		hist = newHistogram()
		c.latency[tool] = hist
	}
	hist.observe(duration.Seconds())
}

// Handler exposes the collected metrics.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		_, _ = fmt.Fprint(w, toolCollector.render())
	})
}

func (c *collector) render() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	type invocationMetric struct {
		invocationKey
		value uint64
	}
	type latencyMetric struct {
		tool    string
		buckets []float64
		counts  []uint64
		sum     float64
		count   uint64
	}

	invocations := make([]invocationMetric, 0, len(c.invocations))
	for key, value := range c.invocations {
		invocations = append(invocations, invocationMetric{invocationKey: key, value: value})
	}
	latencies := make([]latencyMetric, 0, len(c.latency))
	for tool, hist := range c.latency {
		latencies = append(latencies, latencyMetric{
			tool:    tool,
			buckets: append([]float64(nil), hist.buckets...),
			counts:  append([]uint64(nil), hist.counts...),
			sum:     hist.sum,
			count:   hist.count,
		})
	}

	sort.Slice(invocations, func(i, j int) bool {
		if invocations[i].tool == invocations[j].tool {
			return invocations[i].outcome < invocations[j].outcome
		}
		return invocations[i].tool < invocations[j].tool
	})
	sort.Slice(latencies, func(i, j int) bool {
		return latencies[i].tool < latencies[j].tool
	})

	var builder strings.Builder
	builder.Grow(1024)

	builder.WriteString("# HELP aya_tool_invocations_total Total number of tool invocations processed.\n")
	builder.WriteString("# TYPE aya_tool_invocations_total counter\n")
	for _, metric := range invocations {
		builder.WriteString(fmt.Sprintf("aya_tool_invocations_total{tool=\"%s\",outcome=\"%s\"} %d\n",
			escape(metric.tool), escape(metric.outcome), metric.value))
	}

	builder.WriteString("# HELP aya_tool_duration_seconds Tool invocation duration in seconds.\n")
	builder.WriteString("# TYPE aya_tool_duration_seconds histogram\n")
	for _, metric := range latencies {
		for idx, bound := range metric.buckets {
			builder.WriteString(fmt.Sprintf("aya_tool_duration_seconds_bucket{tool=\"%s\",le=\"%s\"} %d\n",
				escape(metric.tool), formatFloat(bound), metric.counts[idx]))
		}
		builder.WriteString(fmt.Sprintf("aya_tool_duration_seconds_bucket{tool=\"%s\",le=\"+Inf\"} %d\n",
			escape(metric.tool), metric.count))
		builder.WriteString(fmt.Sprintf("aya_tool_duration_seconds_sum{tool=\"%s\"} %s\n",
			escape(metric.tool), formatFloat(metric.sum)))
		builder.WriteString(fmt.Sprintf("aya_tool_duration_seconds_count{tool=\"%s\"} %d\n",
			escape(metric.tool), metric.count))
	}

	return builder.String()
}

func escape(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, "\"", "\\\"")
	value = strings.ReplaceAll(value, "\n", "")
	return value
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// StartServer launches a standalone HTTP server exposing /metrics. The MCP
// transport owns stdio, so metrics get their own listener.
func StartServer(ctx context.Context, addr string) error {
	if addr == "" {
		return errors.New("metrics address is empty")
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	srv := &http.Server{Addr: addr, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return err
	}
}
