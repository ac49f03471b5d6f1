package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics stores application metrics
type Metrics struct {
	RequestsTotal      uint64
	RequestsInProgress int64
	RequestsSuccess    uint64
	RequestsFailed     uint64
	RateLimited        uint64
	AnalysesTotal      uint64
	AnalysesSucceeded  uint64
	AnalysesRejected   uint64
	AnalysesFailed     uint64
	StartTime          time.Time
}

var globalMetrics = &Metrics{
	StartTime: time.Now(),
}

// Analysis outcomes as counted by RecordAnalysis.
type Outcome int

const (
	OutcomeSuccess  Outcome = iota
	OutcomeRejected         // not configured or invalid input
	OutcomeFailed           // parse or provider failure
)

// RecordAnalysis counts one finished analysis request.
func RecordAnalysis(o Outcome) {
	atomic.AddUint64(&globalMetrics.AnalysesTotal, 1)
	switch o {
	case OutcomeSuccess:
		atomic.AddUint64(&globalMetrics.AnalysesSucceeded, 1)
	case OutcomeRejected:
		atomic.AddUint64(&globalMetrics.AnalysesRejected, 1)
	default:
		atomic.AddUint64(&globalMetrics.AnalysesFailed, 1)
	}
}

func incrementRateLimited() {
	atomic.AddUint64(&globalMetrics.RateLimited, 1)
}

// GetMetrics returns current metrics
func GetMetrics() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]interface{}{
		"requests_total":       atomic.LoadUint64(&globalMetrics.RequestsTotal),
		"requests_in_progress": atomic.LoadInt64(&globalMetrics.RequestsInProgress),
		"requests_success":     atomic.LoadUint64(&globalMetrics.RequestsSuccess),
		"requests_failed":      atomic.LoadUint64(&globalMetrics.RequestsFailed),
		"rate_limited":         atomic.LoadUint64(&globalMetrics.RateLimited),
		"analyses_total":       atomic.LoadUint64(&globalMetrics.AnalysesTotal),
		"analyses_succeeded":   atomic.LoadUint64(&globalMetrics.AnalysesSucceeded),
		"analyses_rejected":    atomic.LoadUint64(&globalMetrics.AnalysesRejected),
		"analyses_failed":      atomic.LoadUint64(&globalMetrics.AnalysesFailed),
		"uptime_seconds":       time.Since(globalMetrics.StartTime).Seconds(),
		"memory": map[string]interface{}{
			"alloc_bytes":       m.Alloc,
			"total_alloc_bytes": m.TotalAlloc,
			"sys_bytes":         m.Sys,
			"num_gc":            m.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// MetricsMiddleware tracks request metrics
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddUint64(&globalMetrics.RequestsTotal, 1)
		atomic.AddInt64(&globalMetrics.RequestsInProgress, 1)
		defer atomic.AddInt64(&globalMetrics.RequestsInProgress, -1)

		wrapped := wrapWriter(w)
		next.ServeHTTP(wrapped, r)

		if wrapped.statusCode >= 200 && wrapped.statusCode < 400 {
			atomic.AddUint64(&globalMetrics.RequestsSuccess, 1)
		} else {
			atomic.AddUint64(&globalMetrics.RequestsFailed, 1)
		}
	})
}

// MetricsHandler returns metrics as JSON
func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GetMetrics())
}
