package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	storeFailures *prometheus.CounterVec
	cacheResults  *prometheus.CounterVec

	chatConnections prometheus.Gauge
	chatMessages    *prometheus.CounterVec
	onlineUsers     prometheus.Gauge
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		httpRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "projobhub",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "projobhub",
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution of HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		storeFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "projobhub",
			Name:      "store_failures_total",
			Help:      "Failed listing store operations, which degrade to empty results.",
		}, []string{"op"}),
		cacheResults: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "projobhub",
			Name:      "listing_cache_total",
			Help:      "Listing cache lookups by result (hit, miss, error).",
		}, []string{"result"}),
		chatConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "projobhub",
			Name:      "chat_connections",
			Help:      "Open chat websocket connections on this instance.",
		}),
		chatMessages: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "projobhub",
			Name:      "chat_messages_total",
			Help:      "Chat messages by result (sent, rejected, failed).",
		}, []string{"result"}),
		onlineUsers: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "projobhub",
			Name:      "chat_online_users",
			Help:      "Users currently present in the chat room.",
		}),
	}
})

func get() *metrics { return metricsSingleton() }

func StoreFailure(op string) { get().storeFailures.WithLabelValues(op).Inc() }

func CacheResult(result string) { get().cacheResults.WithLabelValues(result).Inc() }

func ChatConnected()    { get().chatConnections.Inc() }
func ChatDisconnected() { get().chatConnections.Dec() }

func ChatMessage(result string) { get().chatMessages.WithLabelValues(result).Inc() }

func OnlineUsers(n int) { get().onlineUsers.Set(float64(n)) }

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }

// Instrument records count and latency of requests served by next under the route label.
func Instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		m := get()
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.httpLatency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("metrics: response writer cannot hijack")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}
