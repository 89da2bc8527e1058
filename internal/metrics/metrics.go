package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapsouq_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swapsouq_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	MessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapsouq_messages_sent_total",
			Help: "Total messages stored",
		},
		[]string{"type"}, // "text", "image" or "audio"
	)

	MediaUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapsouq_media_uploads_total",
			Help: "Total media upload attempts",
		},
		[]string{"kind", "status"}, // status "ok" or "error"
	)

	MarkReadFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swapsouq_mark_read_failures_total",
			Help: "Total failed mark-read store calls",
		},
	)

	ConversationsOpened = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swapsouq_conversations_opened_total",
			Help: "Total conversation opens",
		},
	)

	SearchQueries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swapsouq_search_queries_total",
			Help: "Total message search queries",
		},
	)

	// Audio capture metrics
	RecordingsFinalized = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swapsouq_recordings_finalized_total",
			Help: "Total voice recordings finalized into a payload",
		},
	)

	RecordingsDiscarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapsouq_recordings_discarded_total",
			Help: "Total voice recordings discarded without a payload",
		},
		[]string{"reason"}, // "cancelled" or "too_short"
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapsouq_rate_limit_hits_total",
			Help: "Total rate limit hits",
		},
		[]string{"endpoint"},
	)

	BlockedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapsouq_blocked_requests_total",
			Help: "Total blocked requests",
		},
		[]string{"reason"},
	)
)
