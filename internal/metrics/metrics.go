package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	Uploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "pdfqa", Name: "uploads_total", Help: "Document uploads by outcome."},
		[]string{"outcome"},
	)
	Questions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "pdfqa", Name: "questions_total", Help: "Questions asked by outcome."},
		[]string{"outcome"},
	)
	PollAttempts = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "pdfqa", Name: "poll_attempts_total", Help: "Status checks issued while waiting on hosted jobs."},
	)
	AssistantsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "pdfqa", Name: "assistants_created_total", Help: "Assistants created on the hosted service."},
	)
	RateLimitRejected = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "pdfqa", Name: "rate_limit_rejected_total", Help: "Requests rejected by the rate limiter."},
	)
)

var registerOnce sync.Once

// RegisterCollectors registers every collector once; later calls are no-ops.
func RegisterCollectors(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(Uploads, Questions, PollAttempts, AssistantsCreated, RateLimitRejected)
	})
}
