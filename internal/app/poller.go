package app

import (
	"context"
	"fmt"
	"time"

	"pdfqa/internal/ai"
	"pdfqa/internal/metrics"
)

const (
	DefaultPollInterval    = time.Second
	DefaultPollMaxAttempts = 120
)

// StatusCheck fetches the current status of one hosted job.
type StatusCheck func(ctx context.Context) (ai.JobStatus, error)

// Poller waits for a hosted job with a fixed interval and a bounded number of
// checks. The first check runs immediately.
type Poller struct {
	Interval    time.Duration
	MaxAttempts int
}

func NewPoller(interval time.Duration, maxAttempts int) Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultPollMaxAttempts
	}
	return Poller{Interval: interval, MaxAttempts: maxAttempts}
}

// Wait returns the completed status with a nil error once check reports
// completed. Failed terminal states wrap ErrJobFailed, exhausting MaxAttempts
// wraps ErrPollTimeout.
func (p Poller) Wait(ctx context.Context, check StatusCheck) (ai.JobStatus, error) {
	p = NewPoller(p.Interval, p.MaxAttempts)

	var last ai.JobStatus
	for attempt := 1; ; attempt++ {
		metrics.PollAttempts.Inc()
		status, err := check(ctx)
		if err != nil {
			return last, err
		}
		last = status

		if status == ai.StatusCompleted {
			return status, nil
		}
		if status.Failed() {
			return status, fmt.Errorf("%w: status %s", ErrJobFailed, status)
		}
		if attempt >= p.MaxAttempts {
			return status, fmt.Errorf("%w: last status %q after %d checks", ErrPollTimeout, status, attempt)
		}

		timer := time.NewTimer(p.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return status, ctx.Err()
		case <-timer.C:
		}
	}
}
