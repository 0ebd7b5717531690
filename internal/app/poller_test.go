package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfqa/internal/ai"
)

func sequence(statuses ...ai.JobStatus) (StatusCheck, *int) {
	calls := 0
	return func(context.Context) (ai.JobStatus, error) {
		i := calls
		if i >= len(statuses) {
			i = len(statuses) - 1
		}
		calls++
		return statuses[i], nil
	}, &calls
}

func TestPoller_CompletesAfterSeveralChecks(t *testing.T) {
	check, calls := sequence(ai.StatusQueued, ai.StatusInProgress, ai.StatusCompleted)
	status, err := Poller{Interval: time.Millisecond, MaxAttempts: 10}.Wait(context.Background(), check)
	require.NoError(t, err)
	assert.Equal(t, ai.StatusCompleted, status)
	assert.Equal(t, 3, *calls)
}

func TestPoller_Bounded(t *testing.T) {
	check, calls := sequence(ai.StatusInProgress)
	_, err := Poller{Interval: time.Millisecond, MaxAttempts: 4}.Wait(context.Background(), check)
	assert.ErrorIs(t, err, ErrPollTimeout)
	assert.Equal(t, 4, *calls)
}

func TestPoller_FailedTerminalStates(t *testing.T) {
	for _, s := range []ai.JobStatus{ai.StatusFailed, ai.StatusCancelled, ai.StatusExpired} {
		check, calls := sequence(ai.StatusQueued, s)
		status, err := Poller{Interval: time.Millisecond, MaxAttempts: 10}.Wait(context.Background(), check)
		assert.ErrorIs(t, err, ErrJobFailed, string(s))
		assert.Equal(t, s, status)
		assert.Equal(t, 2, *calls)
	}
}

func TestPoller_CheckError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Poller{Interval: time.Millisecond, MaxAttempts: 3}.Wait(context.Background(),
		func(context.Context) (ai.JobStatus, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
}

func TestPoller_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	check := func(context.Context) (ai.JobStatus, error) {
		cancel()
		return ai.StatusInProgress, nil
	}
	_, err := Poller{Interval: time.Hour, MaxAttempts: 10}.Wait(ctx, check)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewPoller_Defaults(t *testing.T) {
	p := NewPoller(0, 0)
	assert.Equal(t, DefaultPollInterval, p.Interval)
	assert.Equal(t, DefaultPollMaxAttempts, p.MaxAttempts)
}
