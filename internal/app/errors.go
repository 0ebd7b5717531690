package app

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrPollTimeout  = errors.New("timed out waiting for completion")
	ErrJobFailed    = errors.New("hosted job did not complete")
)
